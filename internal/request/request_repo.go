package request

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=request_repo.go -destination=mock/request_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByRequestID(ctx context.Context, requestID string) (*LeaveRequest, error)
	FindByRequestIDForUpdate(ctx context.Context, requestID string) (*LeaveRequest, error)
	FindAllByStaff(ctx context.Context, staffID string) ([]LeaveRequest, error)
	FindAll(ctx context.Context) ([]LeaveRequest, error)
	FindApprovedByStaff(ctx context.Context, staffID string) ([]LeaveRequest, error)
	UpdateDecision(ctx context.Context, requestID, status, approverName, approverNote string, decisionDate time.Time) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// Create inserts the new row through the transaction when one is set,
// so the row and its outbox event commit together.
func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	if r.tx == nil {
		return r.db.WithContext(ctx).Create(l).Error
	}

	_, err := r.tx.ExecContext(ctx, `
INSERT INTO leave_requests (
	request_id, applied_date, staff_id, staff_name, site_id,
	leave_type, start_date, end_date, total_days, reason,
	status, attachment_url, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
`,
		l.RequestID, l.AppliedDate, l.StaffID, l.StaffName, l.SiteID,
		l.LeaveType, l.StartDate, l.EndDate, l.TotalDays, l.Reason,
		l.Status, l.AttachmentURL,
	)
	return err
}

func (r *repository) FindByRequestID(ctx context.Context, requestID string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		First(&l, "request_id = ?", requestID).Error
	return &l, err
}

const selectForUpdate = `
SELECT request_id, applied_date, staff_id, staff_name, site_id,
	leave_type, start_date, end_date, total_days, reason,
	status, attachment_url
FROM leave_requests
WHERE request_id = $1
FOR UPDATE
`

// FindByRequestIDForUpdate locks the row so the terminal-state check
// and the decision write happen under one lock: two racing decisions
// for the same request serialize and the loser sees the decided state.
func (r *repository) FindByRequestIDForUpdate(ctx context.Context, requestID string) (*LeaveRequest, error) {
	if r.tx == nil {
		return r.FindByRequestID(ctx, requestID)
	}

	var l LeaveRequest
	err := r.tx.QueryRowContext(ctx, selectForUpdate, requestID).Scan(
		&l.RequestID, &l.AppliedDate, &l.StaffID, &l.StaffName, &l.SiteID,
		&l.LeaveType, &l.StartDate, &l.EndDate, &l.TotalDays, &l.Reason,
		&l.Status, &l.AttachmentURL,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindAllByStaff(ctx context.Context, staffID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("applied_date DESC, created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Order("applied_date DESC, created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindApprovedByStaff(ctx context.Context, staffID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Where("status = ?", StatusApproved).
		Order("start_date ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) UpdateDecision(ctx context.Context, requestID, status, approverName, approverNote string, decisionDate time.Time) error {
	query := `
UPDATE leave_requests
SET status = $2, approver_name = $3, approver_note = $4, decision_date = $5, updated_at = NOW()
WHERE request_id = $1
`

	var res sql.Result
	var err error
	if r.tx != nil {
		res, err = r.tx.ExecContext(ctx, query, requestID, status, approverName, approverNote, decisionDate)
	} else {
		sqlDB, dbErr := r.db.DB()
		if dbErr != nil {
			return dbErr
		}
		res, err = sqlDB.ExecContext(ctx, query, requestID, status, approverName, approverNote, decisionDate)
	}
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
