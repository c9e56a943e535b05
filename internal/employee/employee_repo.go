package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByStaffID(ctx context.Context, staffID string) (*Employee, error)
	FindByLineUserID(ctx context.Context, lineUserID string) (*Employee, error)
	FindHolderOfLineIDForUpdate(ctx context.Context, lineUserID string) (*Employee, error)
	FindByStaffIDForUpdate(ctx context.Context, staffID string) (*Employee, error)
	BindLineID(ctx context.Context, staffID, lineUserID string) error
	DirectoryRows(ctx context.Context, sampleLimit int) ([]Employee, int64, error)
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

func (r *repository) FindByStaffID(ctx context.Context, staffID string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		First(&e, "staff_id = ?", staffID).Error
	return &e, err
}

// FindByLineUserID resolves the implicit login: the row holding this
// line id. Rows with a blank staff id are ignored.
func (r *repository) FindByLineUserID(ctx context.Context, lineUserID string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Where("line_user_id = ?", lineUserID).
		Where("staff_id <> ''").
		First(&e).Error
	return &e, err
}

const selectForUpdate = `
SELECT staff_id, COALESCE(line_user_id, ''), full_name, site_id, role_type, position
FROM employ_db
`

// FindHolderOfLineIDForUpdate locks the row currently holding the line
// id so a concurrent link for the same identity serializes behind it.
// Returns sql.ErrNoRows when nobody holds it.
func (r *repository) FindHolderOfLineIDForUpdate(ctx context.Context, lineUserID string) (*Employee, error) {
	q, err := r.querier()
	if err != nil {
		return nil, err
	}
	row := q.QueryRowContext(ctx, selectForUpdate+`WHERE line_user_id = $1 FOR UPDATE`, lineUserID)
	return scanEmployee(row)
}

func (r *repository) FindByStaffIDForUpdate(ctx context.Context, staffID string) (*Employee, error) {
	q, err := r.querier()
	if err != nil {
		return nil, err
	}
	row := q.QueryRowContext(ctx, selectForUpdate+`WHERE staff_id = $1 FOR UPDATE`, staffID)
	return scanEmployee(row)
}

func (r *repository) BindLineID(ctx context.Context, staffID, lineUserID string) error {
	q, err := r.querier()
	if err != nil {
		return err
	}
	res, err := q.ExecContext(ctx, `
UPDATE employ_db
SET line_user_id = $2, updated_at = NOW()
WHERE staff_id = $1
`, staffID, lineUserID)
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

func (r *repository) DirectoryRows(ctx context.Context, sampleLimit int) ([]Employee, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Employee{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Employee
	err := r.db.WithContext(ctx).
		Order("staff_id ASC").
		Limit(sampleLimit).
		Find(&rows).Error
	return rows, total, err
}

type sqlQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *repository) querier() (sqlQuerier, error) {
	if r.tx != nil {
		return r.tx, nil
	}
	return r.db.DB()
}

func scanEmployee(row *sql.Row) (*Employee, error) {
	var e Employee
	var lineUserID string
	if err := row.Scan(&e.StaffID, &lineUserID, &e.FullName, &e.SiteID, &e.RoleType, &e.Position); err != nil {
		return nil, err
	}
	if lineUserID != "" {
		e.LineUserID = &lineUserID
	}
	return &e, nil
}
