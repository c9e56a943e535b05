package balance

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByStaffID(ctx context.Context, staffID string) (*LeaveBalance, error)
	ApplyDebit(ctx context.Context, staffID string, t LeaveType, days float64) error
	ApplySwitch(ctx context.Context, staffID string) error
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

func (r *repository) FindByStaffID(ctx context.Context, staffID string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		First(&b, "staff_id = ?", staffID).Error
	return &b, err
}

// ApplyDebit moves the pair for one type in lockstep as a single
// relative UPDATE, so concurrent approvals each add their own delta and
// no read-modify-write window exists. remaining is not clamped and may
// go negative.
func (r *repository) ApplyDebit(ctx context.Context, staffID string, t LeaveType, days float64) error {
	usedCol, remainCol, ok := DebitColumns(t)
	if !ok {
		return fmt.Errorf("leave type %q has no balance columns", t)
	}

	// column names come from the typed registry, never from input
	query := fmt.Sprintf(`
UPDATE leave_balances
SET %s = %s + $2, %s = %s - $2, updated_at = NOW()
WHERE staff_id = $1
`, usedCol, usedCol, remainCol, remainCol)

	return r.exec(ctx, query, staffID, days)
}

// ApplySwitch handles the weekly holiday switch: the counter goes up by
// one and one day is credited into the "other" remaining pool. other_used
// is untouched.
func (r *repository) ApplySwitch(ctx context.Context, staffID string) error {
	return r.exec(ctx, `
UPDATE leave_balances
SET switch_count = switch_count + 1, other_remaining = other_remaining + 1, updated_at = NOW()
WHERE staff_id = $1
`, staffID)
}

func (r *repository) exec(ctx context.Context, query string, args ...any) error {
	var res sql.Result
	var err error

	if r.tx != nil {
		res, err = r.tx.ExecContext(ctx, query, args...)
	} else {
		sqlDB, dbErr := r.db.DB()
		if dbErr != nil {
			return dbErr
		}
		res, err = sqlDB.ExecContext(ctx, query, args...)
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
