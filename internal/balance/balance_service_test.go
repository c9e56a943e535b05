package balance_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/Taanawutana-gai/LMS/internal/balance"
	balanceerrors "github.com/Taanawutana-gai/LMS/internal/balance/errors"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeBalanceRepository struct {
	withTxFn        func(tx *sql.Tx) balance.Repository
	findByStaffIDFn func(ctx context.Context, staffID string) (*balance.LeaveBalance, error)
	applyDebitFn    func(ctx context.Context, staffID string, t balance.LeaveType, days float64) error
	applySwitchFn   func(ctx context.Context, staffID string) error
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) balance.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeBalanceRepository) FindByStaffID(ctx context.Context, staffID string) (*balance.LeaveBalance, error) {
	if f.findByStaffIDFn != nil {
		return f.findByStaffIDFn(ctx, staffID)
	}
	return &balance.LeaveBalance{}, nil
}

func (f *fakeBalanceRepository) ApplyDebit(ctx context.Context, staffID string, t balance.LeaveType, days float64) error {
	if f.applyDebitFn != nil {
		return f.applyDebitFn(ctx, staffID, t, days)
	}
	return nil
}

func (f *fakeBalanceRepository) ApplySwitch(ctx context.Context, staffID string) error {
	if f.applySwitchFn != nil {
		return f.applySwitchFn(ctx, staffID)
	}
	return nil
}

func TestBalanceService_GetBalances(t *testing.T) {
	ctx := context.Background()

	t.Run("success maps every type in order", func(t *testing.T) {
		repo := &fakeBalanceRepository{
			findByStaffIDFn: func(ctx context.Context, staffID string) (*balance.LeaveBalance, error) {
				assert.Equal(t, "EMP001", staffID)
				return &balance.LeaveBalance{
					StaffID:         "EMP001",
					FullName:        "Somchai P.",
					SiteID:          "BKK01",
					AnnualUsed:      3,
					AnnualRemaining: 7,
					SickUsed:        1,
					SickRemaining:   29,
					SwitchCount:     2,
					OtherRemaining:  2,
				}, nil
			},
		}
		svc := balance.NewService(repo, nil)

		resp, err := svc.GetBalances(ctx, "EMP001")

		assert.NoError(t, err)
		assert.Equal(t, "EMP001", resp.StaffID)
		assert.Equal(t, "Somchai P.", resp.Name)
		assert.Equal(t, "BKK01", resp.SiteID)
		assert.Equal(t, float64(2), resp.SwitchCount)
		assert.Len(t, resp.Balances, 8)

		assert.Equal(t, "Annual Leave", resp.Balances[0].Type)
		assert.Equal(t, float64(3), resp.Balances[0].Used)
		assert.Equal(t, float64(7), resp.Balances[0].Remaining)

		assert.Equal(t, "Sick Leave", resp.Balances[1].Type)
		assert.Equal(t, float64(1), resp.Balances[1].Used)
	})

	t.Run("switch entry reports counter as used and zero remaining", func(t *testing.T) {
		repo := &fakeBalanceRepository{
			findByStaffIDFn: func(ctx context.Context, staffID string) (*balance.LeaveBalance, error) {
				return &balance.LeaveBalance{StaffID: "EMP001", SwitchCount: 4}, nil
			},
		}
		svc := balance.NewService(repo, nil)

		resp, err := svc.GetBalances(ctx, "EMP001")
		assert.NoError(t, err)

		var found bool
		for _, e := range resp.Balances {
			if e.Type == string(balance.TypeWeeklySwitch) {
				found = true
				assert.Equal(t, float64(4), e.Used)
				assert.Equal(t, float64(0), e.Remaining)
			}
		}
		assert.True(t, found)
	})

	t.Run("negative not found", func(t *testing.T) {
		repo := &fakeBalanceRepository{
			findByStaffIDFn: func(ctx context.Context, staffID string) (*balance.LeaveBalance, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := balance.NewService(repo, nil)

		_, err := svc.GetBalances(ctx, "EMP404")
		assert.ErrorIs(t, err, balanceerrors.ErrBalanceNotFound)
	})

	t.Run("negative blank staff id", func(t *testing.T) {
		svc := balance.NewService(&fakeBalanceRepository{}, nil)

		_, err := svc.GetBalances(ctx, "  ")
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidStaffID)
	})
}

func TestBalanceService_ApplyApproval(t *testing.T) {
	ctx := context.Background()

	t.Run("debitable type moves the pair", func(t *testing.T) {
		var gotType balance.LeaveType
		var gotDays float64
		repo := &fakeBalanceRepository{
			applyDebitFn: func(ctx context.Context, staffID string, lt balance.LeaveType, days float64) error {
				assert.Equal(t, "EMP001", staffID)
				gotType = lt
				gotDays = days
				return nil
			},
			applySwitchFn: func(ctx context.Context, staffID string) error {
				t.Fatal("switch path must not run for a debitable type")
				return nil
			},
		}
		svc := balance.NewService(repo, nil)

		err := svc.ApplyApproval(ctx, nil, "EMP001", "Sick Leave", 2.5)

		assert.NoError(t, err)
		assert.Equal(t, balance.TypeSick, gotType)
		assert.Equal(t, 2.5, gotDays)
	})

	t.Run("weekly switch takes the counter path", func(t *testing.T) {
		var switched bool
		repo := &fakeBalanceRepository{
			applyDebitFn: func(ctx context.Context, staffID string, lt balance.LeaveType, days float64) error {
				t.Fatal("debit path must not run for the switch")
				return nil
			},
			applySwitchFn: func(ctx context.Context, staffID string) error {
				assert.Equal(t, "EMP001", staffID)
				switched = true
				return nil
			},
		}
		svc := balance.NewService(repo, nil)

		err := svc.ApplyApproval(ctx, nil, "EMP001", "Weekly Holiday Switch", 1)

		assert.NoError(t, err)
		assert.True(t, switched)
	})

	t.Run("negative unknown type", func(t *testing.T) {
		repo := &fakeBalanceRepository{
			applyDebitFn: func(ctx context.Context, staffID string, lt balance.LeaveType, days float64) error {
				t.Fatal("unknown type must not reach the repository")
				return nil
			},
		}
		svc := balance.NewService(repo, nil)

		err := svc.ApplyApproval(ctx, nil, "EMP001", "Sabbatical", 1)
		assert.ErrorIs(t, err, balanceerrors.ErrUnknownLeaveType)
	})

	t.Run("negative balance row missing", func(t *testing.T) {
		repo := &fakeBalanceRepository{
			applyDebitFn: func(ctx context.Context, staffID string, lt balance.LeaveType, days float64) error {
				return sql.ErrNoRows
			},
		}
		svc := balance.NewService(repo, nil)

		err := svc.ApplyApproval(ctx, nil, "EMP404", "Annual Leave", 1)
		assert.ErrorIs(t, err, balanceerrors.ErrBalanceNotFound)
	})

	t.Run("negative persistence error passes through", func(t *testing.T) {
		boom := errors.New("connection reset")
		repo := &fakeBalanceRepository{
			applyDebitFn: func(ctx context.Context, staffID string, lt balance.LeaveType, days float64) error {
				return boom
			},
		}
		svc := balance.NewService(repo, nil)

		err := svc.ApplyApproval(ctx, nil, "EMP001", "Annual Leave", 1)
		assert.ErrorIs(t, err, boom)
	})
}
