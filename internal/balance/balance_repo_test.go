package balance_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Taanawutana-gai/LMS/internal/balance"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func setupTxRepo(t *testing.T) (balance.Repository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	repo := balance.NewRepository(nil).WithTx(tx)
	return repo, mock, func() { db.Close() }
}

func TestBalanceRepository_ApplyDebit(t *testing.T) {
	ctx := context.Background()

	t.Run("moves the pair in one statement", func(t *testing.T) {
		repo, mock, cleanup := setupTxRepo(t)
		defer cleanup()

		mock.ExpectExec(`UPDATE leave_balances\s+SET annual_used = annual_used \+ \$2, annual_remaining = annual_remaining - \$2`).
			WithArgs("EMP001", 2.5).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ApplyDebit(ctx, "EMP001", balance.TypeAnnual, 2.5)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row updated maps to ErrNoRows", func(t *testing.T) {
		repo, mock, cleanup := setupTxRepo(t)
		defer cleanup()

		mock.ExpectExec(`UPDATE leave_balances`).
			WithArgs("EMP404", 1.0).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ApplyDebit(ctx, "EMP404", balance.TypeSick, 1)

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("switch type is rejected before touching the db", func(t *testing.T) {
		repo, mock, cleanup := setupTxRepo(t)
		defer cleanup()

		err := repo.ApplyDebit(ctx, "EMP001", balance.TypeWeeklySwitch, 1)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBalanceRepository_ApplySwitch(t *testing.T) {
	ctx := context.Background()

	t.Run("bumps the counter and credits other_remaining", func(t *testing.T) {
		repo, mock, cleanup := setupTxRepo(t)
		defer cleanup()

		mock.ExpectExec(`UPDATE leave_balances\s+SET switch_count = switch_count \+ 1, other_remaining = other_remaining \+ 1`).
			WithArgs("EMP001").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ApplySwitch(ctx, "EMP001")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
