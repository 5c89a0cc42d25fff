package payroll_test

import (
	"context"
	"testing"

	"hris-payroll/internal/payroll"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gdb, mock
}

func TestRepository_LockPeriodInTx(t *testing.T) {
	gdb, mock := newGormMock(t)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(\$1, \$2\)`).
		WithArgs(payroll.PeriodLockClass, int32(202506)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := sqlDB.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	err = payroll.NewRepository(gdb).WithTx(tx).LockPeriod(context.Background(), 6, 2025)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_InsertPeriodIfAbsent(t *testing.T) {
	gdb, mock := newGormMock(t)

	mock.ExpectQuery(`INSERT INTO "payroll_periods" .* ON CONFLICT \("month","year"\) DO NOTHING RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := payroll.NewRepository(gdb).InsertPeriodIfAbsent(context.Background(), 6, 2025, 26)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindPeriod(t *testing.T) {
	gdb, mock := newGormMock(t)

	mock.ExpectQuery(`SELECT \* FROM "payroll_periods" WHERE month = \$1 AND year = \$2 ORDER BY "payroll_periods"."id" LIMIT \$3`).
		WithArgs(6, 2025, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "month", "year", "status", "standard_work_days"}).
			AddRow(4, 6, 2025, "Draft", 26))

	p, err := payroll.NewRepository(gdb).FindPeriod(context.Background(), 6, 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(4), p.ID)
	assert.Equal(t, payroll.PeriodDraft, p.Status)
	assert.Equal(t, 26, p.StandardWorkDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteStalePayslips(t *testing.T) {
	keepA, keepB := uuid.New(), uuid.New()

	t.Run("keeps produced employees", func(t *testing.T) {
		gdb, mock := newGormMock(t)
		mock.ExpectExec(`DELETE FROM "payslips" WHERE payroll_period_id = \$1 AND employee_id NOT IN \(\$2,\$3\)`).
			WithArgs(int64(4), keepA, keepB).
			WillReturnResult(sqlmock.NewResult(0, 1))

		n, err := payroll.NewRepository(gdb).DeleteStalePayslips(context.Background(), 4, []uuid.UUID{keepA, keepB})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty run clears the period", func(t *testing.T) {
		gdb, mock := newGormMock(t)
		mock.ExpectExec(`DELETE FROM "payslips" WHERE payroll_period_id = \$1$`).
			WithArgs(int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 3))

		n, err := payroll.NewRepository(gdb).DeleteStalePayslips(context.Background(), 4, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAdvisoryLockKey(t *testing.T) {
	assert.Equal(t, int32(202506), payroll.AdvisoryLockKey(6, 2025))
	assert.NotEqual(t, payroll.AdvisoryLockKey(1, 2026), payroll.AdvisoryLockKey(12, 2025))
}

func TestCanTransitionPeriod(t *testing.T) {
	assert.True(t, payroll.CanTransitionPeriod(payroll.PeriodDraft, payroll.PeriodLocked))
	assert.True(t, payroll.CanTransitionPeriod(payroll.PeriodLocked, payroll.PeriodPaid))
	assert.True(t, payroll.CanTransitionPeriod(payroll.PeriodLocked, payroll.PeriodDraft))
	assert.False(t, payroll.CanTransitionPeriod(payroll.PeriodDraft, payroll.PeriodPaid))
	assert.False(t, payroll.CanTransitionPeriod(payroll.PeriodPaid, payroll.PeriodDraft))
}
