package attendance_test

import (
	"context"
	"testing"
	"time"

	"hris-payroll/internal/attendance"

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

func TestRepository_AggregateIsOneGroupedQuery(t *testing.T) {
	gdb, mock := newGormMock(t)
	repo := attendance.NewRepository(gdb)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	emp1, emp2 := uuid.New(), uuid.New()

	rows := sqlmock.NewRows([]string{"employee_id", "total_hours_worked", "absent_day_count", "present_or_half_day_count", "present_on_leave_count"}).
		AddRow(emp1.String(), 192.0, 0, 24, 0).
		AddRow(emp2.String(), 150.5, 2, 20, 0)

	mock.ExpectQuery(`(?s)FROM time_keepings t.*GROUP BY t.employee_id`).
		WithArgs(start, end).
		WillReturnRows(rows)

	got, err := repo.Aggregate(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, emp1, got[0].EmployeeID)
	assert.Equal(t, 24, got[0].PresentOrHalfDayCount)
	assert.Equal(t, "150.5", got[1].TotalHoursWorked.String())
	assert.Equal(t, 2, got[1].AbsentDayCount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_AggregateExcludingLeave(t *testing.T) {
	gdb, mock := newGormMock(t)
	repo := attendance.NewRepository(gdb)

	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	emp := uuid.New()

	mock.ExpectQuery(`(?s)lr.status = 'Approved'.*GROUP BY t.employee_id`).
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows([]string{"employee_id", "total_hours_worked", "absent_day_count", "present_or_half_day_count", "present_on_leave_count"}).
			AddRow(emp.String(), 160.0, 0, 20, 2))

	got, err := repo.AggregateExcludingLeave(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].PresentOnLeaveCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
