package attendance

import (
	"context"
	"database/sql"
	"time"

	"hris-payroll/internal/shared/database"

	"gorm.io/gorm"
)

const aggregateSQL = `
SELECT
	t.employee_id,
	COALESCE(SUM(t.hours_worked), 0) AS total_hours_worked,
	COUNT(*) FILTER (WHERE t.status = 'Absent') AS absent_day_count,
	COUNT(*) FILTER (WHERE t.status IN ('Present', 'Half-day')) AS present_or_half_day_count,
	0 AS present_on_leave_count
FROM time_keepings t
WHERE t.work_date BETWEEN ? AND ?
GROUP BY t.employee_id
ORDER BY t.employee_id`

// Same grouping, plus present rows that fall on a day already covered by
// approved leave. Those days are paid once, as leave.
const aggregateExcludingLeaveSQL = `
SELECT
	t.employee_id,
	COALESCE(SUM(t.hours_worked), 0) AS total_hours_worked,
	COUNT(*) FILTER (WHERE t.status = 'Absent') AS absent_day_count,
	COUNT(*) FILTER (WHERE t.status IN ('Present', 'Half-day')) AS present_or_half_day_count,
	COUNT(*) FILTER (WHERE t.status IN ('Present', 'Half-day') AND EXISTS (
		SELECT 1 FROM leave_requests lr
		WHERE lr.employee_id = t.employee_id
			AND lr.status = 'Approved'
			AND t.work_date BETWEEN lr.start_date AND lr.end_date
	)) AS present_on_leave_count
FROM time_keepings t
WHERE t.work_date BETWEEN ? AND ?
GROUP BY t.employee_id
ORDER BY t.employee_id`

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Aggregate(ctx context.Context, start, end time.Time) ([]EmployeeAttendance, error)
	AggregateExcludingLeave(ctx context.Context, start, end time.Time) ([]EmployeeAttendance, error)
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

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, r.db, r.tx)
}

func (r *repository) Aggregate(ctx context.Context, start, end time.Time) ([]EmployeeAttendance, error) {
	var rows []EmployeeAttendance
	err := r.conn(ctx).Raw(aggregateSQL, start, end).Scan(&rows).Error
	return rows, err
}

func (r *repository) AggregateExcludingLeave(ctx context.Context, start, end time.Time) ([]EmployeeAttendance, error) {
	var rows []EmployeeAttendance
	err := r.conn(ctx).Raw(aggregateExcludingLeaveSQL, start, end).Scan(&rows).Error
	return rows, err
}
