package leave

import (
	"context"
	"database/sql"
	"time"

	"hris-payroll/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	EmployeeExists(ctx context.Context, employeeID uuid.UUID) (bool, error)
	FindLeaveType(ctx context.Context, id uuid.UUID) (*LeaveType, error)
	ListLeaveTypes(ctx context.Context) ([]LeaveType, error)
	CreateRequest(ctx context.Context, r *LeaveRequest) error
	FindRequestForUpdate(ctx context.Context, id int64) (*LeaveRequest, error)
	SaveDecision(ctx context.Context, r *LeaveRequest) error
	DeductBalance(ctx context.Context, employeeID, leaveTypeID uuid.UUID, days int) (int64, error)
	ListBalances(ctx context.Context, employeeID uuid.UUID) ([]LeaveBalance, error)
	ListRequestsByEmployee(ctx context.Context, employeeID uuid.UUID) ([]LeaveRequest, error)
	ListRequestsByStatus(ctx context.Context, statuses []string) ([]LeaveRequest, error)
	ListApprovedOverlapping(ctx context.Context, start, end time.Time) ([]LeaveRequest, error)
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

func (r *repository) EmployeeExists(ctx context.Context, employeeID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindLeaveType(ctx context.Context, id uuid.UUID) (*LeaveType, error) {
	var lt LeaveType
	if err := r.conn(ctx).Where("id = ?", id).First(&lt).Error; err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *repository) ListLeaveTypes(ctx context.Context) ([]LeaveType, error) {
	var rows []LeaveType
	err := r.conn(ctx).Order("name ASC, id ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) CreateRequest(ctx context.Context, lr *LeaveRequest) error {
	return r.conn(ctx).Omit(clause.Associations).Create(lr).Error
}

// FindRequestForUpdate row-locks the request until the surrounding
// transaction ends, so concurrent decisions on it run one after another.
func (r *repository) FindRequestForUpdate(ctx context.Context, id int64) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&lr).Error
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

func (r *repository) SaveDecision(ctx context.Context, lr *LeaveRequest) error {
	return r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", lr.ID).
		Updates(map[string]any{
			"status":              lr.Status,
			"manager_approver_id": lr.ManagerApproverID,
			"decided_at":          lr.DecidedAt,
			"balance_deducted_at": lr.BalanceDeductedAt,
		}).Error
}

// DeductBalance subtracts days from the matching balance, flooring at zero,
// and returns the number of balances touched (0 when none exists).
func (r *repository) DeductBalance(ctx context.Context, employeeID, leaveTypeID uuid.UUID, days int) (int64, error) {
	res := r.conn(ctx).Exec(
		`UPDATE leave_balances SET remaining_days = GREATEST(remaining_days - ?, 0) WHERE employee_id = ? AND leave_type_id = ?`,
		days, employeeID, leaveTypeID,
	)
	return res.RowsAffected, res.Error
}

func (r *repository) ListBalances(ctx context.Context, employeeID uuid.UUID) ([]LeaveBalance, error) {
	var rows []LeaveBalance
	err := r.conn(ctx).
		Preload("LeaveType").
		Where("employee_id = ?", employeeID).
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListRequestsByEmployee(ctx context.Context, employeeID uuid.UUID) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.conn(ctx).
		Preload("LeaveType").
		Preload("Approver").
		Where("employee_id = ?", employeeID).
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListRequestsByStatus(ctx context.Context, statuses []string) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.conn(ctx).
		Preload("LeaveType").
		Preload("Employee").
		Where("status IN ?", statuses).
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListApprovedOverlapping(ctx context.Context, start, end time.Time) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.conn(ctx).
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Order("employee_id, start_date").
		Find(&rows).Error
	return rows, err
}
