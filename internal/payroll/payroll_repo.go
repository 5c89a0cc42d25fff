package payroll

import (
	"context"
	"database/sql"

	"hris-payroll/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	LockPeriod(ctx context.Context, month, year int) error
	InsertPeriodIfAbsent(ctx context.Context, month, year, standardWorkDays int) error
	FindPeriod(ctx context.Context, month, year int) (*PayrollPeriod, error)
	FindPeriodByID(ctx context.Context, id int64) (*PayrollPeriod, error)
	UpdatePeriodStatus(ctx context.Context, id int64, status string) error
	UpsertPayslip(ctx context.Context, p *Payslip) error
	DeleteStalePayslips(ctx context.Context, periodID int64, keep []uuid.UUID) (int64, error)
	ListPayslipsByPeriod(ctx context.Context, periodID int64) ([]Payslip, error)
	ListPayslipsByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Payslip, error)
	FindPayslipByID(ctx context.Context, id uuid.UUID) (*Payslip, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, r.db, r.tx)
}

// LockPeriod takes a transaction scoped advisory lock so generation runs for
// the same month never interleave. Only meaningful inside WithTx.
func (r *repository) LockPeriod(ctx context.Context, month, year int) error {
	return r.conn(ctx).Exec("SELECT pg_advisory_xact_lock(?, ?)", PeriodLockClass, AdvisoryLockKey(month, year)).Error
}

func (r *repository) InsertPeriodIfAbsent(ctx context.Context, month, year, standardWorkDays int) error {
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "month"}, {Name: "year"}},
			DoNothing: true,
		}).
		Create(&PayrollPeriod{
			Month:            month,
			Year:             year,
			Status:           PeriodDraft,
			StandardWorkDays: standardWorkDays,
		}).Error
}

func (r *repository) FindPeriod(ctx context.Context, month, year int) (*PayrollPeriod, error) {
	var p PayrollPeriod
	err := r.conn(ctx).
		Where("month = ? AND year = ?", month, year).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindPeriodByID(ctx context.Context, id int64) (*PayrollPeriod, error) {
	var p PayrollPeriod
	if err := r.conn(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpdatePeriodStatus(ctx context.Context, id int64, status string) error {
	return r.conn(ctx).
		Model(&PayrollPeriod{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// UpsertPayslip inserts or refreshes the computed figures of an
// (employee, period) payslip. Workflow status is left alone on update.
func (r *repository) UpsertPayslip(ctx context.Context, p *Payslip) error {
	return r.conn(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_id"}, {Name: "payroll_period_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"contract_id",
				"strategy",
				"actual_work_days",
				"ot_hours",
				"gross_salary",
				"deductions",
				"bonus",
				"net_salary",
				"updated_at",
			}),
		}).
		Create(p).Error
}

// DeleteStalePayslips removes the period's payslips of every employee not in
// keep, so a rerun leaves no rows behind from an earlier run.
func (r *repository) DeleteStalePayslips(ctx context.Context, periodID int64, keep []uuid.UUID) (int64, error) {
	q := r.conn(ctx).Where("payroll_period_id = ?", periodID)
	if len(keep) > 0 {
		q = q.Where("employee_id NOT IN ?", keep)
	}
	res := q.Delete(&Payslip{})
	return res.RowsAffected, res.Error
}

func (r *repository) ListPayslipsByPeriod(ctx context.Context, periodID int64) ([]Payslip, error) {
	var out []Payslip
	err := r.conn(ctx).
		Joins("Employee").
		Joins("Employee.Department").
		Where("payslips.payroll_period_id = ?", periodID).
		Order(`"Employee"."first_name" ASC`).
		Order("payslips.id ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) ListPayslipsByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Payslip, error) {
	var out []Payslip
	err := r.conn(ctx).
		Joins("PayrollPeriod").
		Where("payslips.employee_id = ?", employeeID).
		Order(`"PayrollPeriod"."year" DESC`).
		Order(`"PayrollPeriod"."month" DESC`).
		Find(&out).Error
	return out, err
}

func (r *repository) FindPayslipByID(ctx context.Context, id uuid.UUID) (*Payslip, error) {
	var p Payslip
	err := r.conn(ctx).
		Joins("PayrollPeriod").
		Joins("Employee").
		Joins("Employee.Department").
		Where("payslips.id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}
