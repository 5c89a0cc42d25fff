package salaryconfig

import (
	"context"
	"database/sql"

	"hris-payroll/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=salary_config_repo.go -destination=mock/salary_config_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindAll(ctx context.Context) ([]SalaryConfig, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) (*SalaryConfig, error)
	ListForPayroll(ctx context.Context) ([]SalaryConfig, error)
	Upsert(ctx context.Context, cfg *SalaryConfig) error
	RecordHistory(ctx context.Context, h *SalaryHistory) error
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

func (r *repository) FindAll(ctx context.Context) ([]SalaryConfig, error) {
	var cfgs []SalaryConfig
	err := r.conn(ctx).
		Joins("Employee").
		Order(`"Employee"."first_name" ASC`).
		Order("salary_configs.id ASC").
		Find(&cfgs).Error
	return cfgs, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) (*SalaryConfig, error) {
	var cfg SalaryConfig
	err := r.conn(ctx).
		Joins("Employee").
		Where("salary_configs.employee_id = ?", employeeID).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ListForPayroll loads every config in one query for a generation run.
func (r *repository) ListForPayroll(ctx context.Context) ([]SalaryConfig, error) {
	var cfgs []SalaryConfig
	err := r.conn(ctx).Find(&cfgs).Error
	return cfgs, err
}

func (r *repository) Upsert(ctx context.Context, cfg *SalaryConfig) error {
	return r.conn(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"base_salary",
				"transport_allowance",
				"lunch_allowance",
				"responsibility_allowance",
				"updated_at",
			}),
		}).
		Create(cfg).Error
}

func (r *repository) RecordHistory(ctx context.Context, h *SalaryHistory) error {
	return r.conn(ctx).Create(h).Error
}
