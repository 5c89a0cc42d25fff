package contract

import (
	"context"
	"database/sql"
	"time"

	"hris-payroll/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=contract_repo.go -destination=mock/contract_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, c *Contract) error
	Update(ctx context.Context, c *Contract) error
	FindByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	FindAll(ctx context.Context, employeeID *uuid.UUID) ([]Contract, error)
	HasActiveContract(ctx context.Context, employeeID uuid.UUID, excludeID *uuid.UUID) (bool, error)
	FindActiveForPeriod(ctx context.Context, start, end time.Time) ([]Contract, error)
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

func (r *repository) Create(ctx context.Context, c *Contract) error {
	return r.conn(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *repository) Update(ctx context.Context, c *Contract) error {
	return r.conn(ctx).Omit(clause.Associations).Save(c).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Contract, error) {
	var c Contract
	err := r.conn(ctx).
		Joins("Employee").
		Where("contracts.id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindAll(ctx context.Context, employeeID *uuid.UUID) ([]Contract, error) {
	q := r.conn(ctx).Joins("Employee")
	if employeeID != nil {
		q = q.Where("contracts.employee_id = ?", *employeeID)
	}

	var out []Contract
	err := q.
		Order("contracts.start_date DESC").
		Order("contracts.id ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) HasActiveContract(ctx context.Context, employeeID uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	q := r.conn(ctx).
		Model(&Contract{}).
		Where("employee_id = ? AND status = ?", employeeID, StatusActive)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

// FindActiveForPeriod returns, per employee, the latest-starting contract
// that overlaps [start, end] and is not terminated.
func (r *repository) FindActiveForPeriod(ctx context.Context, start, end time.Time) ([]Contract, error) {
	const query = `
SELECT DISTINCT ON (employee_id) *
FROM contracts
WHERE start_date <= ?
	AND (end_date IS NULL OR end_date >= ?)
	AND status <> ?
ORDER BY employee_id, start_date DESC
`
	var out []Contract
	err := r.conn(ctx).Raw(query, end, start, StatusTerminated).Scan(&out).Error
	return out, err
}
