package salaryconfig

import (
	"time"

	"hris-payroll/internal/employee"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SalaryConfig struct {
	ID                      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID              uuid.UUID       `gorm:"type:uuid;uniqueIndex"`
	BaseSalary              decimal.Decimal `gorm:"type:numeric(14,2)"`
	TransportAllowance      decimal.Decimal `gorm:"type:numeric(14,2)"`
	LunchAllowance          decimal.Decimal `gorm:"type:numeric(14,2)"`
	ResponsibilityAllowance decimal.Decimal `gorm:"type:numeric(14,2)"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
	Employee                *employee.Employee `gorm:"foreignKey:EmployeeID"`
}

func (c SalaryConfig) TotalAllowance() decimal.Decimal {
	return c.TransportAllowance.Add(c.LunchAllowance).Add(c.ResponsibilityAllowance)
}

// SalaryHistory is appended whenever an employee's reference salary moves,
// either through a config base salary change or a contract rate change.
type SalaryHistory struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;index"`
	OldSalary  decimal.Decimal `gorm:"type:numeric(14,2)"`
	NewSalary  decimal.Decimal `gorm:"type:numeric(14,2)"`
	ChangeDate time.Time
	Reason     string
}
