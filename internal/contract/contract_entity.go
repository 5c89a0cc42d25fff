package contract

import (
	"time"

	"hris-payroll/internal/employee"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusActive     = "Active"
	StatusExpired    = "Expired"
	StatusTerminated = "Terminated"
)

func IsValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusExpired, StatusTerminated:
		return true
	}
	return false
}

type Contract struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID     uuid.UUID `gorm:"type:uuid;index"`
	ContractNumber string
	ContractType   string
	StartDate      time.Time  `gorm:"type:date"`
	EndDate        *time.Time `gorm:"type:date"`
	Status         string
	SalaryRate     decimal.Decimal `gorm:"type:numeric(14,2)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Employee       *employee.Employee `gorm:"foreignKey:EmployeeID"`
}

// ActiveDuring reports whether the contract covers any day of [start, end]
// and has not been terminated.
func (c Contract) ActiveDuring(start, end time.Time) bool {
	if c.Status == StatusTerminated || c.StartDate.After(end) {
		return false
	}
	return c.EndDate == nil || !c.EndDate.Before(start)
}
