package payroll

import (
	"time"

	"hris-payroll/internal/employee"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PeriodDraft  = "Draft"
	PeriodLocked = "Locked"
	PeriodPaid   = "Paid"

	PayslipPending  = "Pending"
	PayslipApproved = "Approved"
	PayslipPaid     = "Paid"

	DefaultStandardWorkDays = 26
)

// PayrollPeriod is the monthly bucket payslips are generated against.
// (month, year) is unique.
type PayrollPeriod struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	Month            int    `gorm:"not null;uniqueIndex:uq_payroll_periods_month_year"`
	Year             int    `gorm:"not null;uniqueIndex:uq_payroll_periods_month_year"`
	Status           string `gorm:"type:varchar(20);not null;default:'Draft'"`
	StandardWorkDays int    `gorm:"not null;default:26"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Payslip is one employee's result for one period; (employee_id,
// payroll_period_id) is unique so regeneration updates in place.
type Payslip struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_payslips_employee_period"`
	PayrollPeriodID int64           `gorm:"not null;uniqueIndex:uq_payslips_employee_period"`
	ContractID      *uuid.UUID      `gorm:"type:uuid"`
	Strategy        string          `gorm:"type:varchar(32);not null"`
	ActualWorkDays  int             `gorm:"not null;default:0"`
	OTHours         decimal.Decimal `gorm:"column:ot_hours;type:numeric(8,2);not null;default:0"`
	GrossSalary     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Deductions      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Bonus           decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	NetSalary       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Status          string          `gorm:"type:varchar(20);not null;default:'Pending'"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Employee      *employee.Employee `gorm:"foreignKey:EmployeeID"`
	PayrollPeriod *PayrollPeriod     `gorm:"foreignKey:PayrollPeriodID"`
}

var periodTransitions = map[string][]string{
	PeriodDraft:  {PeriodLocked},
	PeriodLocked: {PeriodPaid, PeriodDraft},
}

func IsValidPeriodStatus(status string) bool {
	return status == PeriodDraft || status == PeriodLocked || status == PeriodPaid
}

func CanTransitionPeriod(from, to string) bool {
	for _, next := range periodTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PeriodLockClass namespaces payroll period locks in the two-key form of
// pg_advisory_xact_lock so they cannot collide with single-key users.
const PeriodLockClass int32 = 0x50415952 // "PAYR"

// AdvisoryLockKey identifies a period within PeriodLockClass.
func AdvisoryLockKey(month, year int) int32 {
	return int32(year*100 + month)
}
