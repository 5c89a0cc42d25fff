package payroll

import (
	"errors"
	"fmt"

	"hris-payroll/internal/attendance"
	"hris-payroll/internal/contract"
	"hris-payroll/internal/salaryconfig"
	"hris-payroll/internal/shared/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StrategyConfigAttendance = "config_attendance"
	StrategyContractRate     = "contract_rate"
)

var (
	// InsuranceRate is the employee share withheld from base salary.
	InsuranceRate = decimal.RequireFromString("0.105")

	StandardMonthlyHours = decimal.NewFromInt(160)
	// OvertimePremium is the extra paid on top of the plain hourly rate
	// (1.5x overall).
	OvertimePremium = decimal.RequireFromString("0.5")
)

var errMissingInput = errors.New("payslip input incomplete")

// PayslipInput carries everything a strategy may need for one employee.
type PayslipInput struct {
	EmployeeID        uuid.UUID
	Attendance        attendance.EmployeeAttendance
	ApprovedLeaveDays int
	StandardWorkDays  int
	DaysInMonth       int
	Config            *salaryconfig.SalaryConfig
	Contract          *contract.Contract
}

type PayslipResult struct {
	EmployeeID     uuid.UUID
	Strategy       string
	ContractID     *uuid.UUID
	ActualWorkDays int
	OTHours        decimal.Decimal
	GrossSalary    decimal.Decimal
	Deductions     decimal.Decimal
	Bonus          decimal.Decimal
	NetSalary      decimal.Decimal
}

//go:generate mockgen -source=payroll_calculator.go -destination=mock/payroll_calculator_mock.go -package=mock
type PayslipStrategy interface {
	Name() string
	Compute(in PayslipInput) (PayslipResult, error)
}

// ConfigAttendanceStrategy pays base salary pro rata over the period's
// standard work days, plus allowances, minus insurance. Approved leave days
// count as worked; present rows on those same days are not counted twice.
type ConfigAttendanceStrategy struct{}

func (ConfigAttendanceStrategy) Name() string { return StrategyConfigAttendance }

func (ConfigAttendanceStrategy) Compute(in PayslipInput) (PayslipResult, error) {
	if in.Config == nil {
		return PayslipResult{}, fmt.Errorf("%w: salary config", errMissingInput)
	}
	if in.StandardWorkDays <= 0 {
		return PayslipResult{}, fmt.Errorf("standard work days must be positive, got %d", in.StandardWorkDays)
	}

	actual := in.Attendance.PresentOrHalfDayCount - in.Attendance.PresentOnLeaveCount + in.ApprovedLeaveDays
	if actual < 0 {
		actual = 0
	}

	base := in.Config.BaseSalary
	work := base.Mul(decimal.NewFromInt(int64(actual))).Div(decimal.NewFromInt(int64(in.StandardWorkDays)))
	allowance := in.Config.TotalAllowance()
	insurance := base.Mul(InsuranceRate)

	gross := work.Add(allowance)
	return PayslipResult{
		EmployeeID:     in.EmployeeID,
		Strategy:       StrategyConfigAttendance,
		ActualWorkDays: actual,
		OTHours:        decimal.Zero,
		GrossSalary:    money.Round(gross),
		Deductions:     money.Round(insurance),
		Bonus:          decimal.Zero,
		NetSalary:      money.Round(gross.Sub(insurance)),
	}, nil
}

// ContractRateStrategy is the older contract driven formula: flat monthly
// rate, overtime beyond StandardMonthlyHours at a premium, and a per-day
// deduction for absences.
type ContractRateStrategy struct{}

func (ContractRateStrategy) Name() string { return StrategyContractRate }

func (ContractRateStrategy) Compute(in PayslipInput) (PayslipResult, error) {
	if in.Contract == nil {
		return PayslipResult{}, fmt.Errorf("%w: contract", errMissingInput)
	}
	if in.DaysInMonth <= 0 {
		return PayslipResult{}, fmt.Errorf("days in month must be positive, got %d", in.DaysInMonth)
	}

	rate := in.Contract.SalaryRate
	overtime := decimal.Max(decimal.Zero, in.Attendance.TotalHoursWorked.Sub(StandardMonthlyHours))
	overtimePay := rate.Div(StandardMonthlyHours).Mul(overtime).Mul(OvertimePremium)
	absence := rate.Div(decimal.NewFromInt(int64(in.DaysInMonth))).Mul(decimal.NewFromInt(int64(in.Attendance.AbsentDayCount)))

	contractID := in.Contract.ID
	return PayslipResult{
		EmployeeID:     in.EmployeeID,
		Strategy:       StrategyContractRate,
		ContractID:     &contractID,
		ActualWorkDays: in.Attendance.PresentOrHalfDayCount,
		OTHours:        money.Round(overtime),
		GrossSalary:    money.Round(rate.Add(overtimePay)),
		Deductions:     money.Round(absence),
		Bonus:          money.Round(overtimePay),
		NetSalary:      money.Round(rate.Add(overtimePay).Sub(absence)),
	}, nil
}
