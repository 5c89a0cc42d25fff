package payroll

type GeneratePayrollRequest struct {
	Month int `json:"month" binding:"required"`
	Year  int `json:"year" binding:"required"`
}

type PeriodQuery struct {
	Month int `form:"month" binding:"required"`
	Year  int `form:"year" binding:"required"`
}

type UpdatePeriodStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type GenerateResponse struct {
	PeriodID        int64  `json:"period_id"`
	Month           int    `json:"month"`
	Year            int    `json:"year"`
	TotalGross      string `json:"total_gross"`
	TotalDeductions string `json:"total_deductions"`
	TotalNet        string `json:"total_net"`
	Generated       int    `json:"generated"`
	Skipped         int    `json:"skipped"`
}

// RunResponse summarises a contract run. Config holders are paid on the
// attendance strategy and contract holders without a config on the contract
// rate, so the totals always match the period listing.
type RunResponse struct {
	PeriodID        int64  `json:"period_id"`
	TotalPayroll    string `json:"total_payroll"`
	TotalBaseSalary string `json:"total_base_salary"`
	TotalBonus      string `json:"total_bonus"`
	TotalDeductions string `json:"total_deductions"`
	Generated       int    `json:"generated"`
}

type PeriodResponse struct {
	ID               int64  `json:"period_id"`
	Month            int    `json:"month"`
	Year             int    `json:"year"`
	Status           string `json:"status"`
	StandardWorkDays int    `json:"standard_work_days"`
}

type PayslipResponse struct {
	ID             string `json:"payslip_id"`
	EmployeeID     string `json:"employee_id"`
	EmployeeName   string `json:"employee_name"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DepartmentName string `json:"department_name,omitempty"`
	PeriodID       int64  `json:"period_id"`
	Month          int    `json:"month,omitempty"`
	Year           int    `json:"year,omitempty"`
	Strategy       string `json:"strategy"`
	ActualWorkDays int    `json:"actual_work_days"`
	OTHours        string `json:"ot_hours"`
	GrossSalary    string `json:"gross_salary"`
	Deductions     string `json:"deductions"`
	Bonus          string `json:"bonus"`
	NetSalary      string `json:"net_salary"`
	Status         string `json:"status"`
}

type CycleResponse struct {
	Period   PeriodResponse    `json:"period"`
	Payslips []PayslipResponse `json:"payslips"`
}

type DownloadTokenResponse struct {
	Token       string `json:"token"`
	DownloadURL string `json:"download_url"`
	ExpiresIn   int    `json:"expires_in"`
}
