package salaryconfig

// UpdateSalaryConfigRequest is a partial update; omitted amounts keep their
// current value (zero for a config created by this call).
type UpdateSalaryConfigRequest struct {
	BaseSalary              *string `json:"base_salary"`
	TransportAllowance      *string `json:"transport_allowance"`
	LunchAllowance          *string `json:"lunch_allowance"`
	ResponsibilityAllowance *string `json:"responsibility_allowance"`
	Reason                  string  `json:"reason" binding:"max=255"`
}

type SalaryConfigResponse struct {
	ID                      string `json:"config_id"`
	EmployeeID              string `json:"employee_id"`
	EmployeeName            string `json:"employee_name,omitempty"`
	BaseSalary              string `json:"base_salary"`
	TransportAllowance      string `json:"transport_allowance"`
	LunchAllowance          string `json:"lunch_allowance"`
	ResponsibilityAllowance string `json:"responsibility_allowance"`
	TotalAllowance          string `json:"total_allowance"`
	UpdatedAt               string `json:"updated_at"`
}
