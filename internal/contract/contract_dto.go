package contract

type CreateContractRequest struct {
	EmployeeID     string  `json:"employee_id" binding:"required"`
	ContractNumber string  `json:"contract_number" binding:"required,max=64"`
	ContractType   string  `json:"contract_type" binding:"required,max=64"`
	StartDate      string  `json:"start_date" binding:"required"`
	EndDate        *string `json:"end_date"`
	Status         string  `json:"status"`
	SalaryRate     string  `json:"salary_rate" binding:"required"`
}

type UpdateContractRequest struct {
	ContractType *string `json:"contract_type" binding:"omitempty,max=64"`
	EndDate      *string `json:"end_date"`
	Status       *string `json:"status"`
	SalaryRate   *string `json:"salary_rate"`
	Reason       string  `json:"reason" binding:"max=255"`
}

type ContractResponse struct {
	ID             string  `json:"contract_id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name,omitempty"`
	ContractNumber string  `json:"contract_number"`
	ContractType   string  `json:"contract_type"`
	StartDate      string  `json:"start_date"`
	EndDate        *string `json:"end_date"`
	Status         string  `json:"status"`
	SalaryRate     string  `json:"salary_rate"`
}
