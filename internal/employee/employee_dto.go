package employee

type EmployeeResponse struct {
	ID             string `json:"employee_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	DepartmentName string `json:"department_name,omitempty"`
	PositionName   string `json:"position_name,omitempty"`
}

type EmployeeOption struct {
	ID       string `json:"employee_id"`
	FullName string `json:"full_name"`
}
