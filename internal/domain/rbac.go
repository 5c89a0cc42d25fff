package domain

// EnforceRequest asks whether an employee may perform action on resource.
type EnforceRequest struct {
	EmployeeID string `json:"employee_id"`
	Resource   string `json:"resource" form:"resource" binding:"required"`
	Action     string `json:"action" form:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
