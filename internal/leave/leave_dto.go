package leave

type SubmitLeaveRequest struct {
	LeaveTypeID string  `json:"leave_type_id" binding:"required"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     string  `json:"end_date" binding:"required"`
	Reason      *string `json:"reason"`
}

type SubmitLeaveResponse struct {
	RequestID int64  `json:"request_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

type DecideLeaveRequest struct {
	Status string `json:"status" binding:"required"`
}

type DecideLeaveResponse struct {
	RequestID int64  `json:"request_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

type LeaveTypeResponse struct {
	ID                   string `json:"leave_type_id"`
	Name                 string `json:"name"`
	DefaultDaysAllocated int    `json:"default_days_allocated"`
}

type LeaveBalanceResponse struct {
	BalanceID     string  `json:"balance_id"`
	LeaveTypeID   string  `json:"leave_type_id"`
	LeaveTypeName string  `json:"leave_type_name"`
	RemainingDays float64 `json:"remaining_days"`
}

type LeaveRequestResponse struct {
	RequestID       int64   `json:"request_id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name,omitempty"`
	EmployeeEmail   string  `json:"employee_email,omitempty"`
	LeaveTypeName   string  `json:"leave_type_name"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	Days            int     `json:"days"`
	Reason          *string `json:"reason,omitempty"`
	Status          string  `json:"status"`
	ManagerApprover string  `json:"manager_approver,omitempty"`
	CreatedAt       string  `json:"created_at"`
}
