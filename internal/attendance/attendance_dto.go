package attendance

type SummaryQuery struct {
	Start        string `form:"start" binding:"required"`
	End          string `form:"end" binding:"required"`
	ExcludeLeave bool   `form:"exclude_leave"`
}

type EmployeeAttendanceResponse struct {
	EmployeeID            string  `json:"employee_id"`
	TotalHoursWorked      float64 `json:"total_hours_worked"`
	AbsentDayCount        int     `json:"absent_day_count"`
	PresentOrHalfDayCount int     `json:"present_or_half_day_count"`
	PresentOnLeaveCount   *int    `json:"present_on_leave_count,omitempty"`
}
