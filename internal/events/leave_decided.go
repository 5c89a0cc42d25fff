package events

import "time"

const LeaveDecidedTopic = "hr.leave.decided.v1"

const LeaveDecidedEventType = "leave.decided"

type LeaveDecidedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    int64     `json:"request_id"`
	EmployeeID   string    `json:"employee_id"`
	LeaveTypeID  string    `json:"leave_type_id"`
	Status       string    `json:"status"`
	DeductedDays int       `json:"deducted_days"`
	DecidedBy    string    `json:"decided_by"`
	OccurredAt   time.Time `json:"occurred_at"`
}
