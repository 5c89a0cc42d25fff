package events

import "time"

const PayrollGeneratedTopic = "hr.payroll.generated.v1"

const PayrollGeneratedEventType = "payroll.generated"

// PayrollGeneratedEvent is queued in the same transaction that writes the
// payslips of a period.
type PayrollGeneratedEvent struct {
	EventType   string    `json:"event_type"`
	PeriodID    int64     `json:"period_id"`
	Month       int       `json:"month"`
	Year        int       `json:"year"`
	Generated   int       `json:"generated"`
	Skipped     int       `json:"skipped"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
