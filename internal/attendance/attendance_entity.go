package attendance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusHalfDay = "Half-day"
)

// TimeKeeping is one check-in/check-out row. Rows are written by the check-in
// front door and only read here.
type TimeKeeping struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID   uuid.UUID  `gorm:"column:employee_id;type:uuid;not null;index"`
	WorkDate     time.Time  `gorm:"column:work_date;type:date;not null;index"`
	CheckInTime  time.Time  `gorm:"column:check_in_time;type:timestamptz;not null"`
	CheckOutTime *time.Time `gorm:"column:check_out_time;type:timestamptz"`
	HoursWorked  float64    `gorm:"column:hours_worked;not null;default:0"`
	Status       string     `gorm:"column:status;type:varchar(20);not null"`
}

func (TimeKeeping) TableName() string {
	return "time_keepings"
}

// EmployeeAttendance is the per-employee summary of a date range.
// PresentOnLeaveCount is only filled by the leave-aware aggregation.
type EmployeeAttendance struct {
	EmployeeID            uuid.UUID       `gorm:"column:employee_id"`
	TotalHoursWorked      decimal.Decimal `gorm:"column:total_hours_worked"`
	AbsentDayCount        int             `gorm:"column:absent_day_count"`
	PresentOrHalfDayCount int             `gorm:"column:present_or_half_day_count"`
	PresentOnLeaveCount   int             `gorm:"column:present_on_leave_count"`
}
