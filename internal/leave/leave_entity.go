package leave

import (
	"time"

	"github.com/google/uuid"
)

type LeaveType struct {
	ID                   uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name                 string    `gorm:"column:name;type:varchar(100);not null"`
	DefaultDaysAllocated int       `gorm:"column:default_days_allocated;not null;default:0"`
}

func (LeaveType) TableName() string {
	return "leave_types"
}

type LeaveBalance struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID    uuid.UUID  `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_leave_balances_employee_type"`
	LeaveTypeID   uuid.UUID  `gorm:"column:leave_type_id;type:uuid;not null;uniqueIndex:uq_leave_balances_employee_type"`
	RemainingDays float64    `gorm:"column:remaining_days;not null;default:0"`
	LeaveType     *LeaveType `gorm:"foreignKey:LeaveTypeID;references:ID"`
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

type LeaveRequest struct {
	ID                int64        `gorm:"column:id;primaryKey;autoIncrement"`
	EmployeeID        uuid.UUID    `gorm:"column:employee_id;type:uuid;not null;index"`
	LeaveTypeID       uuid.UUID    `gorm:"column:leave_type_id;type:uuid;not null"`
	StartDate         time.Time    `gorm:"column:start_date;type:date;not null"`
	EndDate           time.Time    `gorm:"column:end_date;type:date;not null"`
	Reason            *string      `gorm:"column:reason;type:text"`
	Status            string       `gorm:"column:status;type:varchar(30);not null;default:Pending;index"`
	ManagerApproverID *uuid.UUID   `gorm:"column:manager_approver_id;type:uuid"`
	BalanceDeductedAt *time.Time   `gorm:"column:balance_deducted_at;type:timestamptz"`
	DecidedAt         *time.Time   `gorm:"column:decided_at;type:timestamptz"`
	CreatedAt         time.Time    `gorm:"column:created_at"`
	LeaveType         *LeaveType   `gorm:"foreignKey:LeaveTypeID;references:ID"`
	Employee          *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
	Approver          *EmployeeRef `gorm:"foreignKey:ManagerApproverID;references:ID"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

type EmployeeRef struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	Email     string    `gorm:"column:email"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

func (e *EmployeeRef) FullName() string {
	if e == nil {
		return ""
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
