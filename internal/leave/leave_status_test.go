package leave_test

import (
	"testing"
	"time"

	"hris-payroll/internal/leave"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCanTransition(t *testing.T) {
	assert.True(t, leave.CanTransition(leave.StatusPending, leave.StatusApproved))
	assert.True(t, leave.CanTransition(leave.StatusPending, leave.StatusApprovedByManager))
	assert.True(t, leave.CanTransition(leave.StatusApprovedByManager, leave.StatusRejected))
	assert.False(t, leave.CanTransition(leave.StatusApprovedByManager, leave.StatusApprovedByManager))
	assert.False(t, leave.CanTransition(leave.StatusApproved, leave.StatusRejected))
	assert.False(t, leave.CanTransition(leave.StatusRejected, leave.StatusApproved))
}

func TestLeaveRequest_Days(t *testing.T) {
	assert.Equal(t, 5, leave.LeaveRequest{StartDate: d("2024-03-10"), EndDate: d("2024-03-14")}.Days())
	assert.Equal(t, 1, leave.LeaveRequest{StartDate: d("2024-03-10"), EndDate: d("2024-03-10")}.Days())
}

func TestApprovedLeaveDays(t *testing.T) {
	emp1, emp2 := uuid.New(), uuid.New()
	start, end := d("2024-01-01"), d("2024-01-31")

	requests := []leave.LeaveRequest{
		// clipped at the month start: Jan 1-3
		{EmployeeID: emp1, StartDate: d("2023-12-29"), EndDate: d("2024-01-03"), Status: leave.StatusApproved},
		// overlaps the first one on Jan 3, counted once
		{EmployeeID: emp1, StartDate: d("2024-01-03"), EndDate: d("2024-01-04"), Status: leave.StatusApproved},
		{EmployeeID: emp1, StartDate: d("2024-01-20"), EndDate: d("2024-01-22"), Status: leave.StatusPending},
		{EmployeeID: emp2, StartDate: d("2024-01-30"), EndDate: d("2024-02-05"), Status: leave.StatusApproved},
		{EmployeeID: emp2, StartDate: d("2024-02-10"), EndDate: d("2024-02-11"), Status: leave.StatusApproved},
	}

	got := leave.ApprovedLeaveDays(requests, start, end)
	assert.Equal(t, 4, got[emp1])
	assert.Equal(t, 2, got[emp2])
}
