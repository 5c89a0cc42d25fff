package leave

import (
	"time"

	"hris-payroll/internal/shared/dateutil"

	"github.com/google/uuid"
)

const (
	StatusPending           = "Pending"
	StatusApprovedByManager = "Approved_By_Manager"
	StatusApproved          = "Approved"
	StatusRejected          = "Rejected"
)

var transitions = map[string][]string{
	StatusPending:           {StatusApprovedByManager, StatusApproved, StatusRejected},
	StatusApprovedByManager: {StatusApproved, StatusRejected},
}

// IsDecision reports whether status may be requested by an approver.
func IsDecision(status string) bool {
	switch status {
	case StatusApproved, StatusRejected, StatusApprovedByManager:
		return true
	default:
		return false
	}
}

func IsTerminal(status string) bool {
	return status == StatusApproved || status == StatusRejected
}

func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Days is the number of calendar days a request covers, start and end
// included.
func (r LeaveRequest) Days() int {
	return dateutil.DaysInclusive(r.StartDate, r.EndDate)
}

// ApprovedLeaveDays counts, per employee, the distinct calendar dates inside
// [start, end] covered by the given requests. Only Approved requests count;
// overlapping requests never count a date twice.
func ApprovedLeaveDays(requests []LeaveRequest, start, end time.Time) map[uuid.UUID]int {
	lo, hi := dateutil.Truncate(start), dateutil.Truncate(end)
	dates := make(map[uuid.UUID]map[time.Time]struct{})

	for _, r := range requests {
		if r.Status != StatusApproved {
			continue
		}
		s, e, ok := dateutil.Clip(r.StartDate, r.EndDate, lo, hi)
		if !ok {
			continue
		}
		set, exists := dates[r.EmployeeID]
		if !exists {
			set = make(map[time.Time]struct{})
			dates[r.EmployeeID] = set
		}
		for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
			set[d] = struct{}{}
		}
	}

	out := make(map[uuid.UUID]int, len(dates))
	for emp, set := range dates {
		out[emp] = len(set)
	}
	return out
}
