package attendance

import (
	"context"
	"time"

	attendanceerrors "hris-payroll/internal/attendance/errors"
	"hris-payroll/internal/shared/contextutil"
	"hris-payroll/internal/shared/dateutil"

	"go.uber.org/zap"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Aggregate(ctx context.Context, start, end time.Time) ([]EmployeeAttendance, error)
	AggregateExcludingLeave(ctx context.Context, start, end time.Time) ([]EmployeeAttendance, error)
	Summary(ctx context.Context, q SummaryQuery) ([]EmployeeAttendanceResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{repo: repo, logger: l}
}

func validateRange(start, end time.Time) error {
	if dateutil.Truncate(start).After(dateutil.Truncate(end)) {
		return attendanceerrors.ErrInvalidDateRange
	}
	return nil
}

func (s *service) Aggregate(ctx context.Context, start, end time.Time) ([]EmployeeAttendance, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	return s.repo.Aggregate(ctx, dateutil.Truncate(start), dateutil.Truncate(end))
}

func (s *service) AggregateExcludingLeave(ctx context.Context, start, end time.Time) ([]EmployeeAttendance, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	return s.repo.AggregateExcludingLeave(ctx, dateutil.Truncate(start), dateutil.Truncate(end))
}

func (s *service) Summary(ctx context.Context, q SummaryQuery) ([]EmployeeAttendanceResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	start, err := dateutil.ParseDate(q.Start)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDate
	}
	end, err := dateutil.ParseDate(q.End)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDate
	}

	var rows []EmployeeAttendance
	if q.ExcludeLeave {
		rows, err = s.AggregateExcludingLeave(ctx, start, end)
	} else {
		rows, err = s.Aggregate(ctx, start, end)
	}
	if err != nil {
		log.Warn("attendance summary failed", zap.String("start", q.Start), zap.String("end", q.End), zap.Error(err))
		return nil, err
	}

	res := make([]EmployeeAttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r, q.ExcludeLeave)
	}
	return res, nil
}

func mapToResponse(a EmployeeAttendance, withLeave bool) EmployeeAttendanceResponse {
	resp := EmployeeAttendanceResponse{
		EmployeeID:            a.EmployeeID.String(),
		TotalHoursWorked:      a.TotalHoursWorked.InexactFloat64(),
		AbsentDayCount:        a.AbsentDayCount,
		PresentOrHalfDayCount: a.PresentOrHalfDayCount,
	}
	if withLeave {
		n := a.PresentOnLeaveCount
		resp.PresentOnLeaveCount = &n
	}
	return resp
}
