package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"hris-payroll/internal/events"
	leaveerrors "hris-payroll/internal/leave/errors"
	"hris-payroll/internal/messaging/kafka"
	"hris-payroll/internal/shared/contextutil"
	"hris-payroll/internal/shared/database"
	"hris-payroll/internal/shared/dateutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const leaveTypesCacheKey = "leave:types:v1"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	LeaveTypes(ctx context.Context) ([]LeaveTypeResponse, error)
	Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (SubmitLeaveResponse, error)
	Decide(ctx context.Context, approverID, requestID string, req DecideLeaveRequest) (DecideLeaveResponse, error)
	Balance(ctx context.Context, employeeID string) ([]LeaveBalanceResponse, error)
	History(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error)
	PendingQueue(ctx context.Context) ([]LeaveRequestResponse, error)
	ApprovedDaysInRange(ctx context.Context, start, end time.Time) (map[uuid.UUID]int, error)
}

type Config struct {
	// AllowTerminalRedecide lets an approver overwrite the status of an
	// already decided request. Balances are still deducted at most once.
	AllowTerminalRedecide bool
	TypesCacheTTL         time.Duration
}

type service struct {
	db         *sql.DB
	repo       Repository
	outboxRepo kafka.OutboxRepository
	rdb        *redis.Client
	cfg        Config
	sf         singleflight.Group
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	cfg Config,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if cfg.TypesCacheTTL <= 0 {
		cfg.TypesCacheTTL = time.Hour
	}
	return &service{
		db:         db,
		repo:       repo,
		outboxRepo: outboxRepo,
		rdb:        rdb,
		cfg:        cfg,
		logger:     l,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) LeaveTypes(ctx context.Context) ([]LeaveTypeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, leaveTypesCacheKey).Result(); err == nil {
			var cached []LeaveTypeResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Warn("leave types cache read failed", zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(leaveTypesCacheKey, func() (any, error) {
		rows, err := s.repo.ListLeaveTypes(ctx)
		if err != nil {
			return nil, err
		}
		res := dedupeLeaveTypes(rows)

		if s.rdb != nil {
			if raw, err := json.Marshal(res); err == nil {
				if err := s.rdb.Set(ctx, leaveTypesCacheKey, string(raw), s.cfg.TypesCacheTTL).Err(); err != nil {
					log.Warn("leave types cache write failed", zap.Error(err))
				}
			}
		}
		return res, nil
	})
	if err != nil {
		log.Error("list leave types failed", zap.Error(err))
		return nil, err
	}
	return v.([]LeaveTypeResponse), nil
}

// dedupeLeaveTypes keeps the first row of each name. Storage may hold
// duplicates; only the catalog output is deduplicated.
func dedupeLeaveTypes(rows []LeaveType) []LeaveTypeResponse {
	seen := make(map[string]bool, len(rows))
	res := make([]LeaveTypeResponse, 0, len(rows))
	for _, lt := range rows {
		if seen[lt.Name] {
			continue
		}
		seen[lt.Name] = true
		res = append(res, LeaveTypeResponse{
			ID:                   lt.ID.String(),
			Name:                 lt.Name,
			DefaultDaysAllocated: lt.DefaultDaysAllocated,
		})
	}
	return res
}

func (s *service) Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (SubmitLeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("submit leave requested",
		zap.String("employee_id", employeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return SubmitLeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	typeID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return SubmitLeaveResponse{}, leaveerrors.ErrInvalidLeaveTypeID
	}
	startDate, err := dateutil.ParseDate(req.StartDate)
	if err != nil {
		return SubmitLeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	endDate, err := dateutil.ParseDate(req.EndDate)
	if err != nil {
		return SubmitLeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	if endDate.Before(startDate) {
		log.Warn("submit leave rejected: end before start", zap.String("employee_id", employeeID))
		return SubmitLeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("submit leave begin tx failed", zap.Error(err))
		return SubmitLeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, empID)
	if err != nil {
		log.Error("submit leave employee lookup failed", zap.Error(err))
		return SubmitLeaveResponse{}, err
	}
	if !exists {
		return SubmitLeaveResponse{}, leaveerrors.ErrEmployeeNotFound
	}

	if _, err := qtx.FindLeaveType(ctx, typeID); err != nil {
		if database.IsNotFound(err) {
			return SubmitLeaveResponse{}, leaveerrors.ErrLeaveTypeNotFound
		}
		log.Error("submit leave type lookup failed", zap.Error(err))
		return SubmitLeaveResponse{}, err
	}

	lr := &LeaveRequest{
		EmployeeID:  empID,
		LeaveTypeID: typeID,
		StartDate:   startDate,
		EndDate:     endDate,
		Reason:      req.Reason,
		Status:      StatusPending,
		CreatedAt:   s.now(),
	}
	if err := qtx.CreateRequest(ctx, lr); err != nil {
		log.Error("submit leave persist failed", zap.Error(err))
		return SubmitLeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("submit leave commit failed", zap.Error(err))
		return SubmitLeaveResponse{}, err
	}

	log.Info("leave request submitted",
		zap.Int64("request_id", lr.ID),
		zap.String("employee_id", employeeID),
	)
	return SubmitLeaveResponse{
		RequestID: lr.ID,
		Status:    lr.Status,
		Message:   "Leave request submitted successfully",
	}, nil
}

func (s *service) Decide(ctx context.Context, approverID, requestID string, req DecideLeaveRequest) (DecideLeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("decide leave requested",
		zap.String("request_id", requestID),
		zap.String("approver_id", approverID),
		zap.String("status", req.Status),
	)

	if !IsDecision(req.Status) {
		return DecideLeaveResponse{}, leaveerrors.ErrInvalidDecisionStatus
	}
	id, err := strconv.ParseInt(requestID, 10, 64)
	if err != nil || id <= 0 {
		return DecideLeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}
	approver, err := uuid.Parse(approverID)
	if err != nil {
		return DecideLeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("decide leave begin tx failed", zap.Error(err))
		return DecideLeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := qtx.FindRequestForUpdate(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return DecideLeaveResponse{}, leaveerrors.ErrLeaveRequestNotFound
		}
		log.Error("decide leave lookup failed", zap.Error(err))
		return DecideLeaveResponse{}, err
	}

	if !s.cfg.AllowTerminalRedecide {
		if IsTerminal(lr.Status) {
			log.Warn("decide leave rejected: already decided",
				zap.Int64("request_id", id),
				zap.String("current_status", lr.Status),
			)
			return DecideLeaveResponse{}, leaveerrors.ErrRequestAlreadyDecided
		}
		if !CanTransition(lr.Status, req.Status) {
			return DecideLeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
		}
	}

	now := s.now()
	lr.Status = req.Status
	lr.ManagerApproverID = &approver
	lr.DecidedAt = &now

	deducted := 0
	if lr.Status == StatusApproved && lr.BalanceDeductedAt == nil {
		deducted = lr.Days()
		touched, err := qtx.DeductBalance(ctx, lr.EmployeeID, lr.LeaveTypeID, deducted)
		if err != nil {
			log.Error("decide leave deduct balance failed", zap.Error(err))
			return DecideLeaveResponse{}, err
		}
		if touched == 0 {
			log.Warn("no leave balance to deduct",
				zap.Int64("request_id", id),
				zap.String("employee_id", lr.EmployeeID.String()),
			)
			deducted = 0
		}
		// marked even without a balance row so a later re-approval never deducts
		lr.BalanceDeductedAt = &now
	}

	if err := qtx.SaveDecision(ctx, lr); err != nil {
		log.Error("decide leave persist failed", zap.Error(err))
		return DecideLeaveResponse{}, err
	}

	if err := s.enqueueDecided(ctx, tx, lr, deducted, approverID); err != nil {
		log.Error("decide leave outbox failed", zap.Error(err))
		return DecideLeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("decide leave commit failed", zap.Error(err))
		return DecideLeaveResponse{}, err
	}

	log.Info("leave request decided",
		zap.Int64("request_id", id),
		zap.String("status", lr.Status),
		zap.Int("deducted_days", deducted),
	)
	return DecideLeaveResponse{
		RequestID: lr.ID,
		Status:    lr.Status,
		Message:   "Leave request " + strings.ToLower(lr.Status),
	}, nil
}

func (s *service) enqueueDecided(ctx context.Context, tx *sql.Tx, lr *LeaveRequest, deducted int, approverID string) error {
	if s.outboxRepo == nil {
		return nil
	}
	payload := events.LeaveDecidedEvent{
		EventType:    events.LeaveDecidedEventType,
		RequestID:    lr.ID,
		EmployeeID:   lr.EmployeeID.String(),
		LeaveTypeID:  lr.LeaveTypeID.String(),
		Status:       lr.Status,
		DeductedDays: deducted,
		DecidedBy:    approverID,
		OccurredAt:   s.now(),
	}
	event, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		"leave_request",
		strconv.FormatInt(lr.ID, 10),
		events.LeaveDecidedEventType,
		events.LeaveDecidedTopic,
		payload,
	)
	if err != nil {
		return err
	}
	return s.outboxRepo.WithTx(tx).Create(ctx, event)
}

func (s *service) Balance(ctx context.Context, employeeID string) ([]LeaveBalanceResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}

	rows, err := s.repo.ListBalances(ctx, empID)
	if err != nil {
		return nil, err
	}

	res := make([]LeaveBalanceResponse, len(rows))
	for i, b := range rows {
		res[i] = LeaveBalanceResponse{
			BalanceID:     b.ID.String(),
			LeaveTypeID:   b.LeaveTypeID.String(),
			RemainingDays: b.RemainingDays,
		}
		if b.LeaveType != nil {
			res[i].LeaveTypeName = b.LeaveType.Name
		}
	}
	return res, nil
}

func (s *service) History(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}

	rows, err := s.repo.ListRequestsByEmployee(ctx, empID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) PendingQueue(ctx context.Context) ([]LeaveRequestResponse, error) {
	rows, err := s.repo.ListRequestsByStatus(ctx, []string{StatusPending, StatusApprovedByManager})
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) ApprovedDaysInRange(ctx context.Context, start, end time.Time) (map[uuid.UUID]int, error) {
	if dateutil.Truncate(start).After(dateutil.Truncate(end)) {
		return nil, leaveerrors.ErrInvalidDateRange
	}
	rows, err := s.repo.ListApprovedOverlapping(ctx, dateutil.Truncate(start), dateutil.Truncate(end))
	if err != nil {
		return nil, err
	}
	return ApprovedLeaveDays(rows, start, end), nil
}

func mapToListResponse(rows []LeaveRequest) []LeaveRequestResponse {
	res := make([]LeaveRequestResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res
}

func mapToResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		RequestID:  r.ID,
		EmployeeID: r.EmployeeID.String(),
		StartDate:  dateutil.Format(r.StartDate),
		EndDate:    dateutil.Format(r.EndDate),
		Days:       r.Days(),
		Reason:     r.Reason,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
	if r.LeaveType != nil {
		resp.LeaveTypeName = r.LeaveType.Name
	}
	if r.Employee != nil {
		resp.EmployeeName = r.Employee.FullName()
		resp.EmployeeEmail = r.Employee.Email
	}
	if r.Approver != nil {
		resp.ManagerApprover = r.Approver.Email
	}
	return resp
}
