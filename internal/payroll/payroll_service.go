package payroll

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"hris-payroll/internal/attendance"
	"hris-payroll/internal/contract"
	"hris-payroll/internal/events"
	"hris-payroll/internal/leave"
	"hris-payroll/internal/messaging/kafka"
	payrollerrors "hris-payroll/internal/payroll/errors"
	"hris-payroll/internal/salaryconfig"
	"hris-payroll/internal/shared/apperror"
	"hris-payroll/internal/shared/contextutil"
	"hris-payroll/internal/shared/database"
	"hris-payroll/internal/shared/dateutil"
	"hris-payroll/internal/shared/money"
	"hris-payroll/internal/shared/tokenstore"
	"hris-payroll/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	OpenPeriod(ctx context.Context, month, year int) (PeriodResponse, error)
	GetPeriod(ctx context.Context, month, year int) (PeriodResponse, error)
	UpdatePeriodStatus(ctx context.Context, periodID string, req UpdatePeriodStatusRequest) (PeriodResponse, error)

	GeneratePayslips(ctx context.Context, month, year int, requestedBy string) (GenerateResponse, error)
	RunContractPayroll(ctx context.Context, month, year int, requestedBy string) (RunResponse, error)

	ListPayslips(ctx context.Context, month, year int) ([]PayslipResponse, error)
	Cycle(ctx context.Context, periodID string) (CycleResponse, error)
	MyPayslips(ctx context.Context, employeeID string) ([]PayslipResponse, error)

	IssueDownloadToken(ctx context.Context, payslipID, requesterID string, canViewAll bool) (DownloadTokenResponse, error)
	RenderByToken(ctx context.Context, token string) (string, []byte, error)
	ArchivePeriod(ctx context.Context, periodID int64) (int, error)
}

type Config struct {
	StandardWorkDays        int
	BlockLockedRegeneration bool
	LegacyFallback          bool
	GenerateTimeout         time.Duration
	Workers                 int
	PayslipTokenTTL         time.Duration
}

// Deps groups the collaborators of the payroll service. Tokens and Store
// are optional; without them downloads and archiving are unavailable.
type Deps struct {
	DB             *sql.DB
	Repo           Repository
	AttendanceRepo attendance.Repository
	LeaveRepo      leave.Repository
	ConfigRepo     salaryconfig.Repository
	ContractRepo   contract.Repository
	OutboxRepo     kafka.OutboxRepository
	Tokens         tokenstore.Store
	Store          storage.ObjectStore
}

type service struct {
	Deps
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

func NewService(deps Deps, cfg Config, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	if cfg.StandardWorkDays <= 0 {
		cfg.StandardWorkDays = DefaultStandardWorkDays
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.PayslipTokenTTL <= 0 {
		cfg.PayslipTokenTTL = 5 * time.Minute
	}
	return &service{
		Deps:   deps,
		cfg:    cfg,
		logger: l,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type job struct {
	strategy PayslipStrategy
	input    PayslipInput
}

type batch struct {
	period  *PayrollPeriod
	results []PayslipResult
	skipped int
}

func (s *service) GeneratePayslips(ctx context.Context, month, year int, requestedBy string) (GenerateResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("generate payslips requested",
		zap.Int("month", month),
		zap.Int("year", year),
		zap.String("requested_by", requestedBy),
	)

	if err := validatePeriod(month, year); err != nil {
		log.Warn("generate payslips rejected", zap.Error(err))
		return GenerateResponse{}, err
	}

	b, err := s.runBatch(ctx, month, year, requestedBy, s.cfg.LegacyFallback)
	if err != nil {
		return GenerateResponse{}, err
	}

	gross, deductions, net := decimal.Zero, decimal.Zero, decimal.Zero
	for _, r := range b.results {
		gross = gross.Add(r.GrossSalary)
		deductions = deductions.Add(r.Deductions)
		net = net.Add(r.NetSalary)
	}

	log.Info("payslips generated",
		zap.Int64("period_id", b.period.ID),
		zap.Int("generated", len(b.results)),
		zap.Int("skipped", b.skipped),
	)
	return GenerateResponse{
		PeriodID:        b.period.ID,
		Month:           month,
		Year:            year,
		TotalGross:      money.Format(gross),
		TotalDeductions: money.Format(deductions),
		TotalNet:        money.Format(net),
		Generated:       len(b.results),
		Skipped:         b.skipped,
	}, nil
}

func (s *service) RunContractPayroll(ctx context.Context, month, year int, requestedBy string) (RunResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("contract payroll run requested",
		zap.Int("month", month),
		zap.Int("year", year),
		zap.String("requested_by", requestedBy),
	)

	if err := validatePeriod(month, year); err != nil {
		log.Warn("contract payroll run rejected", zap.Error(err))
		return RunResponse{}, err
	}

	b, err := s.runBatch(ctx, month, year, requestedBy, true)
	if err != nil {
		return RunResponse{}, err
	}

	total, base, bonus, deductions := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, r := range b.results {
		total = total.Add(r.NetSalary)
		base = base.Add(r.GrossSalary.Sub(r.Bonus))
		bonus = bonus.Add(r.Bonus)
		deductions = deductions.Add(r.Deductions)
	}

	log.Info("contract payroll run completed",
		zap.Int64("period_id", b.period.ID),
		zap.Int("generated", len(b.results)),
	)
	return RunResponse{
		PeriodID:        b.period.ID,
		TotalPayroll:    money.Format(total),
		TotalBaseSalary: money.Format(base),
		TotalBonus:      money.Format(bonus),
		TotalDeductions: money.Format(deductions),
		Generated:       len(b.results),
	}, nil
}

type planInput struct {
	attendance  []attendance.EmployeeAttendance
	leaveDays   map[uuid.UUID]int
	configs     []salaryconfig.SalaryConfig
	contracts   []contract.Contract
	workDays    int
	daysInMonth int
}

// runBatch is the shared transactional skeleton of both generation modes:
// lock, open period, gather inputs, compute, upsert, prune, enqueue, commit.
// The modes differ only in whether contract holders without a salary config
// are paid. Either way the period ends up holding exactly the payslips of
// the last run.
func (s *service) runBatch(ctx context.Context, month, year int, requestedBy string, contractFallback bool) (*batch, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if s.cfg.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.GenerateTimeout)
		defer cancel()
	}

	b, err := s.runBatchTx(ctx, month, year, requestedBy, contractFallback)
	if err != nil {
		if ctxErr := apperror.FromContext(err); ctxErr != nil {
			log.Warn("payroll run aborted", zap.Error(err))
			return nil, ctxErr
		}
		if ctxErr := apperror.FromContext(ctx.Err()); ctxErr != nil {
			log.Warn("payroll run aborted", zap.Error(err))
			return nil, ctxErr
		}
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			log.Error("payroll run failed", zap.Error(err))
		}
		return nil, err
	}
	return b, nil
}

func (s *service) runBatchTx(ctx context.Context, month, year int, requestedBy string, contractFallback bool) (*batch, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.Repo.WithTx(tx)

	period, err := s.openPeriodTx(ctx, qtx, month, year)
	if err != nil {
		return nil, err
	}
	if period.Status != PeriodDraft && s.cfg.BlockLockedRegeneration {
		log.Warn("payroll run rejected: period not draft",
			zap.Int64("period_id", period.ID),
			zap.String("status", period.Status),
		)
		return nil, payrollerrors.ErrPeriodNotDraft
	}

	start, end := dateutil.MonthRange(month, year)
	in := planInput{
		workDays:    period.StandardWorkDays,
		daysInMonth: dateutil.DaysInMonth(month, year),
	}
	if in.workDays <= 0 {
		in.workDays = s.cfg.StandardWorkDays
	}

	if in.attendance, err = s.AttendanceRepo.WithTx(tx).AggregateExcludingLeave(ctx, start, end); err != nil {
		return nil, fmt.Errorf("aggregate attendance: %w", err)
	}
	leaves, err := s.LeaveRepo.WithTx(tx).ListApprovedOverlapping(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list approved leave: %w", err)
	}
	in.leaveDays = leave.ApprovedLeaveDays(leaves, start, end)
	if in.configs, err = s.ConfigRepo.WithTx(tx).ListForPayroll(ctx); err != nil {
		return nil, fmt.Errorf("list salary configs: %w", err)
	}
	if contractFallback {
		if in.contracts, err = s.ContractRepo.WithTx(tx).FindActiveForPeriod(ctx, start, end); err != nil {
			return nil, fmt.Errorf("list active contracts: %w", err)
		}
	}

	jobs, skipped := planPeriod(in, contractFallback)
	results, err := s.computeAll(ctx, jobs)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := &Payslip{
			ID:              uuid.New(),
			EmployeeID:      r.EmployeeID,
			PayrollPeriodID: period.ID,
			ContractID:      r.ContractID,
			Strategy:        r.Strategy,
			ActualWorkDays:  r.ActualWorkDays,
			OTHours:         r.OTHours,
			GrossSalary:     r.GrossSalary,
			Deductions:      r.Deductions,
			Bonus:           r.Bonus,
			NetSalary:       r.NetSalary,
			Status:          PayslipPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := qtx.UpsertPayslip(ctx, p); err != nil {
			return nil, fmt.Errorf("upsert payslip %s: %w", r.EmployeeID, err)
		}
	}

	keep := make([]uuid.UUID, 0, len(results))
	for _, r := range results {
		keep = append(keep, r.EmployeeID)
	}
	pruned, err := qtx.DeleteStalePayslips(ctx, period.ID, keep)
	if err != nil {
		return nil, fmt.Errorf("delete stale payslips: %w", err)
	}
	if pruned > 0 {
		log.Info("stale payslips removed",
			zap.Int64("period_id", period.ID),
			zap.Int64("removed", pruned),
		)
	}

	if err := s.enqueueGenerated(ctx, tx, period, len(results), skipped, requestedBy); err != nil {
		return nil, fmt.Errorf("enqueue payroll.generated: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &batch{period: period, results: results, skipped: skipped}, nil
}

// planPeriod assigns the attendance strategy to every employee with a
// salary config. With contractFallback, contract holders without a config
// get the contract strategy. Anyone else with attendance or leave in the
// month is skipped.
func planPeriod(in planInput, contractFallback bool) ([]job, int) {
	attByEmp := indexAttendance(in.attendance)
	jobs := make([]job, 0, len(in.configs))
	covered := make(map[uuid.UUID]bool, len(in.configs))

	for i := range in.configs {
		cfg := &in.configs[i]
		covered[cfg.EmployeeID] = true
		jobs = append(jobs, job{
			strategy: ConfigAttendanceStrategy{},
			input: PayslipInput{
				EmployeeID:        cfg.EmployeeID,
				Attendance:        attByEmp[cfg.EmployeeID],
				ApprovedLeaveDays: in.leaveDays[cfg.EmployeeID],
				StandardWorkDays:  in.workDays,
				DaysInMonth:       in.daysInMonth,
				Config:            cfg,
			},
		})
	}

	if contractFallback {
		for i := range in.contracts {
			c := &in.contracts[i]
			if covered[c.EmployeeID] {
				continue
			}
			covered[c.EmployeeID] = true
			jobs = append(jobs, job{
				strategy: ContractRateStrategy{},
				input: PayslipInput{
					EmployeeID:  c.EmployeeID,
					Attendance:  attByEmp[c.EmployeeID],
					DaysInMonth: in.daysInMonth,
					Contract:    c,
				},
			})
		}
	}

	seen := make(map[uuid.UUID]bool)
	for id := range attByEmp {
		seen[id] = true
	}
	for id := range in.leaveDays {
		seen[id] = true
	}
	skipped := 0
	for id := range seen {
		if !covered[id] {
			skipped++
		}
	}
	return jobs, skipped
}

func indexAttendance(rows []attendance.EmployeeAttendance) map[uuid.UUID]attendance.EmployeeAttendance {
	out := make(map[uuid.UUID]attendance.EmployeeAttendance, len(rows))
	for _, r := range rows {
		out[r.EmployeeID] = r
	}
	return out
}

// computeAll runs the strategies on a bounded worker pool. Results come back
// ordered by employee id so upserts happen in a stable order.
func (s *service) computeAll(ctx context.Context, jobs []job) ([]PayslipResult, error) {
	results := make([]PayslipResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i := range jobs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := jobs[i].strategy.Compute(jobs[i].input)
			if err != nil {
				return fmt.Errorf("compute %s for %s: %w", jobs[i].strategy.Name(), jobs[i].input.EmployeeID, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].EmployeeID.String() < results[j].EmployeeID.String()
	})
	return results, nil
}

func (s *service) enqueueGenerated(ctx context.Context, tx *sql.Tx, period *PayrollPeriod, generated, skipped int, requestedBy string) error {
	if s.OutboxRepo == nil {
		return nil
	}
	payload := events.PayrollGeneratedEvent{
		EventType:   events.PayrollGeneratedEventType,
		PeriodID:    period.ID,
		Month:       period.Month,
		Year:        period.Year,
		Generated:   generated,
		Skipped:     skipped,
		RequestedBy: requestedBy,
		OccurredAt:  s.now(),
	}
	event, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		"payroll_period",
		strconv.FormatInt(period.ID, 10),
		events.PayrollGeneratedEventType,
		events.PayrollGeneratedTopic,
		payload,
	)
	if err != nil {
		return err
	}
	return s.OutboxRepo.WithTx(tx).Create(ctx, event)
}

func (s *service) ListPayslips(ctx context.Context, month, year int) ([]PayslipResponse, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	period, err := s.Repo.FindPeriod(ctx, month, year)
	if err != nil {
		if database.IsNotFound(err) {
			return []PayslipResponse{}, nil
		}
		contextutil.GetLogger(ctx, s.logger).Error("list payslips period lookup failed", zap.Error(err))
		return nil, err
	}

	rows, err := s.Repo.ListPayslipsByPeriod(ctx, period.ID)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list payslips failed", zap.Error(err))
		return nil, err
	}
	return mapPayslips(rows, period), nil
}

func (s *service) Cycle(ctx context.Context, periodID string) (CycleResponse, error) {
	id, err := parsePeriodID(periodID)
	if err != nil {
		return CycleResponse{}, err
	}

	period, err := s.Repo.FindPeriodByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return CycleResponse{}, payrollerrors.ErrPeriodNotFound
		}
		return CycleResponse{}, err
	}

	rows, err := s.Repo.ListPayslipsByPeriod(ctx, id)
	if err != nil {
		return CycleResponse{}, err
	}
	return CycleResponse{
		Period:   mapPeriod(period),
		Payslips: mapPayslips(rows, period),
	}, nil
}

func (s *service) MyPayslips(ctx context.Context, employeeID string) ([]PayslipResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, payrollerrors.ErrInvalidEmployeeID
	}

	rows, err := s.Repo.ListPayslipsByEmployee(ctx, empID)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list my payslips failed", zap.Error(err))
		return nil, err
	}
	return mapPayslips(rows, nil), nil
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return payrollerrors.ErrInvalidMonth
	}
	if year < 2000 || year > 9999 {
		return payrollerrors.ErrInvalidYear
	}
	return nil
}

func parsePeriodID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, payrollerrors.ErrInvalidPeriodID
	}
	return id, nil
}

func mapPeriod(p *PayrollPeriod) PeriodResponse {
	return PeriodResponse{
		ID:               p.ID,
		Month:            p.Month,
		Year:             p.Year,
		Status:           p.Status,
		StandardWorkDays: p.StandardWorkDays,
	}
}

// mapPayslips falls back to each row's joined period when period is nil.
func mapPayslips(rows []Payslip, period *PayrollPeriod) []PayslipResponse {
	res := make([]PayslipResponse, 0, len(rows))
	for _, p := range rows {
		per := period
		if per == nil {
			per = p.PayrollPeriod
		}
		res = append(res, mapPayslip(p, per))
	}
	return res
}

func mapPayslip(p Payslip, period *PayrollPeriod) PayslipResponse {
	r := PayslipResponse{
		ID:             p.ID.String(),
		EmployeeID:     p.EmployeeID.String(),
		PeriodID:       p.PayrollPeriodID,
		Strategy:       p.Strategy,
		ActualWorkDays: p.ActualWorkDays,
		OTHours:        money.Format(p.OTHours),
		GrossSalary:    money.Format(p.GrossSalary),
		Deductions:     money.Format(p.Deductions),
		Bonus:          money.Format(p.Bonus),
		NetSalary:      money.Format(p.NetSalary),
		Status:         p.Status,
	}
	if p.Employee != nil {
		r.EmployeeName = p.Employee.FullName()
		r.FirstName = p.Employee.FirstName
		r.LastName = p.Employee.LastName
		r.DepartmentName = p.Employee.DepartmentName()
	}
	if period != nil {
		r.Month = period.Month
		r.Year = period.Year
	}
	return r
}
