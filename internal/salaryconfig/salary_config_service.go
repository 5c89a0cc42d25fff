package salaryconfig

import (
	"context"
	"database/sql"
	"time"

	"hris-payroll/internal/employee"
	salaryconfigerrors "hris-payroll/internal/salaryconfig/errors"
	"hris-payroll/internal/shared/contextutil"
	"hris-payroll/internal/shared/database"
	"hris-payroll/internal/shared/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultHistoryReason = "Salary config updated"

//go:generate mockgen -source=salary_config_service.go -destination=mock/salary_config_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]SalaryConfigResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) (SalaryConfigResponse, error)
	Update(ctx context.Context, employeeID string, req UpdateSalaryConfigRequest) (SalaryConfigResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(db *sql.DB, repo Repository, employeeRepo employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("salaryconfig.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salaryconfig.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		logger:       l,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) GetAll(ctx context.Context) ([]SalaryConfigResponse, error) {
	cfgs, err := s.repo.FindAll(ctx)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list salary configs failed", zap.Error(err))
		return nil, err
	}

	res := make([]SalaryConfigResponse, len(cfgs))
	for i, cfg := range cfgs {
		res[i] = mapToResponse(cfg)
	}
	return res, nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) (SalaryConfigResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return SalaryConfigResponse{}, salaryconfigerrors.ErrInvalidEmployeeID
	}

	cfg, err := s.repo.FindByEmployee(ctx, empID)
	if err != nil {
		if database.IsNotFound(err) {
			return SalaryConfigResponse{}, salaryconfigerrors.ErrSalaryConfigNotFound
		}
		return SalaryConfigResponse{}, err
	}
	return mapToResponse(*cfg), nil
}

// Update patches an employee's salary config, creating it on first use.
func (s *service) Update(ctx context.Context, employeeID string, req UpdateSalaryConfigRequest) (SalaryConfigResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("update salary config requested", zap.String("employee_id", employeeID))

	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return SalaryConfigResponse{}, salaryconfigerrors.ErrInvalidEmployeeID
	}

	amounts, err := parseAmounts(req)
	if err != nil {
		log.Warn("update salary config rejected: invalid amount", zap.Error(err))
		return SalaryConfigResponse{}, salaryconfigerrors.ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("update salary config begin tx failed", zap.Error(err))
		return SalaryConfigResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := s.employeeRepo.WithTx(tx).Exists(ctx, empID)
	if err != nil {
		return SalaryConfigResponse{}, err
	}
	if !exists {
		return SalaryConfigResponse{}, salaryconfigerrors.ErrEmployeeNotFound
	}

	now := s.now()
	cfg, err := qtx.FindByEmployee(ctx, empID)
	switch {
	case database.IsNotFound(err):
		cfg = &SalaryConfig{
			ID:         uuid.New(),
			EmployeeID: empID,
			CreatedAt:  now,
		}
	case err != nil:
		log.Error("update salary config lookup failed", zap.Error(err))
		return SalaryConfigResponse{}, err
	}

	oldBase := cfg.BaseSalary
	amounts.apply(cfg)
	cfg.UpdatedAt = now

	if err := qtx.Upsert(ctx, cfg); err != nil {
		if database.IsUniqueViolation(err, "") {
			return SalaryConfigResponse{}, salaryconfigerrors.ErrSalaryConfigAlreadyExists
		}
		log.Error("update salary config persist failed", zap.Error(err))
		return SalaryConfigResponse{}, err
	}

	if !cfg.BaseSalary.Equal(oldBase) {
		reason := req.Reason
		if reason == "" {
			reason = defaultHistoryReason
		}
		if err := qtx.RecordHistory(ctx, &SalaryHistory{
			ID:         uuid.New(),
			EmployeeID: empID,
			OldSalary:  oldBase,
			NewSalary:  cfg.BaseSalary,
			ChangeDate: now,
			Reason:     reason,
		}); err != nil {
			log.Error("update salary config history failed", zap.Error(err))
			return SalaryConfigResponse{}, err
		}
	}

	saved, err := qtx.FindByEmployee(ctx, empID)
	if err != nil {
		return SalaryConfigResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("update salary config commit failed", zap.Error(err))
		return SalaryConfigResponse{}, err
	}

	log.Info("salary config updated",
		zap.String("employee_id", employeeID),
		zap.String("base_salary", money.Format(saved.BaseSalary)),
	)
	return mapToResponse(*saved), nil
}

type amountPatch struct {
	base, transport, lunch, responsibility *decimal.Decimal
}

func parseAmounts(req UpdateSalaryConfigRequest) (amountPatch, error) {
	var p amountPatch
	fields := []struct {
		in  *string
		out **decimal.Decimal
	}{
		{req.BaseSalary, &p.base},
		{req.TransportAllowance, &p.transport},
		{req.LunchAllowance, &p.lunch},
		{req.ResponsibilityAllowance, &p.responsibility},
	}
	for _, f := range fields {
		if f.in == nil {
			continue
		}
		d, err := money.ParseNonNegative(*f.in)
		if err != nil {
			return amountPatch{}, err
		}
		*f.out = &d
	}
	return p, nil
}

func (p amountPatch) apply(cfg *SalaryConfig) {
	if p.base != nil {
		cfg.BaseSalary = *p.base
	}
	if p.transport != nil {
		cfg.TransportAllowance = *p.transport
	}
	if p.lunch != nil {
		cfg.LunchAllowance = *p.lunch
	}
	if p.responsibility != nil {
		cfg.ResponsibilityAllowance = *p.responsibility
	}
}

func mapToResponse(cfg SalaryConfig) SalaryConfigResponse {
	res := SalaryConfigResponse{
		ID:                      cfg.ID.String(),
		EmployeeID:              cfg.EmployeeID.String(),
		BaseSalary:              money.Format(cfg.BaseSalary),
		TransportAllowance:      money.Format(cfg.TransportAllowance),
		LunchAllowance:          money.Format(cfg.LunchAllowance),
		ResponsibilityAllowance: money.Format(cfg.ResponsibilityAllowance),
		TotalAllowance:          money.Format(cfg.TotalAllowance()),
		UpdatedAt:               cfg.UpdatedAt.Format(time.RFC3339),
	}
	if cfg.Employee != nil {
		res.EmployeeName = cfg.Employee.FullName()
	}
	return res
}
