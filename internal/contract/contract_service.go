package contract

import (
	"context"
	"database/sql"
	"time"

	contracterrors "hris-payroll/internal/contract/errors"
	"hris-payroll/internal/employee"
	"hris-payroll/internal/salaryconfig"
	"hris-payroll/internal/shared/contextutil"
	"hris-payroll/internal/shared/database"
	"hris-payroll/internal/shared/dateutil"
	"hris-payroll/internal/shared/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	uqOneActive      = "uq_contracts_one_active"
	uqContractNumber = "uq_contracts_contract_number"

	defaultRateChangeReason = "Contract salary rate changed"
)

//go:generate mockgen -source=contract_service.go -destination=mock/contract_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateContractRequest) (ContractResponse, error)
	Update(ctx context.Context, id string, req UpdateContractRequest) (ContractResponse, error)
	GetAll(ctx context.Context, employeeID string) ([]ContractResponse, error)
	GetByID(ctx context.Context, id string) (ContractResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	historyRepo  salaryconfig.Repository
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	historyRepo salaryconfig.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("contract.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("contract.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		historyRepo:  historyRepo,
		logger:       l,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Create(ctx context.Context, req CreateContractRequest) (ContractResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create contract requested",
		zap.String("employee_id", req.EmployeeID),
		zap.String("contract_number", req.ContractNumber),
	)

	empID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return ContractResponse{}, contracterrors.ErrInvalidEmployeeID
	}
	start, err := dateutil.ParseDate(req.StartDate)
	if err != nil {
		return ContractResponse{}, contracterrors.ErrInvalidDateFormat
	}
	end, err := parseOptionalDate(req.EndDate)
	if err != nil {
		return ContractResponse{}, err
	}
	if end != nil && end.Before(start) {
		return ContractResponse{}, contracterrors.ErrInvalidDateRange
	}
	status := req.Status
	if status == "" {
		status = StatusActive
	}
	if !IsValidStatus(status) {
		return ContractResponse{}, contracterrors.ErrInvalidStatus
	}
	rate, err := money.ParseNonNegative(req.SalaryRate)
	if err != nil {
		return ContractResponse{}, contracterrors.ErrInvalidSalaryRate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create contract begin tx failed", zap.Error(err))
		return ContractResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := s.employeeRepo.WithTx(tx).Exists(ctx, empID)
	if err != nil {
		return ContractResponse{}, err
	}
	if !exists {
		return ContractResponse{}, contracterrors.ErrEmployeeNotFound
	}

	if status == StatusActive {
		active, err := qtx.HasActiveContract(ctx, empID, nil)
		if err != nil {
			return ContractResponse{}, err
		}
		if active {
			log.Warn("create contract rejected: active contract exists", zap.String("employee_id", req.EmployeeID))
			return ContractResponse{}, contracterrors.ErrActiveContractExists
		}
	}

	now := s.now()
	c := &Contract{
		ID:             uuid.New(),
		EmployeeID:     empID,
		ContractNumber: req.ContractNumber,
		ContractType:   req.ContractType,
		StartDate:      start,
		EndDate:        end,
		Status:         status,
		SalaryRate:     rate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := qtx.Create(ctx, c); err != nil {
		log.Error("create contract persist failed", zap.Error(err))
		return ContractResponse{}, mapRepositoryError(err)
	}

	created, err := qtx.FindByID(ctx, c.ID)
	if err != nil {
		return ContractResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("create contract commit failed", zap.Error(err))
		return ContractResponse{}, err
	}

	log.Info("contract created", zap.String("contract_id", c.ID.String()), zap.String("employee_id", req.EmployeeID))
	return mapToResponse(*created), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateContractRequest) (ContractResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("update contract requested", zap.String("contract_id", id))

	contractID, err := uuid.Parse(id)
	if err != nil {
		return ContractResponse{}, contracterrors.ErrInvalidContractID
	}
	if req.Status != nil && !IsValidStatus(*req.Status) {
		return ContractResponse{}, contracterrors.ErrInvalidStatus
	}
	end, err := parseOptionalDate(req.EndDate)
	if err != nil {
		return ContractResponse{}, err
	}
	var rate *decimal.Decimal
	if req.SalaryRate != nil {
		d, err := money.ParseNonNegative(*req.SalaryRate)
		if err != nil {
			return ContractResponse{}, contracterrors.ErrInvalidSalaryRate
		}
		rate = &d
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("update contract begin tx failed", zap.Error(err))
		return ContractResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	c, err := qtx.FindByID(ctx, contractID)
	if err != nil {
		if database.IsNotFound(err) {
			return ContractResponse{}, contracterrors.ErrContractNotFound
		}
		return ContractResponse{}, err
	}

	if req.ContractType != nil {
		c.ContractType = *req.ContractType
	}
	if end != nil {
		if end.Before(c.StartDate) {
			return ContractResponse{}, contracterrors.ErrInvalidDateRange
		}
		c.EndDate = end
	}
	if req.Status != nil && *req.Status != c.Status {
		if *req.Status == StatusActive {
			active, err := qtx.HasActiveContract(ctx, c.EmployeeID, &c.ID)
			if err != nil {
				return ContractResponse{}, err
			}
			if active {
				log.Warn("activate contract rejected: active contract exists", zap.String("contract_id", id))
				return ContractResponse{}, contracterrors.ErrActiveContractExists
			}
		}
		c.Status = *req.Status
	}

	now := s.now()
	if rate != nil && !rate.Equal(c.SalaryRate) {
		reason := req.Reason
		if reason == "" {
			reason = defaultRateChangeReason
		}
		if err := s.historyRepo.WithTx(tx).RecordHistory(ctx, &salaryconfig.SalaryHistory{
			ID:         uuid.New(),
			EmployeeID: c.EmployeeID,
			OldSalary:  c.SalaryRate,
			NewSalary:  *rate,
			ChangeDate: now,
			Reason:     reason,
		}); err != nil {
			log.Error("update contract history failed", zap.Error(err))
			return ContractResponse{}, err
		}
		c.SalaryRate = *rate
	}
	c.UpdatedAt = now

	if err := qtx.Update(ctx, c); err != nil {
		log.Error("update contract persist failed", zap.Error(err))
		return ContractResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("update contract commit failed", zap.Error(err))
		return ContractResponse{}, err
	}

	log.Info("contract updated", zap.String("contract_id", id), zap.String("status", c.Status))
	return mapToResponse(*c), nil
}

func (s *service) GetAll(ctx context.Context, employeeID string) ([]ContractResponse, error) {
	var filter *uuid.UUID
	if employeeID != "" {
		id, err := uuid.Parse(employeeID)
		if err != nil {
			return nil, contracterrors.ErrInvalidEmployeeID
		}
		filter = &id
	}

	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list contracts failed", zap.Error(err))
		return nil, err
	}

	res := make([]ContractResponse, len(rows))
	for i, c := range rows {
		res[i] = mapToResponse(c)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (ContractResponse, error) {
	contractID, err := uuid.Parse(id)
	if err != nil {
		return ContractResponse{}, contracterrors.ErrInvalidContractID
	}

	c, err := s.repo.FindByID(ctx, contractID)
	if err != nil {
		if database.IsNotFound(err) {
			return ContractResponse{}, contracterrors.ErrContractNotFound
		}
		return ContractResponse{}, err
	}
	return mapToResponse(*c), nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := dateutil.ParseDate(*s)
	if err != nil {
		return nil, contracterrors.ErrInvalidDateFormat
	}
	return &t, nil
}

func mapRepositoryError(err error) error {
	switch {
	case database.IsUniqueViolation(err, uqOneActive):
		return contracterrors.ErrActiveContractExists
	case database.IsUniqueViolation(err, uqContractNumber):
		return contracterrors.ErrContractNumberExists
	}
	return err
}

func mapToResponse(c Contract) ContractResponse {
	res := ContractResponse{
		ID:             c.ID.String(),
		EmployeeID:     c.EmployeeID.String(),
		ContractNumber: c.ContractNumber,
		ContractType:   c.ContractType,
		StartDate:      dateutil.Format(c.StartDate),
		Status:         c.Status,
		SalaryRate:     money.Format(c.SalaryRate),
	}
	if c.EndDate != nil {
		end := dateutil.Format(*c.EndDate)
		res.EndDate = &end
	}
	if c.Employee != nil {
		res.EmployeeName = c.Employee.FullName()
	}
	return res
}
