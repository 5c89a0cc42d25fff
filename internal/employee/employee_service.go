package employee

import (
	"context"
	"encoding/json"
	"time"

	employeeerrors "hris-payroll/internal/employee/errors"
	"hris-payroll/internal/shared/contextutil"
	"hris-payroll/internal/shared/database"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const EmployeeOptionsKey = "employees:options"

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeOption, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	empID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	emp, err := s.repo.FindByID(ctx, empID)
	if err != nil {
		if database.IsNotFound(err) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		contextutil.GetLogger(ctx, s.logger).Error("get employee failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, err
	}

	return mapToResponse(*emp), nil
}

func (s *service) GetOptions(ctx context.Context) ([]EmployeeOption, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, EmployeeOptionsKey).Result(); err == nil {
			var resp []EmployeeOption
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(EmployeeOptionsKey, func() (any, error) {
		emps, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, err
		}

		resp := make([]EmployeeOption, len(emps))
		for i, e := range emps {
			resp[i] = EmployeeOption{ID: e.ID.String(), FullName: e.FullName()}
		}

		// master data, an hour of staleness is acceptable
		if s.rdb != nil {
			if raw, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, EmployeeOptionsKey, string(raw), time.Hour)
			}
		}
		return resp, nil
	})
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list employee options failed", zap.Error(err))
		return nil, err
	}
	return v.([]EmployeeOption), nil
}

func mapToResponse(e Employee) EmployeeResponse {
	res := EmployeeResponse{
		ID:             e.ID.String(),
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Email:          e.Email,
		DepartmentName: e.DepartmentName(),
	}
	if e.Position != nil {
		res.PositionName = e.Position.Name
	}
	return res
}
