package rbac

import (
	"context"
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(ctx context.Context, req EnforceRequest) (bool, error)
	Permissions(ctx context.Context, employeeID string) ([]string, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

// loadEmployeePolicyUnlocked replaces the enforcer policy with the grants of
// a single employee. Callers hold s.mu.
func (s *service) loadEmployeePolicyUnlocked(ctx context.Context, employeeID string) error {
	s.enforcer.ClearPolicy()

	rows, err := s.repo.GetEmployeePermissions(ctx, employeeID)
	if err != nil {
		return err
	}

	grouped := make(map[string]bool)
	for _, row := range rows {
		if !grouped[row.PositionID] {
			if _, err := s.enforcer.AddGroupingPolicy(employeeID, row.PositionID); err != nil {
				return err
			}
			grouped[row.PositionID] = true
		}

		action, resource, ok := strings.Cut(row.PermissionName, ":")
		if !ok {
			s.logger.Warn("skipping malformed permission", zap.String("permission", row.PermissionName))
			continue
		}
		if _, err := s.enforcer.AddPolicy(row.PositionID, resource, action); err != nil {
			return err
		}
	}

	// drop role links left over from the previous employee
	return s.enforcer.BuildRoleLinks()
}

func (s *service) Enforce(ctx context.Context, req EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadEmployeePolicyUnlocked(ctx, req.EmployeeID); err != nil {
		s.logger.Error("failed to load policy", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return false, err
	}

	allowed, err := s.enforcer.Enforce(req.EmployeeID, req.Resource, req.Action)
	if err != nil {
		return false, err
	}

	s.logger.Debug("rbac enforce",
		zap.String("employee_id", req.EmployeeID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) Permissions(ctx context.Context, employeeID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadEmployeePolicyUnlocked(ctx, employeeID); err != nil {
		return nil, err
	}

	perms, err := s.enforcer.GetImplicitPermissionsForUser(employeeID)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(perms))
	for _, p := range perms {
		if len(p) >= 3 {
			out = append(out, p[2]+":"+p[1])
		}
	}
	return out, nil
}
