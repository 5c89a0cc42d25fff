package rbac

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	getEmployeePermissionsFn func(ctx context.Context, employeeID string) ([]PositionPermissionRow, error)
}

func (f *fakeRepo) GetEmployeePermissions(ctx context.Context, employeeID string) ([]PositionPermissionRow, error) {
	return f.getEmployeePermissionsFn(ctx, employeeID)
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	enforcer, err := NewEnforcer()
	require.NoError(t, err)
	return NewService(repo, enforcer, zap.NewNop())
}

func TestRBACService_Enforce(t *testing.T) {
	repo := &fakeRepo{
		getEmployeePermissionsFn: func(ctx context.Context, employeeID string) ([]PositionPermissionRow, error) {
			switch employeeID {
			case "hr-1":
				return []PositionPermissionRow{
					{PositionID: "pos-hr", PermissionName: "manage:payroll"},
					{PositionID: "pos-hr", PermissionName: "read:attendance"},
				}, nil
			case "admin-1":
				return []PositionPermissionRow{{PositionID: "pos-admin", PermissionName: "manage:system"}}, nil
			default:
				return nil, nil
			}
		},
	}
	svc := newTestService(t, repo)
	ctx := context.Background()

	tests := []struct {
		name string
		req  EnforceRequest
		want bool
	}{
		{"manage implies write", EnforceRequest{EmployeeID: "hr-1", Resource: "payroll", Action: "write"}, true},
		{"exact read", EnforceRequest{EmployeeID: "hr-1", Resource: "attendance", Action: "read"}, true},
		{"read does not imply manage", EnforceRequest{EmployeeID: "hr-1", Resource: "attendance", Action: "manage"}, false},
		{"other resource denied", EnforceRequest{EmployeeID: "hr-1", Resource: "leave", Action: "manage"}, false},
		{"system grants everything", EnforceRequest{EmployeeID: "admin-1", Resource: "leave", Action: "manage"}, true},
		{"no position", EnforceRequest{EmployeeID: "emp-9", Resource: "payroll", Action: "read"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := svc.Enforce(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, allowed)
		})
	}
}

func TestRBACService_PolicyIsPerEmployee(t *testing.T) {
	repo := &fakeRepo{
		getEmployeePermissionsFn: func(ctx context.Context, employeeID string) ([]PositionPermissionRow, error) {
			if employeeID == "hr-1" {
				return []PositionPermissionRow{{PositionID: "pos-hr", PermissionName: "manage:payroll"}}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(t, repo)
	ctx := context.Background()

	allowed, err := svc.Enforce(ctx, EnforceRequest{EmployeeID: "hr-1", Resource: "payroll", Action: "manage"})
	require.NoError(t, err)
	assert.True(t, allowed)

	// a previous employee's grants must not leak into the next check
	allowed, err = svc.Enforce(ctx, EnforceRequest{EmployeeID: "emp-2", Resource: "payroll", Action: "manage"})
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRBACService_RepoError(t *testing.T) {
	repo := &fakeRepo{
		getEmployeePermissionsFn: func(ctx context.Context, employeeID string) ([]PositionPermissionRow, error) {
			return nil, errors.New("db down")
		},
	}
	svc := newTestService(t, repo)

	allowed, err := svc.Enforce(context.Background(), EnforceRequest{EmployeeID: "x", Resource: "payroll", Action: "read"})
	assert.Error(t, err)
	assert.False(t, allowed)
}

func TestRBACService_Permissions(t *testing.T) {
	repo := &fakeRepo{
		getEmployeePermissionsFn: func(ctx context.Context, employeeID string) ([]PositionPermissionRow, error) {
			return []PositionPermissionRow{
				{PositionID: "pos-mgr", PermissionName: "manage:leave"},
				{PositionID: "pos-mgr", PermissionName: "bogus"},
			}, nil
		},
	}
	svc := newTestService(t, repo)

	perms, err := svc.Permissions(context.Background(), "mgr-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"manage:leave"}, perms)
}
