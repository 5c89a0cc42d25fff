package rbac

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetEmployeePermissions(ctx context.Context, employeeID string) ([]PositionPermissionRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// PositionPermissionRow carries a permission name in "action:resource" form,
// e.g. "manage:payroll".
type PositionPermissionRow struct {
	PositionID     string `gorm:"column:position_id"`
	PermissionName string `gorm:"column:permission_name"`
}

func (r *repository) GetEmployeePermissions(ctx context.Context, employeeID string) ([]PositionPermissionRow, error) {
	var result []PositionPermissionRow

	err := r.db.WithContext(ctx).
		Table("employees").
		Select("employees.position_id, permissions.name AS permission_name").
		Joins("JOIN position_permissions ON position_permissions.position_id = employees.position_id").
		Joins("JOIN permissions ON permissions.id = position_permissions.permission_id").
		Where("employees.id = ?", employeeID).
		Scan(&result).Error

	return result, err
}
