package rbac

import "hris-payroll/internal/domain"

type EnforceRequest = domain.EnforceRequest

type EnforceResponse = domain.EnforceResponse

type PermissionsResponse struct {
	EmployeeID  string   `json:"employee_id"`
	Permissions []string `json:"permissions"`
}
