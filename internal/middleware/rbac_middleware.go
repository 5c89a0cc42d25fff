package middleware

import (
	"context"
	"net/http"

	"hris-payroll/internal/domain"
	"hris-payroll/internal/shared/apperror"
	"hris-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACService is satisfied by rbac.Service; kept local so middleware does
// not import feature packages.
type RBACService interface {
	Enforce(ctx context.Context, req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		employeeID := c.GetString("employee_id")
		if employeeID == "" {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		allowed, err := service.Enforce(c.Request.Context(), domain.EnforceRequest{
			EmployeeID: employeeID,
			Resource:   resource,
			Action:     action,
		})
		if err != nil {
			response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Failed to evaluate permissions", nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, apperror.CodeForbidden, apperror.ErrForbidden.Message, gin.H{
				"required": action + ":" + resource,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// HasPermission reports, without aborting, whether the caller holds
// resource:action. Errors count as "no".
func HasPermission(c *gin.Context, service RBACService, resource, action string) bool {
	allowed, err := service.Enforce(c.Request.Context(), domain.EnforceRequest{
		EmployeeID: c.GetString("employee_id"),
		Resource:   resource,
		Action:     action,
	})
	return err == nil && allowed
}
