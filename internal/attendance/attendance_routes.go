package attendance

import (
	"hris-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	attendance := r.Group("/attendance")
	{
		attendance.GET("/summary", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.Summary)
	}
}
