package leave

import (
	"hris-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	leave := r.Group("/leave")
	{
		leave.GET("/types", h.Types)
		leave.GET("/balance", h.Balance)
		leave.GET("/my-requests", h.MyRequests)
		leave.POST("/request", h.Submit)

		leave.GET("/pending-requests", middleware.RBACAuthorize(rbacService, "leave", "manage"), h.PendingRequests)
		leave.PATCH("/request/:id/approve", middleware.RBACAuthorize(rbacService, "leave", "manage"), h.Decide)
	}
}
