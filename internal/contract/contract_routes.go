package contract

import (
	"hris-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	contracts := r.Group("/contracts")
	{
		contracts.GET("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "contract", "read"),
			handler.GetAll,
		)
		contracts.GET("/:id",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "contract", "read"),
			handler.GetById,
		)
		contracts.POST("",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, "contract", "manage"),
			handler.Create,
		)
		contracts.PATCH("/:id",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, "contract", "manage"),
			handler.Update,
		)
	}
}
