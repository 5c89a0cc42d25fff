package payroll

import (
	"hris-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RegisterRoutes mounts the authenticated payroll endpoints. generatePerMinute
// bounds how often one user may trigger a generation or run.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
	generatePerMinute int,
) {
	if generatePerMinute <= 0 {
		generatePerMinute = 6
	}
	generateLimit := middleware.RateLimitByUser(rate.Limit(float64(generatePerMinute)/60), 1)

	idempotent := func(c *gin.Context) { c.Next() }
	if rdb != nil {
		idempotent = middleware.Idempotency(rdb)
	}

	payroll := r.Group("/payroll")
	{
		payroll.POST("/generate",
			generateLimit,
			middleware.RBACAuthorize(rbacService, "payroll", "manage"),
			idempotent,
			handler.Generate,
		)
		payroll.POST("/run",
			generateLimit,
			middleware.RBACAuthorize(rbacService, "payroll", "manage"),
			idempotent,
			handler.Run,
		)
		payroll.GET("/list", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.List)

		payroll.POST("/period", middleware.RBACAuthorize(rbacService, "payroll", "manage"), handler.OpenPeriod)
		payroll.GET("/period", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetPeriod)
		payroll.PATCH("/period/:id/status", middleware.RBACAuthorize(rbacService, "payroll", "manage"), handler.UpdatePeriodStatus)
		payroll.GET("/cycle/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.Cycle)

		payroll.GET("/my-payslips", handler.MyPayslips)
		payroll.POST("/payslips/:id/download-token", middleware.RateLimitByUser(1, 5), handler.IssueDownloadToken)
	}
}

// RegisterPublicRoutes mounts the token download outside the auth group.
func RegisterPublicRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/payroll/payslips/download/:token", middleware.RateLimitByIP(2, 10), handler.Download)
}
