package rbac

import "github.com/gin-gonic/gin"

// RegisterRoutes expects r to be already behind the auth middleware.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/rbac")
	{
		group.GET("/check", handler.Check)
		group.GET("/me", handler.MyPermissions)
	}
}
