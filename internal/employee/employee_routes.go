package employee

import (
	"github.com/Taanawutana-gai/LMS/internal/middleware"
	"github.com/Taanawutana-gai/LMS/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	employees := r.Group("/employees")
	{
		// pre-login surface: the client only holds a verified chat
		// identity at this point
		employees.GET("/status", handler.CheckUserStatus)
		employees.POST("/link", handler.LinkLineID)

		authed := employees.Group("")
		authed.Use(middleware.AuthMiddleware())
		{
			authed.GET("/:staffId", middleware.RBACAuthorize(rbacService, "profile", "read"), handler.GetProfile)
		}
	}

	diagnostics := r.Group("/diagnostics")
	diagnostics.Use(middleware.AuthMiddleware())
	{
		diagnostics.GET("/directory", middleware.RBACAuthorize(rbacService, "directory", "inspect"), handler.DirectorySnapshot)
	}
}
