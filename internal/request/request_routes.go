package request

import (
	"github.com/Taanawutana-gai/LMS/internal/middleware"
	"github.com/Taanawutana-gai/LMS/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	requests := r.Group("/requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.POST("",
			middleware.RBACAuthorize(rbacService, "leave_request", "create"),
			middleware.RateLimitByStaff(1, 5),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		requests.GET("", middleware.RBACAuthorize(rbacService, "leave_request", "read_own"), handler.GetMine)
		requests.GET("/all", middleware.RBACAuthorize(rbacService, "leave_request", "read_all"), handler.GetAll)
		requests.GET("/export", middleware.RBACAuthorize(rbacService, "leave_request", "export"), handler.Export)
		requests.PATCH("/:id/status", middleware.RBACAuthorize(rbacService, "leave_request", "decide"), handler.UpdateStatus)
	}

	calendar := r.Group("/employees/:staffId/calendar.ics")
	calendar.Use(middleware.AuthMiddleware())
	{
		calendar.GET("", middleware.RBACAuthorize(rbacService, "leave_request", "read_own"), handler.Calendar)
	}
}
