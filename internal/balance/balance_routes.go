package balance

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
	balances := r.Group("/employees/:staffId/balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("", middleware.RBACAuthorize(rbacService, "leave_balance", "read"), handler.GetBalances)
	}
}
