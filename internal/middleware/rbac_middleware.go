package middleware

import (
	"net/http"

	"github.com/Taanawutana-gai/LMS/internal/rbac"
	"github.com/Taanawutana-gai/LMS/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACAuthorize gates a route on the authenticated role's permission for
// a (resource, action) pair. Must run after AuthMiddleware.
func RBACAuthorize(rbacService rbac.Service, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not resolved", nil)
			c.Abort()
			return
		}

		allowed, err := rbacService.Authorize(role, resource, action)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Authorization check failed", nil)
			c.Abort()
			return
		}
		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
