package gateway

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the legacy action endpoint. It stays outside
// the authenticated group because the original clients carry no token.
func RegisterRoutes(r gin.IRouter, h *Handler) {
	r.GET("/gas", h.Get)
	r.POST("/gas", h.Post)
}
