package attachment

import (
	"net/http"

	"github.com/Taanawutana-gai/LMS/internal/middleware"
	"github.com/Taanawutana-gai/LMS/internal/shared/apperror"
	"github.com/Taanawutana-gai/LMS/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Get(c *gin.Context) {
	a, err := h.store.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, a.Data)
}

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	attachments := r.Group("/attachments")
	attachments.Use(middleware.AuthMiddleware())
	{
		attachments.GET("/:id", handler.Get)
	}
}
