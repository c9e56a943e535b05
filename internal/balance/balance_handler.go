package balance

import (
	"net/http"

	"github.com/Taanawutana-gai/LMS/internal/shared/apperror"
	"github.com/Taanawutana-gai/LMS/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("balance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) GetBalances(c *gin.Context) {
	staffID := c.Param("staffId")

	resp, err := h.service.GetBalances(c.Request.Context(), staffID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("balance request failed",
			zap.String("staff_id", staffID),
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
