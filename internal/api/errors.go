package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jrc-server/internal/model"
	"jrc-server/internal/prompts"
)

// errorResponse сопоставляет ошибку сервиса со статусом и телом ответа.
// Все ошибки генерации показываются одним локализованным сообщением.
func (h *PlanHandler) errorResponse(err error) (int, model.ErrorResponse) {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, model.ErrorResponse{Code: model.ErrCodeValidation, Message: err.Error()}
	case errors.Is(err, model.ErrGenerationFailed):
		return http.StatusBadGateway, model.ErrorResponse{
			Code:    model.ErrCodeGenerationFailed,
			Message: h.catalog.Message(prompts.MessageGenerationFailed, h.cfg.Language),
		}
	case errors.Is(err, model.ErrPlanNotFound):
		return http.StatusNotFound, model.ErrorResponse{
			Code:    model.ErrCodeNotFound,
			Message: h.catalog.Message(prompts.MessagePlanNotFound, h.cfg.Language),
		}
	case errors.Is(err, model.ErrNoSession):
		return http.StatusUnauthorized, model.ErrorResponse{
			Code:    model.ErrCodeNoSession,
			Message: h.catalog.Message(prompts.MessageNoSession, h.cfg.Language),
		}
	default:
		h.logger.Error("Unhandled internal error", zap.Error(err))
		return http.StatusInternalServerError, model.ErrorResponse{Code: model.ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}
}

func (h *PlanHandler) handleServiceError(c *gin.Context, err error) {
	status, resp := h.errorResponse(err)
	c.AbortWithStatusJSON(status, resp)
}
