package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jrc-server/internal/messaging"
	"jrc-server/internal/model"
	"jrc-server/internal/render"
)

func (h *PlanHandler) generatePlan(c *gin.Context) {
	var req model.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid generation request body", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ErrorResponse{
			Code:    model.ErrCodeBadRequest,
			Message: fmt.Sprintf("invalid request body: %v", err),
		})
		return
	}

	session := sessionFrom(c)
	plan, err := h.generateAndRecord(c.Request.Context(), session.ID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *PlanHandler) listPlans(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.History())
}

func (h *PlanHandler) getPlan(c *gin.Context) {
	plan, err := h.store.GetPlan(c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) deletePlan(c *gin.Context) {
	id := c.Param("id")
	deleted, err := h.store.DeletePlan(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if deleted {
		h.replays.Drop(id)
		h.publish(c.Request.Context(), messaging.NewPlanDeletedEvent(sessionFrom(c).ID, id))
	}
	c.Status(http.StatusNoContent)
}

func (h *PlanHandler) sharePlan(c *gin.Context) {
	plan, err := h.store.GetPlan(c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	text := render.ShareSummary(plan, h.catalog.ShareLabels(h.cfg.Language))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}
