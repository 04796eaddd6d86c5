package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jrc-server/internal/model"
)

func (h *PlanHandler) login(c *gin.Context) {
	session, err := h.store.Login(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *PlanHandler) logout(c *gin.Context) {
	if err := h.store.Logout(c.Request.Context()); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlanHandler) getSession(c *gin.Context) {
	session, ok := h.store.CurrentSession()
	if !ok {
		h.handleServiceError(c, model.ErrNoSession)
		return
	}
	c.JSON(http.StatusOK, session)
}
