package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jrc-server/internal/replay"
)

// withReplay находит план в истории и передаёт его реплей в действие.
func (h *PlanHandler) withReplay(action func(*replay.Replay) replay.Snapshot) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := h.replays.Get(c.Param("id"), h.store.GetPlan)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, action(r))
	}
}

func (h *PlanHandler) replaySnapshot() gin.HandlerFunc {
	return h.withReplay((*replay.Replay).Snapshot)
}

func (h *PlanHandler) replayPlay() gin.HandlerFunc {
	return h.withReplay((*replay.Replay).Play)
}

func (h *PlanHandler) replayReset() gin.HandlerFunc {
	return h.withReplay((*replay.Replay).Reset)
}

func (h *PlanHandler) replayToggle() gin.HandlerFunc {
	return h.withReplay((*replay.Replay).Toggle)
}
