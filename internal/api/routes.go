package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует маршруты API. rateLimit применяется к генерации.
func (h *PlanHandler) RegisterRoutes(router *gin.Engine, rateLimit gin.HandlerFunc) {
	if rateLimit == nil {
		rateLimit = func(c *gin.Context) { c.Next() }
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	sessionGroup := router.Group("/api/session")
	{
		sessionGroup.POST("/login", h.login)
		sessionGroup.POST("/logout", h.logout)
		sessionGroup.GET("", h.getSession)
	}

	plansGroup := router.Group("/api/plans", h.RequireSession())
	{
		plansGroup.POST("/generate", rateLimit, h.generatePlan)
		plansGroup.GET("", h.listPlans)
		plansGroup.GET("/:id", h.getPlan)
		plansGroup.DELETE("/:id", h.deletePlan)
		plansGroup.GET("/:id/share", h.sharePlan)
		plansGroup.GET("/:id/replay", h.replaySnapshot())
		plansGroup.POST("/:id/replay/play", h.replayPlay())
		plansGroup.POST("/:id/replay/reset", h.replayReset())
		plansGroup.POST("/:id/replay/toggle", h.replayToggle())
	}

	router.GET("/ws/generate", h.RequireSession(), rateLimit, h.serveGenerateWS)
}
