package api

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"jrc-server/internal/model"
	"jrc-server/internal/prompts"
)

const (
	requestIDHeader = "X-Request-ID"
	ctxKeySession   = "session"
)

// ZapLoggingMiddleware логирует запросы через zap. /health и /metrics не логируются.
func ZapLoggingMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/health" || path == "/metrics" {
			c.Next()
			return
		}

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		start := time.Now()
		c.Next()

		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}
		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.String("request_id", requestID),
		}

		if len(c.Errors) > 0 {
			for _, ginErr := range c.Errors.ByType(gin.ErrorTypeAny) {
				log.Error("Request error", append(fields, zap.Error(ginErr.Err))...)
			}
			return
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error("Server error", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("Client error", fields...)
		default:
			log.Info("Request completed", fields...)
		}
	}
}

// RequireSession пропускает запрос только при активной сессии.
func (h *PlanHandler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := h.store.CurrentSession()
		if !ok {
			h.handleServiceError(c, model.ErrNoSession)
			return
		}
		c.Set(ctxKeySession, session)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) model.Session {
	if v, ok := c.Get(ctxKeySession); ok {
		if s, ok := v.(model.Session); ok {
			return s
		}
	}
	return model.Session{}
}

// NewRateLimitStore возвращает redis-хранилище лимитов, если клиент задан, иначе in-memory.
func NewRateLimitStore(redisClient *redis.Client, perMinute uint) ratelimit.Store {
	if redisClient != nil {
		return ratelimit.RedisStore(&ratelimit.RedisOptions{
			RedisClient: redisClient,
			Rate:        time.Minute,
			Limit:       perMinute,
		})
	}
	return ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: perMinute,
	})
}

// RateLimitMiddleware ограничивает запросы на генерацию по IP клиента.
func (h *PlanHandler) RateLimitMiddleware(store ratelimit.Store) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			h.logger.Warn("Rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.Time("reset_time", info.ResetTime),
				zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{
				Code:    model.ErrCodeRateLimited,
				Message: h.catalog.Message(prompts.MessageRateLimited, h.cfg.Language),
			})
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
}
