package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"jrc-server/internal/model"
	"jrc-server/internal/service"
)

const (
	// Время, разрешенное для записи сообщения клиенту.
	writeWait = 10 * time.Second
	// Сколько ждём запрос после подключения.
	requestWait = 30 * time.Second
	// Максимальный размер сообщения от клиента.
	maxMessageSize = 4096
)

// Типы сообщений потока генерации.
const (
	wsTypeLoading = "loading"
	wsTypeResult  = "result"
	wsTypeError   = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin проверяет CORS middleware на уровне роутера.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage - сообщение сервера в потоке генерации.
type wsMessage struct {
	Type    string               `json:"type"`
	Message string               `json:"message,omitempty"`
	Plan    *model.GeneratedPlan `json:"plan,omitempty"`
	Error   *model.ErrorResponse `json:"error,omitempty"`
}

type generationResult struct {
	plan *model.GeneratedPlan
	err  error
}

// serveGenerateWS принимает один GenerationRequest, пока идёт генерация шлёт
// сообщения загрузки, затем один result или error и закрывает соединение.
func (h *PlanHandler) serveGenerateWS(c *gin.Context) {
	session := sessionFrom(c)
	log := h.logger.With(zap.String("user_id", session.ID))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrader уже ответил клиенту
		log.Error("Failed to upgrade connection", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(requestWait))

	var req model.GenerationRequest
	if err := conn.ReadJSON(&req); err != nil {
		log.Warn("Failed to read generation request", zap.Error(err))
		h.writeWS(conn, log, wsMessage{Type: wsTypeError, Error: &model.ErrorResponse{
			Code:    model.ErrCodeBadRequest,
			Message: fmt.Sprintf("invalid request: %v", err),
		}})
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	results := make(chan generationResult, 1)
	go func() {
		plan, err := h.generateAndRecord(ctx, session.ID, req)
		results <- generationResult{plan: plan, err: err}
	}()

	rotator := service.NewLoadingRotator(h.catalog.LoadingMessages(h.cfg.Language), h.cfg.LoadingInterval)
	loading := rotator.Start(ctx)

	for {
		select {
		case msg, ok := <-loading:
			if !ok {
				loading = nil
				continue
			}
			if !h.writeWS(conn, log, wsMessage{Type: wsTypeLoading, Message: msg}) {
				// Клиент ушёл: генерация отменяется вместе с ctx.
				return
			}
		case res := <-results:
			cancel()
			if res.err != nil {
				_, resp := h.errorResponse(res.err)
				h.writeWS(conn, log, wsMessage{Type: wsTypeError, Error: &resp})
				return
			}
			h.writeWS(conn, log, wsMessage{Type: wsTypeResult, Plan: res.plan})
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (h *PlanHandler) writeWS(conn *websocket.Conn, log *zap.Logger, msg wsMessage) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		log.Warn("Failed to write websocket message", zap.String("type", msg.Type), zap.Error(err))
		return false
	}
	return true
}
