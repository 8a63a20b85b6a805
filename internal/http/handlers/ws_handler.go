package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/founderbridge/backend/internal/http/handlers/common"
	"github.com/founderbridge/backend/internal/logger"
	"github.com/founderbridge/backend/internal/ws"
)

// WSHandler отвечает за установку WebSocket соединений вкладок.
type WSHandler struct {
	hub      *ws.Hub
	states   AuthStates
	upgrader websocket.Upgrader
}

// NewWSHandler создаёт новый хэндлер. Подключаться можно только с разрешённых origins.
func NewWSHandler(hub *ws.Hub, states AuthStates, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &WSHandler{
		hub:    hub,
		states: states,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Handle обслуживает GET /api/ws. Вкладка сразу получает текущее состояние входа.
func (h *WSHandler) Handle(c *gin.Context) {
	sid, err := common.SessionID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту.
		logger.WithSession(sid).WithError(err).Debug("ws: upgrade не удался")
		return
	}

	client := ws.NewClient(conn, h.hub, sid)
	h.hub.Register(client)

	if err := h.hub.Publish(sid, ws.EventAuthState, h.states.Snapshot(sid)); err != nil {
		logger.WithSession(sid).WithError(err).Warn("ws: начальное состояние не отправлено")
	}

	client.Run(c.Request.Context())
}
