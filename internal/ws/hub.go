package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/founderbridge/backend/internal/goroutine"
	"github.com/founderbridge/backend/internal/logger"
)

// Типы сообщений, которые получает браузер.
const (
	EventAuthState    = "auth_state"
	EventNavigate     = "navigate"
	EventNotification = "notification"
)

// ErrHubStopped — главный цикл хаба уже завершён.
var ErrHubStopped = errors.New("ws: хаб остановлен")

// Hub управляет WebSocket клиентами, сгруппированными по браузерной сессии.
// Все вкладки одной сессии получают одни и те же сообщения.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	stopped    chan struct{}
	stopOnce   sync.Once
}

type message struct {
	sid     string
	payload []byte
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 64),
		stopped:    make(chan struct{}),
	}
}

// Run запускает главный цикл хаба до отмены ctx.
// После остановки Publish возвращает ErrHubStopped, а Register и Unregister
// ничего не делают.
func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.stopped) })

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.sid, msg.payload)
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.stopped:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stopped:
	}
}

// Publish отправляет событие всем вкладкам сессии.
// Формат: {"type": event, "data": data}.
func (h *Hub) Publish(sid, event string, data any) error {
	raw, err := json.Marshal(map[string]any{
		"type": event,
		"data": data,
	})
	if err != nil {
		return fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}

	select {
	case <-h.stopped:
		return ErrHubStopped
	default:
	}
	select {
	case h.broadcast <- message{sid: sid, payload: raw}:
		return nil
	case <-h.stopped:
		return ErrHubStopped
	}
}

// connected возвращает число открытых соединений сессии.
func (h *Hub) connected(sid string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sid])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.sid]; !ok {
		h.clients[client.sid] = make(map[*Client]struct{})
	}
	h.clients[client.sid][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.sid]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.sid)
		}
	}
}

func (h *Hub) send(sid string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients[sid]) == 0 {
		logger.WithSession(sid).Debug("ws: нет открытых вкладок, сообщение пропущено")
		return
	}
	for client := range h.clients[sid] {
		select {
		case client.send <- payload:
		default:
			// Медленный клиент: закрываем вне цикла хаба.
			c := client
			goroutine.SafeGo("ws.close", c.Close)
		}
	}
}
