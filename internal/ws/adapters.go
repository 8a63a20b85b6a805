package ws

import (
	"github.com/founderbridge/backend/internal/logger"
	"github.com/founderbridge/backend/internal/session"
)

// Notification — toast во вкладке.
type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Notifier доставляет уведомления через хаб.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) Error(sid, message string) {
	n.publish(sid, Notification{Level: "error", Message: message})
}

func (n *Notifier) Success(sid, message string) {
	n.publish(sid, Notification{Level: "success", Message: message})
}

func (n *Notifier) publish(sid string, note Notification) {
	if err := n.hub.Publish(sid, EventNotification, note); err != nil {
		logger.WithSession(sid).WithError(err).Warn("ws: уведомление не отправлено")
	}
}

// Navigator доставляет команды навигации и состояние входа.
type Navigator struct {
	hub *Hub
}

func NewNavigator(hub *Hub) *Navigator {
	return &Navigator{hub: hub}
}

func (n *Navigator) Navigate(sid string, nav session.Navigation) {
	if err := n.hub.Publish(sid, EventNavigate, nav); err != nil {
		logger.WithSession(sid).WithError(err).Warn("ws: навигация не отправлена")
	}
}

func (n *Navigator) PushState(sid string, s session.Snapshot) {
	if err := n.hub.Publish(sid, EventAuthState, s); err != nil {
		logger.WithSession(sid).WithError(err).Warn("ws: состояние не отправлено")
	}
}
