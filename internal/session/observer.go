// Package session следит за состоянием аутентификации браузерных сессий
// и отправляет пользователя на дашборд выбранной роли.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/founderbridge/backend/internal/identity"
	"github.com/founderbridge/backend/internal/intent"
	"github.com/founderbridge/backend/internal/logger"
	"github.com/founderbridge/backend/internal/models"
)

var ErrAlreadyRunning = errors.New("session: observer already running")

type State string

const (
	StateUnknown       State = "unknown"
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

// Snapshot — состояние сессии, которое видит страница.
type Snapshot struct {
	State   State                     `json:"state"`
	Loading bool                      `json:"loading"`
	User    *models.AuthenticatedUser `json:"user"`
}

// TokenIssuer выпускает токен для состояния навигации.
type TokenIssuer interface {
	GenerateAccess(uid string, role models.Role) (string, error)
}

// Navigator доставляет команды в открытые вкладки сессии.
type Navigator interface {
	Navigate(sid string, nav Navigation)
	PushState(sid string, s Snapshot)
}

// Observer держит единственную подписку на поток событий аутентификации.
type Observer struct {
	broker  *identity.Broker
	intents intent.Store
	tokens  TokenIssuer
	nav     Navigator

	running  atomic.Bool
	mu       sync.RWMutex
	sessions map[string]Snapshot
}

func NewObserver(broker *identity.Broker, intents intent.Store, tokens TokenIssuer, nav Navigator) *Observer {
	return &Observer{
		broker:   broker,
		intents:  intents,
		tokens:   tokens,
		nav:      nav,
		sessions: make(map[string]Snapshot),
	}
}

// Run обрабатывает события по одному до отмены ctx.
// Повторный вызов возвращает ErrAlreadyRunning.
func (o *Observer) Run(ctx context.Context) error {
	if !o.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	events, unsubscribe := o.broker.Subscribe(16)
	defer unsubscribe()

	logger.Get().Info("session: наблюдатель запущен")
	for {
		select {
		case <-ctx.Done():
			logger.Get().Info("session: наблюдатель остановлен")
			return nil
		case ev := <-events:
			o.handle(ctx, ev)
		}
	}
}

// Snapshot возвращает состояние сессии. Хранятся только вошедшие сессии:
// пока наблюдатель запущен, отсутствие записи означает анонимную сессию,
// до запуска о сессии ещё ничего не известно.
func (o *Observer) Snapshot(sid string) Snapshot {
	o.mu.RLock()
	s, ok := o.sessions[sid]
	o.mu.RUnlock()

	switch {
	case ok:
		return s
	case o.running.Load():
		return Snapshot{State: StateAnonymous}
	default:
		return Snapshot{State: StateUnknown, Loading: true}
	}
}

func (o *Observer) handle(ctx context.Context, ev identity.AuthEvent) {
	log := logger.WithSession(ev.SID)

	if ev.User == nil {
		o.forget(ev.SID)
		log.Debug("session: сессия анонимна")
		return
	}

	prev := o.Snapshot(ev.SID)
	if prev.State == StateAuthenticated && prev.User != nil && prev.User.UID == ev.User.UID {
		log.Debug("session: повторное событие для того же пользователя")
		return
	}
	o.set(ev.SID, Snapshot{State: StateAuthenticated, User: ev.User})

	// При входе через редирект роль забирает RedirectCompleter.
	if ev.Flow == identity.FlowRedirect {
		return
	}

	role, err := o.intents.Consume(ctx, ev.SID)
	if err != nil {
		log.WithError(err).Error("session: не удалось прочитать выбранную роль")
		return
	}
	if role == models.RoleNone {
		return
	}

	token, err := o.tokens.GenerateAccess(ev.User.UID, role)
	if err != nil {
		log.WithError(err).Error("session: не удалось выпустить токен")
		return
	}
	o.nav.Navigate(ev.SID, Navigation{
		Path:  RouteFor(role),
		State: &NavState{UID: ev.User.UID, Token: token},
	})
	log.WithField("role", role).Info("session: переход на дашборд")
}

func (o *Observer) set(sid string, s Snapshot) {
	o.mu.Lock()
	o.sessions[sid] = s
	o.mu.Unlock()

	o.nav.PushState(sid, s)
}

func (o *Observer) forget(sid string) {
	o.mu.Lock()
	delete(o.sessions, sid)
	o.mu.Unlock()

	o.nav.PushState(sid, Snapshot{State: StateAnonymous})
}

func (o *Observer) tracked() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.sessions)
}
