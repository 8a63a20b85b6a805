package identity

import (
	"context"
	"errors"
	"sync"

	"github.com/founderbridge/backend/internal/models"
)

// ErrNoSubscribers — события входа некому обрабатывать.
var ErrNoSubscribers = errors.New("identity: у брокера нет подписчиков")

// AuthEvent — смена состояния аутентификации браузерной сессии.
// User == nil означает выход.
type AuthEvent struct {
	SID  string
	User *models.AuthenticatedUser
	Flow Flow
}

type subscriber struct {
	ch   chan AuthEvent
	done chan struct{}
	once sync.Once
}

// Broker раздаёт AuthEvent всем подписчикам.
type Broker struct {
	mu   sync.RWMutex
	next uint64
	subs map[uint64]*subscriber
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[uint64]*subscriber)}
}

// Subscribe возвращает канал событий и функцию отписки.
// Отписка идемпотентна и разблокирует зависший Publish.
func (b *Broker) Subscribe(buffer int) (<-chan AuthEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	sub := &subscriber{ch: make(chan AuthEvent, buffer), done: make(chan struct{})}
	b.subs[id] = sub

	return sub.ch, func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
		sub.once.Do(func() { close(sub.done) })
	}
}

// Publish доставляет событие каждому подписчику, ожидая места в буфере.
func (b *Broker) Publish(ctx context.Context, ev AuthEvent) error {
	b.mu.RLock()
	subs := make([]*subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	for _, s := range subs {
		select {
		case s.ch <- ev:
		case <-s.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribers возвращает число активных подписок.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Ping используется в /health: без подписчика вход не доведёт пользователя до дашборда.
func (b *Broker) Ping(context.Context) error {
	if b.Subscribers() == 0 {
		return ErrNoSubscribers
	}
	return nil
}
