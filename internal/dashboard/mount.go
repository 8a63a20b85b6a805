package dashboard

import (
	"context"
	"errors"
	"sync"
)

// ErrUnmounted — вид уже закрыт, результат загрузки выброшен.
var ErrUnmounted = errors.New("dashboard: view unmounted")

// Mount — время жизни одного открытого вида. Загрузка, закончившаяся
// после End, не доставляется.
type Mount struct {
	ctx    context.Context
	cancel context.CancelFunc
	owner  *Mounts
	key    string
}

func (m *Mount) Context() context.Context {
	return m.ctx
}

// Active сообщает, открыт ли ещё вид.
func (m *Mount) Active() bool {
	return m.ctx.Err() == nil
}

// End закрывает вид. Повторный вызов безопасен.
func (m *Mount) End() {
	m.cancel()
	if m.owner != nil {
		m.owner.release(m)
	}
}

// Mounts следит, чтобы у сессии был открыт только один экземпляр каждого вида:
// новый Begin закрывает предыдущий.
type Mounts struct {
	mu     sync.Mutex
	active map[string]*Mount
}

func NewMounts() *Mounts {
	return &Mounts{active: make(map[string]*Mount)}
}

// Begin открывает вид view для сессии sid; parent ограничивает его сверху.
func (ms *Mounts) Begin(parent context.Context, sid, view string) *Mount {
	ctx, cancel := context.WithCancel(parent)
	m := &Mount{ctx: ctx, cancel: cancel, owner: ms, key: sid + "/" + view}

	ms.mu.Lock()
	prev := ms.active[m.key]
	ms.active[m.key] = m
	ms.mu.Unlock()

	if prev != nil {
		prev.cancel()
	}
	return m
}

// count возвращает число открытых видов.
func (ms *Mounts) count() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.active)
}

func (ms *Mounts) release(m *Mount) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.active[m.key] == m {
		delete(ms.active, m.key)
	}
}

// Detached — Mount без реестра, для разовых загрузок.
func Detached(parent context.Context) *Mount {
	ctx, cancel := context.WithCancel(parent)
	return &Mount{ctx: ctx, cancel: cancel}
}
