// Package intent хранит роль, выбранную пользователем до входа.
// На одну браузерную сессию приходится не больше одной ожидающей роли.
package intent

import (
	"context"
	"sync"

	"github.com/founderbridge/backend/internal/models"
)

// Store хранит ожидающую роль по идентификатору браузерной сессии.
type Store interface {
	// Set перезаписывает предыдущее значение.
	Set(ctx context.Context, sid string, role models.Role) error
	// Get возвращает models.RoleNone, если роли нет.
	Get(ctx context.Context, sid string) (models.Role, error)
	Clear(ctx context.Context, sid string) error
	// Consume читает и очищает роль за один шаг.
	Consume(ctx context.Context, sid string) (models.Role, error)
}

// MemoryStore — Store в памяти процесса, для разработки и тестов.
type MemoryStore struct {
	mu    sync.Mutex
	roles map[string]models.Role
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{roles: make(map[string]models.Role)}
}

func (s *MemoryStore) Set(_ context.Context, sid string, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if role == models.RoleNone {
		delete(s.roles, sid)
		return nil
	}
	s.roles[sid] = role
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sid string) (models.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.roles[sid], nil
}

func (s *MemoryStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.roles, sid)
	return nil
}

func (s *MemoryStore) Consume(_ context.Context, sid string) (models.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	role := s.roles[sid]
	delete(s.roles, sid)
	return role, nil
}
