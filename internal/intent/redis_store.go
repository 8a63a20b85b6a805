package intent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/founderbridge/backend/internal/models"
)

// RedisStore хранит роль в Redis, поэтому она переживает перезагрузку страницы и рестарт сервера.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore создаёт хранилище с ключами вида <projectID>:intent:<sid>.
// ttl == 0 — без срока жизни.
func NewRedisStore(client *redis.Client, projectID string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: projectID + ":intent:", ttl: ttl}
}

func (s *RedisStore) key(sid string) string {
	return s.prefix + sid
}

func (s *RedisStore) Set(ctx context.Context, sid string, role models.Role) error {
	if role == models.RoleNone {
		return s.Clear(ctx, sid)
	}
	if err := s.client.Set(ctx, s.key(sid), string(role), s.ttl).Err(); err != nil {
		return fmt.Errorf("intent: set: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, sid string) (models.Role, error) {
	val, err := s.client.Get(ctx, s.key(sid)).Result()
	return s.decode(val, err)
}

func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, s.key(sid)).Err(); err != nil {
		return fmt.Errorf("intent: clear: %w", err)
	}
	return nil
}

// Consume использует GETDEL: два одновременных вызова не получат одну роль дважды.
func (s *RedisStore) Consume(ctx context.Context, sid string) (models.Role, error) {
	val, err := s.client.GetDel(ctx, s.key(sid)).Result()
	return s.decode(val, err)
}

func (s *RedisStore) decode(val string, err error) (models.Role, error) {
	if errors.Is(err, redis.Nil) {
		return models.RoleNone, nil
	}
	if err != nil {
		return models.RoleNone, fmt.Errorf("intent: get: %w", err)
	}
	role, err := models.ParseRole(val)
	if err != nil {
		// Мусор в хранилище считаем отсутствием роли.
		return models.RoleNone, nil
	}
	return role, nil
}
