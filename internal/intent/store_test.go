package intent

import (
	"context"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/founderbridge/backend/internal/models"
)

func TestMemoryStore_SetOverwrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "sid", models.RoleCandidate))
	require.NoError(t, s.Set(ctx, "sid", models.RoleRecruiter))

	role, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, models.RoleRecruiter, role)
}

func TestMemoryStore_Clear(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "sid", models.RoleCandidate))
	require.NoError(t, s.Clear(ctx, "sid"))

	role, _ := s.Get(ctx, "sid")
	assert.Equal(t, models.RoleNone, role)
}

func TestMemoryStore_SessionsIsolated(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", models.RoleCandidate))

	role, _ := s.Get(ctx, "b")
	assert.Equal(t, models.RoleNone, role)
}

func TestMemoryStore_ConsumeOnce(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "sid", models.RoleRecruiter))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		hits int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			role, err := s.Consume(ctx, "sid")
			if err == nil && role == models.RoleRecruiter {
				mu.Lock()
				hits++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, hits)
	role, _ := s.Get(ctx, "sid")
	assert.Equal(t, models.RoleNone, role)
}

func TestRedisStore_KeyLayout(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	s := NewRedisStore(client, "founderbridge", 0)
	assert.Equal(t, "founderbridge:intent:abc", s.key("abc"))
}

func TestRedisStore_DecodeMissingAndGarbage(t *testing.T) {
	s := &RedisStore{}

	role, err := s.decode("", redis.Nil)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleNone, role)

	role, err = s.decode("admin", nil)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleNone, role)

	role, err = s.decode("candidate", nil)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleCandidate, role)
}
