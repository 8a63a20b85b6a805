package cache

import (
	"context"
	"sync"
	"time"
)

// Cache — in-memory кэш с TTL. Переживает только время жизни процесса.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
}

type entry struct {
	data      any
	expiresAt time.Time
}

// New создаёт кэш и запускает фоновую очистку до отмены ctx.
func New(ctx context.Context) *Cache {
	c := &Cache{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
	go c.cleanup(ctx, 5*time.Minute)
	return c
}

// Get возвращает значение, если оно есть и не истекло.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		return nil, false
	}
	return e.data, true
}

// Set сохраняет значение на ttl.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry{data: value, expiresAt: c.now().Add(ttl)}
}

// Pop возвращает значение и удаляет его за один шаг.
// Второй Pop того же ключа ничего не вернёт.
func (c *Cache) Pop(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	delete(c.entries, key)
	if c.now().After(e.expiresAt) {
		return nil, false
	}
	return e.data, true
}

// Update атомарно меняет значение ключа; fn получает текущее значение (или nil).
func (c *Cache) Update(key string, ttl time.Duration, fn func(current any) any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var current any
	if e, ok := c.entries[key]; ok && !c.now().After(e.expiresAt) {
		current = e.data
	}
	c.entries[key] = &entry{data: fn(current), expiresAt: c.now().Add(ttl)}
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

func (c *Cache) cleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *Cache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Генераторы ключей.

func RedirectResultKey(sid string) string {
	return "redirect:" + sid
}

func SavedListingsKey(sid string) string {
	return "saved:" + sid
}
