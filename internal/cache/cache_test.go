package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestCache(t *testing.T) (*Cache, *time.Time) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	c := New(ctx)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCache_SetGetExpiry(t *testing.T) {
	c, now := newTestCache(t)

	c.Set("k", 1, time.Minute)
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	*now = now.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCache_PopIsOneShot(t *testing.T) {
	c, _ := newTestCache(t)

	c.Set(RedirectResultKey("s1"), "result", time.Minute)

	v, ok := c.Pop(RedirectResultKey("s1"))
	assert.True(t, ok)
	assert.Equal(t, "result", v)

	_, ok = c.Pop(RedirectResultKey("s1"))
	assert.False(t, ok)
}

func TestCache_PopExpired(t *testing.T) {
	c, now := newTestCache(t)

	c.Set("k", 1, time.Second)
	*now = now.Add(time.Minute)

	_, ok := c.Pop("k")
	assert.False(t, ok)
}

func TestCache_Update(t *testing.T) {
	c, _ := newTestCache(t)

	inc := func(cur any) any {
		n, _ := cur.(int)
		return n + 1
	}
	c.Update("n", time.Minute, inc)
	c.Update("n", time.Minute, inc)

	v, _ := c.Get("n")
	assert.Equal(t, 2, v)
}
