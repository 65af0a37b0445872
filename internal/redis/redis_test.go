package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	var c *Cache
	c.Set(ctx, "events", "page=1", []byte("[]"))
	c.Invalidate(ctx, "events")
	_, ok := c.Get(ctx, "events", "page=1")
	assert.False(t, ok)

	c = NewCache(nil, time.Minute)
	_, ok = c.Get(ctx, "events", "page=1")
	assert.False(t, ok)
}

func TestLockerWithoutRedis(t *testing.T) {
	l := NewLocker(nil)
	ok, err := l.Acquire(context.Background(), "reminder:1:100", time.Hour)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestVersionKey(t *testing.T) {
	assert.Equal(t, "list:studies:version", versionKey("studies"))
}
