package redis

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

// Cache caches public list responses. Each resource has a version counter;
// writes bump it so stale pages are never read again and simply expire.
// A Cache with a nil client is a no-op.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

func versionKey(resource string) string {
	return fmt.Sprintf("list:%s:version", resource)
}

func (c *Cache) pageKey(ctx context.Context, resource, query string) (string, error) {
	version, err := c.client.Get(ctx, versionKey(resource)).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	sum := sha1.Sum([]byte(query))
	return fmt.Sprintf("list:%s:v%d:%s", resource, version, hex.EncodeToString(sum[:8])), nil
}

// Get returns the cached payload for a resource list query.
func (c *Cache) Get(ctx context.Context, resource, query string) ([]byte, bool) {
	if !c.enabled() {
		return nil, false
	}
	key, err := c.pageKey(ctx, resource, query)
	if err != nil {
		log.Warn().Err(err).Str("resource", resource).Msg("cache version lookup failed")
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		}
		return nil, false
	}
	return data, true
}

func (c *Cache) Set(ctx context.Context, resource, query string, payload []byte) {
	if !c.enabled() {
		return
	}
	key, err := c.pageKey(ctx, resource, query)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// Invalidate bumps the resource version.
func (c *Cache) Invalidate(ctx context.Context, resource string) {
	if !c.enabled() {
		return
	}
	if err := c.client.Incr(ctx, versionKey(resource)).Err(); err != nil {
		log.Warn().Err(err).Str("resource", resource).Msg("failed to invalidate list cache")
		return
	}
	log.Debug().Str("resource", resource).Msg("invalidated list cache")
}

// Locker hands out single-use delivery locks across replicas.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type redisLocker struct {
	client *redis.Client
}

func NewLocker(client *redis.Client) Locker {
	if client == nil {
		return localLocker{}
	}
	return &redisLocker{client: client}
}

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, time.Now().Unix(), ttl).Result()
}

// localLocker is used when redis is not configured; a single process needs no lock.
type localLocker struct{}

func (localLocker) Acquire(context.Context, string, time.Duration) (bool, error) { return true, nil }
