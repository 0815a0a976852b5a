package cache

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"go.ngs.io/regrid/internal/logger"
)

const resultPrefix = "regrid:result:"

// ResultCache stores encoded remap responses in Redis.
// A nil *ResultCache is a valid, always-missing cache.
type ResultCache struct {
	rc  *redis.Client
	ttl time.Duration
}

// OpenRedis connects to host:port. An empty host returns nil.
func OpenRedis(host, port, pass string, db int) *redis.Client {
	if host == "" {
		return nil
	}
	if port == "" {
		port = "6379"
	}
	addr := net.JoinHostPort(host, port)
	logger.L().Debug("redis_open", "addr", addr, "db", db)
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

// NewResultCache wraps rc. It returns nil when rc is nil.
// A non-positive ttl selects 10 minutes.
func NewResultCache(rc *redis.Client, ttl time.Duration) *ResultCache {
	if rc == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ResultCache{rc: rc, ttl: ttl}
}

// Get returns the payload stored under key. Redis errors count as misses.
func (c *ResultCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.rc.Get(ctx, resultPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.L().Warn("result_cache_get_failed", "key", key, "err", err)
		}
		return nil, false
	}
	return b, true
}

// Set stores payload under key with the cache TTL.
func (c *ResultCache) Set(ctx context.Context, key string, payload []byte) {
	if c == nil {
		return
	}
	if err := c.rc.Set(ctx, resultPrefix+key, payload, c.ttl).Err(); err != nil {
		logger.L().Warn("result_cache_set_failed", "key", key, "err", err)
	}
}

// TTL returns the expiry applied to new entries.
func (c *ResultCache) TTL() time.Duration {
	if c == nil {
		return 0
	}
	return c.ttl
}
