package cache

import (
	"log/slog"

	"github.com/go-redis/redis"
)

// New connects to Redis. An empty address or a failed ping returns nil so
// callers degrade to direct store reads; Redis is only ever a cache here.
func New(addr string) *redis.Client {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping().Err(); err != nil {
		slog.Warn("redis unavailable, caching disabled", "addr", addr, "err", err)
		return nil
	}
	return rdb
}
