package adapter

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps redis.UniversalClient so stores can be tested against
// any implementation.
type RedisClient interface {
	redis.UniversalClient
}

// RedisOptions configures the Redis client.
type RedisOptions struct {
	PoolSize        int
	MinIdleConns    int
	ConnMaxIdleTime time.Duration
	MaxRetries      int
}

// NewRedisClient creates a client for a single Redis instance. Connections
// are opened lazily on first use.
func NewRedisClient(addr string, opts *RedisOptions) (RedisClient, error) {
	if addr == "" {
		return nil, errors.New("redis: address is required")
	}

	if opts == nil {
		opts = &RedisOptions{}
	}

	return redis.NewClient(&redis.Options{
		Addr:            addr,
		PoolSize:        opts.PoolSize,
		MinIdleConns:    opts.MinIdleConns,
		ConnMaxIdleTime: opts.ConnMaxIdleTime,
		MaxRetries:      opts.MaxRetries,
	}), nil
}
