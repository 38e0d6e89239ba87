package store

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// redisAdapter adapts go-redis to the Redis seam
type redisAdapter struct {
	client *redis.Client
}

func newRedisAdapter(cfg RedisConfig) *redisAdapter {
	return &redisAdapter{
		client: redis.NewClient(&redis.Options{
			Addr: cfg.Addr,
			DB:   cfg.DB,
		}),
	}
}

// Publish sends payload to channel; subscribers on other nodes fan it out locally
func (r *redisAdapter) Publish(ctx context.Context, channel string, payload []byte) error {
	return r.client.Publish(ctx, channel, payload).Err()
}

// Ping satisfies Pinger for Guard
func (r *redisAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisAdapter) Close() error {
	return r.client.Close()
}
