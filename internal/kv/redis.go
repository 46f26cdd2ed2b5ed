package kv

import (
	"context"

	infraRedis "affordhostel/internal/infra/kv/redis"
)

// RedisConfig re-exports the infra Redis configuration.
type RedisConfig = infraRedis.Config

// NewRedis connects to Redis and returns a kv.Store.
func NewRedis(ctx context.Context, cfg RedisConfig) (Store, error) {
	return infraRedis.New(ctx, cfg)
}
