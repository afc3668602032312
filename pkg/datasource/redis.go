package datasource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis connect retry settings.
const (
	redisRetryAttempts = 3
	redisRetryInterval = 5 * time.Second
)

// RedisSource adapts a Redis client to the Source contract.
type RedisSource struct {
	client redis.UniversalClient
}

// OpenRedis connects to Redis using the given DSN and verifies the
// connection with a ping, retrying a few times before giving up. Redis
// is usually the first dependency up in a deployment, so a short retry
// loop absorbs ordering races at startup.
func OpenRedis(ctx context.Context, dsn string) (*RedisSource, error) {
	opts, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	client := redis.NewClient(opts)

	var pingErr error
	for attempt := 0; attempt < redisRetryAttempts; attempt++ {
		if attempt > 0 {
			if err := wait(ctx, redisRetryInterval); err != nil {
				_ = client.Close()
				return nil, errors.Join(ErrConnectionFailed, err)
			}
		}
		if pingErr = client.Ping(ctx).Err(); pingErr == nil {
			return &RedisSource{client: client}, nil
		}
	}

	_ = client.Close()
	return nil, errors.Join(ErrConnectionFailed, pingErr)
}

// NewRedisSource wraps an already-connected client.
func NewRedisSource(client redis.UniversalClient) *RedisSource {
	return &RedisSource{client: client}
}

// Client exposes the underlying client for callers needing more than
// the Source contract (pub/sub, pipelines).
func (r *RedisSource) Client() redis.UniversalClient { return r.client }

func (r *RedisSource) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return val, err
}

func (r *RedisSource) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisSource) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisSource) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrHealthcheck, err)
	}
	return nil
}

func (r *RedisSource) Close() error { return r.client.Close() }
