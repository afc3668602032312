package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "temma:sess:"

// RedisStore persists sessions in Redis with a TTL matching their
// expiry, so Redis evicts what the application would consider expired.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a store backed by the given Redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// redisSession is the serialized form; unexported Session flags (dirty,
// isNew) deliberately do not survive a round trip.
type redisSession struct {
	CreatedAt    time.Time      `json:"created_at"`
	LastActiveAt time.Time      `json:"last_active_at"`
	ExpiresAt    time.Time      `json:"expires_at"`
	Values       map[string]any `json:"values"`
	ID           string         `json:"id"`
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rs redisSession
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil, err
	}
	s := &Session{
		ID:           rs.ID,
		Values:       rs.Values,
		CreatedAt:    rs.CreatedAt,
		LastActiveAt: rs.LastActiveAt,
		ExpiresAt:    rs.ExpiresAt,
	}
	if s.IsExpired() {
		_ = r.Delete(ctx, id)
		return nil, ErrExpired
	}
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}
	raw, err := json.Marshal(redisSession{
		ID:           s.ID,
		Values:       s.Values,
		CreatedAt:    s.CreatedAt,
		LastActiveAt: s.LastActiveAt,
		ExpiresAt:    s.ExpiresAt,
	})
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisKeyPrefix+s.ID, raw, ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, redisKeyPrefix+id).Err()
}
