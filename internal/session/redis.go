package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

const redisKeyPrefix = "portal:session:"

// RedisStore keeps sessions as JSON strings with a TTL
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects and pings the server
func NewRedisStore(ctx context.Context, opts *redis.Options) (*RedisStore, error) {
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return &RedisStore{client: client}, nil
}

// Load implements Store
func (r *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return decode(data)
}

// Save implements Store
func (r *RedisStore) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	data, err := s.encode()
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, redisKeyPrefix+s.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete implements Store
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close implements Store
func (r *RedisStore) Close() error {
	return r.client.Close()
}
