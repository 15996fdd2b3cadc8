package caching

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "leaseadmin:"

// Key builds a namespaced cache key.
func Key(parts ...string) string {
	return keyPrefix + strings.Join(parts, ":")
}

// CacheService wraps redis for the gateway's three uses: catalog caching,
// session storage and in-flight action guards.
type CacheService interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error

	// SetNX claims a key atomically; false means someone else holds it.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
}

type redisCacheService struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisCacheService(client *redis.Client, logger *zap.Logger) CacheService {
	return &redisCacheService{client: client, logger: logger}
}

func (s *redisCacheService) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *redisCacheService) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisCacheService) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *redisCacheService) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	val, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		// a corrupt entry behaves like a miss, the next write heals it
		s.logger.Warn("dropping corrupt cache entry", zap.String("key", key), zap.Error(err))
		_ = s.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

func (s *redisCacheService) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	buf, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, string(buf), ttl)
}

func (s *redisCacheService) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, value, ttl).Result()
}
