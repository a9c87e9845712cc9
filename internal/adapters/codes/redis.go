package codes

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LuizzSiqueira/harmony-pets-system/internal/ports/codes"
)

const keyPrefix = "hp:code:"

// redisStore delega a expiração ao TTL do Redis.
type redisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) codes.Store {
	return &redisStore{client: client}
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, keyPrefix+key, value, ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", codes.ErrNotFound
		}
		return "", err
	}
	return v, nil
}

func (s *redisStore) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, keyPrefix+key).Err()
}
