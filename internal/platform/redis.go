package platform

import (
	"context"
	"errors"

	redis "github.com/redis/go-redis/v9"
)

// RedisStorage keeps items in Redis under farmcash:storage:<visitor>:<key>.
// Keys never expire.
type RedisStorage struct {
	client  *redis.Client
	visitor string
}

func NewRedisStorage(client *redis.Client, visitor string) *RedisStorage {
	return &RedisStorage{client: client, visitor: visitor}
}

func (s *RedisStorage) key(k string) string {
	return "farmcash:storage:" + s.visitor + ":" + k
}

func (s *RedisStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStorage) SetItem(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *RedisStorage) RemoveItem(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}
