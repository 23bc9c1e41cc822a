package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matthewbaird/admingen/internal/artifact"
)

const keyPrefix = "admingen:artifacts:"

// RedisCache stores artifact sets as JSON with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps a connected client. A zero ttl keeps entries forever.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Dial connects to Redis and checks the connection.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return client, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]artifact.File, bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cached artifacts %s: %w", key, err)
	}
	var files []artifact.File
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, false, fmt.Errorf("decoding cached artifacts %s: %w", key, err)
	}
	return files, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, files []artifact.File) error {
	data, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("encoding artifacts: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("caching artifacts %s: %w", key, err)
	}
	return nil
}
