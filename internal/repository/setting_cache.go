package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const settingCacheKeyPrefix = "settings:cache:"

// SettingCache is a redis lookaside cache for setting values.
type SettingCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

type settingCache struct {
	client *redis.Client
}

// NewSettingCache builds the cache.
func NewSettingCache(client *redis.Client) SettingCache {
	return &settingCache{client: client}
}

func (c *settingCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, settingCacheKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("setting cache get: %w", err)
	}
	return value, true, nil
}

func (c *settingCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, settingCacheKeyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("setting cache set: %w", err)
	}
	return nil
}

func (c *settingCache) Invalidate(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, settingCacheKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("setting cache invalidate: %w", err)
	}
	return nil
}
