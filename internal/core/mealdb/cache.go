package mealdb

import (
	"context"
	"encoding/json"
	"fmt"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ResponseCache stores TheMealDB responses in Redis with a TTL. Cache
// failures are logged and treated as misses so the upstream API remains
// the source of truth when Redis is down.
type ResponseCache struct {
	client *redis.Client
	config *config.RedisConfig
}

// NewResponseCache connects to Redis when caching is enabled; a disabled
// config returns (nil, nil) and the client runs without a response cache.
func NewResponseCache(cfg *config.RedisConfig) (*ResponseCache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &ResponseCache{
		client: client,
		config: cfg,
	}, nil
}

func (c *ResponseCache) Get(ctx context.Context, key string) ([]RecipeSummary, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			common.LogWarn("Failed to read recipe cache", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var recipes []RecipeSummary
	if err := json.Unmarshal(data, &recipes); err != nil {
		common.LogWarn("Failed to decode cached recipes", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return recipes, true
}

func (c *ResponseCache) Set(ctx context.Context, key string, recipes []RecipeSummary) {
	data, err := json.Marshal(recipes)
	if err != nil {
		common.LogWarn("Failed to encode recipes for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.config.TTL).Err(); err != nil {
		common.LogWarn("Failed to write recipe cache", zap.String("key", key), zap.Error(err))
	}
}

// Close releases the Redis connection.
func (c *ResponseCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
