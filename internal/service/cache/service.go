package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/makehaven/yearreview/internal/constants"
	"github.com/makehaven/yearreview/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CacheService is the shared key/TTL/tag store for per-member stats and the
// community rollup. Values are stored as JSON; tags are Redis sets of keys so
// that a whole content category can be invalidated at once.
type CacheService struct {
	client *redis.Client
	logger *zap.Logger
}

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewCacheService(cfg CacheConfig, logger *zap.Logger) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &CacheService{
		client: client,
		logger: logger,
	}, nil
}

// Get unmarshals the cached value into dest. The second return reports whether
// the key was present; a miss is not an error.
func (c *CacheService) Get(ctx context.Context, key string, dest any) (bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		c.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return false, errors.NewCacheError("get failed", "get", key, err)
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(value), dest); err != nil {
			c.logger.Error("Cache unmarshal failed", zap.String("key", key), zap.Error(err))
			return false, errors.NewCacheError("unmarshal failed", "get", key, err)
		}
	}

	return true, nil
}

// SetTagged writes a value with an explicit TTL and registers the key under
// each invalidation tag. Unbounded entries are not allowed.
func (c *CacheService) SetTagged(ctx context.Context, key string, value any, ttl time.Duration, tags []string) error {
	if ttl <= 0 {
		return errors.NewCacheError("ttl must be positive", "set", key, nil)
	}

	jsonData, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("marshal failed", "set", key, err)
	}

	if err := c.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		c.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("set failed", "set", key, err)
	}

	for _, tag := range tags {
		tagKey := constants.CacheKeys.TagPrefix + tag
		if err := c.client.SAdd(ctx, tagKey, key).Err(); err != nil {
			c.logger.Error("Cache tag registration failed",
				zap.String("key", key), zap.String("tag", tag), zap.Error(err))
			return errors.NewCacheError("sadd failed", "sadd", tagKey, err)
		}
		// The tag set must outlive every entry it indexes.
		if err := c.client.ExpireGT(ctx, tagKey, ttl).Err(); err != nil {
			c.logger.Warn("Cache tag expire failed",
				zap.String("tag", tag), zap.Error(err))
		}
	}

	return nil
}

// InvalidateTag drops every entry registered under the tag, then the tag set
// itself. Returns the number of entries removed.
func (c *CacheService) InvalidateTag(ctx context.Context, tag string) (int64, error) {
	tagKey := constants.CacheKeys.TagPrefix + tag

	keys, err := c.client.SMembers(ctx, tagKey).Result()
	if err != nil {
		c.logger.Error("Cache tag lookup failed", zap.String("tag", tag), zap.Error(err))
		return 0, errors.NewCacheError("smembers failed", "smembers", tagKey, err)
	}

	if len(keys) == 0 {
		return 0, nil
	}

	deleted, err := c.client.Del(ctx, keys...).Result()
	if err != nil {
		c.logger.Error("Cache tag invalidation failed", zap.String("tag", tag), zap.Error(err))
		return 0, errors.NewCacheError("del failed", "del", tagKey, err)
	}

	if err := c.client.Del(ctx, tagKey).Err(); err != nil {
		c.logger.Warn("Cache tag set cleanup failed", zap.String("tag", tag), zap.Error(err))
	}

	c.logger.Info("Cache tag invalidated",
		zap.String("tag", tag),
		zap.Int64("entries", deleted),
	)
	return deleted, nil
}

func (c *CacheService) Exists(ctx context.Context, key string) (bool, error) {
	count, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		c.logger.Error("Cache exists failed", zap.String("key", key), zap.Error(err))
		return false, errors.NewCacheError("exists failed", "exists", key, err)
	}
	return count > 0, nil
}

func (c *CacheService) Close() error {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis connection", zap.Error(err))
		return err
	}
	c.logger.Info("Redis disconnected")
	return nil
}

func (c *CacheService) IsConnected(ctx context.Context) bool {
	return c.client.Ping(ctx).Err() == nil
}
