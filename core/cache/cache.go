package cache

import (
	"context"
	"fmt"
	"time"

	"quickmeet-api/core/config"
	"quickmeet-api/core/logger"

	"github.com/redis/go-redis/v9"
)

const (
	activeMeetupsKeyPrefix = "meetups:active:"
	activeMeetupsTTL       = 30 * time.Second

	sweepLockKey = "sweeper:lock"
)

// Cache wraps the redis client with the few operations the service needs.
// It is a read-path accelerator only: every value it holds is recomputable
// from the database.
type Cache struct {
	client *redis.Client
}

var instance *Cache

func InitCache(cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis initialized successfully", "addr", cfg.Addr)
	instance = &Cache{client: client}
	return instance, nil
}

func GetCache() *Cache {
	return instance
}

// GetActiveMeetups returns the cached discovery payload for a canonical
// location key, or ("", nil) on a miss.
func (c *Cache) GetActiveMeetups(ctx context.Context, locationKey string) (string, error) {
	val, err := c.client.Get(ctx, activeMeetupsKeyPrefix+locationKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// SetActiveMeetups stores the discovery payload for a canonical location
// key with a short TTL.
func (c *Cache) SetActiveMeetups(ctx context.Context, locationKey, payload string) error {
	return c.client.Set(ctx, activeMeetupsKeyPrefix+locationKey, payload, activeMeetupsTTL).Err()
}

// InvalidateActiveMeetups drops the cached discovery payload for a
// canonical location key. Called on create, expire and reinstate.
func (c *Cache) InvalidateActiveMeetups(ctx context.Context, locationKey string) error {
	return c.client.Del(ctx, activeMeetupsKeyPrefix+locationKey).Err()
}

// AcquireSweepLock takes the cross-instance sweep lock. Returns false when
// another instance holds it; the caller skips the tick.
func (c *Cache) AcquireSweepLock(ctx context.Context, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, sweepLockKey, time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

// ReleaseSweepLock drops the sweep lock early.
func (c *Cache) ReleaseSweepLock(ctx context.Context) error {
	return c.client.Del(ctx, sweepLockKey).Err()
}
