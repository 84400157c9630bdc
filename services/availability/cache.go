package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinicbook/models"

	"github.com/go-redis/redis/v8"
)

const availabilityCachePrefix = "availability:range:"

// ResultCache holds availability query results for the staleness window.
// Entries are shared read-only across callers; invalidation happens only by
// TTL expiry or an explicit refresh.
type ResultCache interface {
	Get(ctx context.Context, key string) (*models.AvailabilityResult, bool, error)
	Set(ctx context.Context, key string, result *models.AvailabilityResult) error
}

// RedisResultCache is the production ResultCache.
type RedisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisResultCache(client *redis.Client, ttl time.Duration) *RedisResultCache {
	return &RedisResultCache{client: client, ttl: ttl}
}

func (c *RedisResultCache) Get(ctx context.Context, key string) (*models.AvailabilityResult, bool, error) {
	data, err := c.client.Get(ctx, availabilityCachePrefix+key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var result models.AvailabilityResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, false, err
	}
	return &result, true, nil
}

func (c *RedisResultCache) Set(ctx context.Context, key string, result *models.AvailabilityResult) error {
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, availabilityCachePrefix+key, b, c.ttl).Err()
}

// cacheKey identifies one availability query. A response is only ever applied
// to the query it was dispatched for.
func cacheKey(resourceID, startDate, endDate string, duration int) string {
	return fmt.Sprintf("%s:%s:%s:%d", resourceID, startDate, endDate, duration)
}
