package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fleet-dashboard/internal/domain"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const geocodeKeyPrefix = "geocode:"

// RedisGeocodeCache keeps geocode results as JSON values with a TTL, for
// deployments where several backend instances share one cache.
type RedisGeocodeCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisGeocodeCache(rdb *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{rdb: rdb, ttl: ttl}
}

func (c *RedisGeocodeCache) GetMany(ctx context.Context, addresses []string) (map[string]domain.GeocodeResult, error) {
	uniq := uniqueKeys(addresses)
	if len(uniq) == 0 {
		return map[string]domain.GeocodeResult{}, nil
	}

	keys := make([]string, 0, len(uniq))
	for _, a := range uniq {
		keys = append(keys, geocodeKeyPrefix+a)
	}

	values, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: mget: %w", err)
	}

	out := make(map[string]domain.GeocodeResult, len(uniq))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var r domain.GeocodeResult
		if err := json.Unmarshal([]byte(s), &r); err != nil {
			return nil, fmt.Errorf("get geocode cache: decode %q: %w", uniq[i], err)
		}
		out[uniq[i]] = r
	}
	return out, nil
}

func (c *RedisGeocodeCache) PutMany(ctx context.Context, results map[string]domain.GeocodeResult) error {
	if len(results) == 0 {
		return nil
	}

	pipe := c.rdb.Pipeline()
	for addr, r := range results {
		if addr == "" {
			return errors.New("insert geocode cache: empty address key")
		}
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("insert geocode cache: marshal %q: %w", addr, err)
		}
		pipe.Set(ctx, geocodeKeyPrefix+addr, data, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert geocode cache: pipeline: %w", err)
	}
	return nil
}
