// Package cache holds the Redis-backed report cache and distributed locker.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "bizledger"

// reportKey is the cache key of one report in a workplace.
func reportKey(workplaceID, key string) string {
	return fmt.Sprintf("%s:report:%s:%s", keyPrefix, workplaceID, key)
}

// indexKey names the set tracking every report key cached for a workplace.
func indexKey(workplaceID string) string {
	return fmt.Sprintf("%s:reports:%s", keyPrefix, workplaceID)
}

// RedisReportCache stores reports as JSON. Each workplace keeps a set of its
// cached keys so invalidation never needs to SCAN.
type RedisReportCache struct {
	client redis.UniversalClient
}

var _ portsrepo.ReportCache = (*RedisReportCache)(nil)

func NewRedisReportCache(client redis.UniversalClient) *RedisReportCache {
	return &RedisReportCache{client: client}
}

func (c *RedisReportCache) Get(ctx context.Context, workplaceID, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, reportKey(workplaceID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisReportCache) Set(ctx context.Context, workplaceID, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s for cache: %w", key, err)
	}
	full := reportKey(workplaceID, key)
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, full, raw, ttl)
		pipe.SAdd(ctx, indexKey(workplaceID), full)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *RedisReportCache) InvalidateWorkplace(ctx context.Context, workplaceID string) error {
	index := indexKey(workplaceID)
	keys, err := c.client.SMembers(ctx, index).Result()
	if err != nil {
		return fmt.Errorf("redis smembers %s: %w", index, err)
	}
	if err := c.client.Del(ctx, append(keys, index)...).Err(); err != nil {
		return fmt.Errorf("redis del reports of %s: %w", workplaceID, err)
	}
	return nil
}
