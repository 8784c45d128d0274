package cache

import (
	"context"
	"drone-route-service/internal/domain"
	"drone-route-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPlanCache stores compiled trip plans as JSON values.
type RedisPlanCache struct {
	Client *redis.Client
}

func NewRedisPlanCache(client *redis.Client) *RedisPlanCache {
	return &RedisPlanCache{Client: client}
}

// DialRedis parses a redis:// URL and verifies the server answers.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("dial redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("dial redis: ping: %w", err)
	}

	return client, nil
}

// Fetch a cached plan; a missing key is not an error.
func (c *RedisPlanCache) Get(ctx context.Context, key string) (_ *domain.TripPlan, _ bool, err error) {
	defer obs.Time(ctx, "plan.cache.Get")(&err)

	if c.Client == nil {
		return nil, false, errors.New("plan cache: client is nil")
	}

	b, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get plan cache key=%q: %w", key, err)
	}

	var plan domain.TripPlan
	if err := json.Unmarshal(b, &plan); err != nil {
		return nil, false, fmt.Errorf("get plan cache key=%q: decode: %w", key, err)
	}

	return &plan, true, nil
}

// Store a plan; a zero ttl keeps it until evicted.
func (c *RedisPlanCache) Put(ctx context.Context, key string, plan *domain.TripPlan, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "plan.cache.Put")(&err)

	if c.Client == nil {
		return errors.New("plan cache: client is nil")
	}
	if plan == nil {
		return errors.New("put plan cache: plan is nil")
	}

	b, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("put plan cache key=%q: encode: %w", key, err)
	}

	if err := c.Client.Set(ctx, key, b, ttl).Err(); err != nil {
		return fmt.Errorf("put plan cache key=%q: %w", key, err)
	}

	return nil
}
