package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apppromo "github.com/oilmart/backend/internal/application/promotion"
	"github.com/oilmart/backend/internal/domain/promotion"
	"github.com/redis/go-redis/v9"
)

// couponKeyPrefix namespaces coupon entries in the shared Redis instance
const couponKeyPrefix = "coupon:code:"

// defaultCouponTTL bounds how stale a cached coupon can get. Writes
// invalidate eagerly, so the TTL only covers missed invalidations.
const defaultCouponTTL = 5 * time.Minute

// RedisCouponCache implements the coupon cache on Redis, serializing
// coupons as JSON
type RedisCouponCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCouponCache creates a Redis-backed coupon cache
func NewRedisCouponCache(client *redis.Client) *RedisCouponCache {
	return &RedisCouponCache{client: client, ttl: defaultCouponTTL}
}

// Get returns the cached coupon for a normalized code, or nil on miss
func (c *RedisCouponCache) Get(ctx context.Context, code string) (*promotion.Coupon, error) {
	data, err := c.client.Get(ctx, couponKeyPrefix+promotion.NormalizeCode(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("coupon cache get: %w", err)
	}

	var coupon promotion.Coupon
	if err := json.Unmarshal(data, &coupon); err != nil {
		// A corrupt entry behaves like a miss and gets overwritten on
		// the next fill
		return nil, nil
	}
	return &coupon, nil
}

// Set caches a coupon under its normalized code
func (c *RedisCouponCache) Set(ctx context.Context, coupon *promotion.Coupon) error {
	data, err := json.Marshal(coupon)
	if err != nil {
		return fmt.Errorf("coupon cache set: %w", err)
	}
	return c.client.Set(ctx, couponKeyPrefix+coupon.Code, data, c.ttl).Err()
}

// Invalidate drops a code from the cache
func (c *RedisCouponCache) Invalidate(ctx context.Context, code string) error {
	return c.client.Del(ctx, couponKeyPrefix+promotion.NormalizeCode(code)).Err()
}

// NoopCouponCache satisfies the cache interface when caching is
// disabled. Every lookup is a miss.
type NoopCouponCache struct{}

// NewNoopCouponCache creates a NoopCouponCache
func NewNoopCouponCache() *NoopCouponCache {
	return &NoopCouponCache{}
}

// Get always misses
func (NoopCouponCache) Get(context.Context, string) (*promotion.Coupon, error) { return nil, nil }

// Set discards the coupon
func (NoopCouponCache) Set(context.Context, *promotion.Coupon) error { return nil }

// Invalidate does nothing
func (NoopCouponCache) Invalidate(context.Context, string) error { return nil }

var _ apppromo.CouponCache = (*RedisCouponCache)(nil)
var _ apppromo.CouponCache = (*NoopCouponCache)(nil)
