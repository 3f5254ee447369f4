package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "cache:"
	// DefaultCacheTTL applies when a CacheService is built with a zero TTL
	DefaultCacheTTL = 10 * time.Minute

	dashboardResource        = "dashboard"
	dashboardVersionResource = "dashboard_version"

	// dashboardVersionTTL outlives any in-flight dashboard read by a wide margin.
	dashboardVersionTTL = 24 * time.Hour
)

// setIfVersion writes KEYS[2] only while KEYS[1] (missing counts as "0")
// still holds ARGV[1].
var setIfVersion = redis.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// CacheService stores JSON values in Redis under CacheKeyPrefix.
// It also serves as the dashboard cache.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, ttl time.Duration) *CacheService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CacheService{client: client, ttl: ttl}
}

// Get decodes the cached value into dest. A miss returns (false, nil).
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := c.client.Get(ctx, CacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a value with the service TTL
func (c *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return c.SetWithTTL(ctx, key, value, c.ttl)
}

func (c *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, CacheKeyPrefix+key, jsonData, ttl).Err()
}

// Delete removes a value from cache
func (c *CacheService) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, CacheKeyPrefix+key).Err()
}

func (c *CacheService) GetDashboard(ctx context.Context, userID string) (DashboardSummary, bool, error) {
	var summary DashboardSummary
	ok, err := c.Get(ctx, CacheKey(dashboardResource, userID), &summary)
	if err != nil || !ok {
		return DashboardSummary{}, false, err
	}
	if summary.ByType == nil {
		summary.ByType = make(map[string]TypeBreakdown)
	}
	return summary, true, nil
}

// DashboardVersion returns the user's invalidation counter. Pass it to
// SetDashboard so a summary computed before a write is never cached after it.
func (c *CacheService) DashboardVersion(ctx context.Context, userID string) (int64, error) {
	v, err := c.client.Get(ctx, CacheKeyPrefix+CacheKey(dashboardVersionResource, userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// SetDashboard caches summary unless the dashboard was invalidated since
// version was read.
func (c *CacheService) SetDashboard(ctx context.Context, userID string, version int64, summary DashboardSummary) error {
	jsonData, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	keys := []string{
		CacheKeyPrefix + CacheKey(dashboardVersionResource, userID),
		CacheKeyPrefix + CacheKey(dashboardResource, userID),
	}
	return setIfVersion.Run(ctx, c.client, keys,
		strconv.FormatInt(version, 10), jsonData, c.ttl.Milliseconds()).Err()
}

// InvalidateDashboard bumps the user's version and drops the cached summary.
func (c *CacheService) InvalidateDashboard(ctx context.Context, userID string) error {
	versionKey := CacheKeyPrefix + CacheKey(dashboardVersionResource, userID)
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, versionKey)
	pipe.Expire(ctx, versionKey, dashboardVersionTTL)
	pipe.Del(ctx, CacheKeyPrefix+CacheKey(dashboardResource, userID))
	_, err := pipe.Exec(ctx)
	return err
}

// CacheKey generates a cache key for a specific resource
func CacheKey(resource string, identifier string) string {
	return fmt.Sprintf("%s:%s", resource, identifier)
}
