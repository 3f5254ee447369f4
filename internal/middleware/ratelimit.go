package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/serenify-companion/pkg/clientip"
)

const (
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting
	RateLimitKeyPrefix = "ratelimit:"
	// BlockedIPKeyPrefix is the Redis key prefix for blocked IPs
	BlockedIPKeyPrefix = "blocked_ip:"
	// BlockedIPDuration is how long an IP stays blocked after exceeding the limit
	BlockedIPDuration = 15 * time.Minute

	redisLimitTimeout = 500 * time.Millisecond
)

// RedisRateLimit is a fixed-window limit shared by every instance through
// Redis. An IP that exceeds maxRequests within window is blocked for
// BlockedIPDuration. Redis errors fail open.
func RedisRateLimit(client *redis.Client, maxRequests int, window time.Duration, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientip.FromRequest(r, trustProxy)
			ctx, cancel := context.WithTimeout(r.Context(), redisLimitTimeout)
			defer cancel()

			blockedKey := BlockedIPKeyPrefix + ip
			if n, err := client.Exists(ctx, blockedKey).Result(); err == nil && n > 0 {
				writeTooMany(w, "Your IP has been temporarily blocked due to excessive requests. Please try again later.", BlockedIPDuration)
				return
			}

			key := RateLimitKeyPrefix + ip
			n, err := client.Incr(ctx, key).Result()
			if err != nil {
				log.Printf("[RateLimit] redis unavailable, allowing request: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if n == 1 {
				// First request opens the window
				client.Expire(ctx, key, window)
			}

			count := int(n)
			if count > maxRequests {
				if err := client.Set(ctx, blockedKey, "1", BlockedIPDuration).Err(); err != nil {
					log.Printf("[RateLimit] failed to block %s: %v", ip, err)
				}
				writeTooMany(w, "Rate limit exceeded. Please try again later.", window)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(maxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(maxRequests-count))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(window).Unix(), 10))
			next.ServeHTTP(w, r)
		})
	}
}

func writeTooMany(w http.ResponseWriter, message string, retryAfter time.Duration) {
	secs := int(retryAfter.Seconds())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(secs))
	w.WriteHeader(http.StatusTooManyRequests)
	w.Write([]byte(fmt.Sprintf(`{"success":false,"message":%q,"retry_after":%d}`, message, secs)))
}

// UnblockIP removes an IP from the blocked list.
func UnblockIP(ctx context.Context, client *redis.Client, ipAddress string) error {
	return client.Del(ctx, BlockedIPKeyPrefix+ipAddress).Err()
}
