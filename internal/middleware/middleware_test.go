package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://serenify.app"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/activities", nil)
	req.Header.Set("Origin", "https://SERENIFY.app")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://SERENIFY.app", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/activities", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeadersAndHostCheck(t *testing.T) {
	h := SecurityHeaders(HostCheck("api.serenify.app")(okHandler))

	req := httptest.NewRequest(http.MethodGet, "http://api.serenify.app:443/health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))

	req = httptest.NewRequest(http.MethodGet, "http://other.host/health", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestIPLimiterOnlyLimitsListedPaths(t *testing.T) {
	limiter := NewIPLimiter(rate.Every(time.Hour), 1)
	h := limiter.Limit(false, "slow down", "/api/auth/signin")(okHandler)

	do := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "203.0.113.1:4000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, do("/api/auth/signin"))
	assert.Equal(t, http.StatusTooManyRequests, do("/api/auth/signin"))
	assert.Equal(t, http.StatusOK, do("/api/activities"))
}

func TestRedisRateLimitBlocksAfterLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := RedisRateLimit(client, 2, time.Minute, false)(okHandler)
	do := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard/u1", nil)
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	first := do("198.51.100.1:1000")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, do("198.51.100.1:1000").Code)

	blocked := do("198.51.100.1:1000")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.True(t, mr.Exists(BlockedIPKeyPrefix+"198.51.100.1"))

	assert.Equal(t, http.StatusOK, do("198.51.100.2:1000").Code, "other clients are unaffected")

	require.NoError(t, UnblockIP(context.Background(), client, "198.51.100.1"))
	mr.FastForward(2 * time.Minute)
	assert.Equal(t, http.StatusOK, do("198.51.100.1:1000").Code)
}

func TestRedisRateLimitFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	h := RedisRateLimit(client, 1, time.Minute, false)(okHandler)
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}
