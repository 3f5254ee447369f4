package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/AnshRaj112/serenify-companion/pkg/clientip"
)

const (
	headerXContentTypeOptions     = "X-Content-Type-Options"
	headerXFrameOptions           = "X-Frame-Options"
	headerXXSSProtection          = "X-XSS-Protection"
	headerContentSecurityPolicy   = "Content-Security-Policy"
	headerStrictTransportSecurity = "Strict-Transport-Security"
)

// SecurityHeaders sets security-related response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerXContentTypeOptions, "nosniff")
		w.Header().Set(headerXFrameOptions, "DENY")
		w.Header().Set(headerXXSSProtection, "1; mode=block")
		w.Header().Set(headerContentSecurityPolicy, "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set(headerStrictTransportSecurity, "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// HostCheck returns 403 when r.Host does not match allowedHost (e.g. api.serenify.app).
// allowedHost should be the bare hostname without scheme or port. Empty disables the check.
func HostCheck(allowedHost string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowedHost == "" {
				next.ServeHTTP(w, r)
				return
			}
			reqHost := r.Host
			if host, _, err := net.SplitHostPort(reqHost); err == nil {
				reqHost = host
			}
			if !strings.EqualFold(strings.TrimSpace(reqHost), strings.TrimSpace(allowedHost)) {
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte("Forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterTTL             = 30 * time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// IPLimiter keeps one token bucket per client IP. Idle buckets are dropped
// by a background sweep started on first use.
type IPLimiter struct {
	limit rate.Limit
	burst int

	mu        sync.Mutex
	entries   map[string]*limiterEntry
	sweepOnce sync.Once
}

func NewIPLimiter(limit rate.Limit, burst int) *IPLimiter {
	return &IPLimiter{limit: limit, burst: burst, entries: make(map[string]*limiterEntry)}
}

// Allow consumes a token for ip.
func (l *IPLimiter) Allow(ip string) bool {
	l.sweepOnce.Do(func() { go l.sweep() })

	l.mu.Lock()
	e, ok := l.entries[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[ip] = e
	}
	e.lastUse = time.Now()
	l.mu.Unlock()

	return e.limiter.Allow()
}

func (l *IPLimiter) sweep() {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for ip, e := range l.entries {
			if now.Sub(e.lastUse) > limiterTTL {
				delete(l.entries, ip)
			}
		}
		l.mu.Unlock()
	}
}

// Limit returns middleware that rejects requests over the bucket with 429.
// When paths is non-empty only those paths are limited.
func (l *IPLimiter) Limit(trustProxy bool, message string, paths ...string) func(http.Handler) http.Handler {
	only := make(map[string]bool, len(paths))
	for _, p := range paths {
		only[p] = true
	}
	body := []byte(`{"success":false,"message":"` + message + `"}`)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(only) > 0 && !only[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			if !l.Allow(clientip.FromRequest(r, trustProxy)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write(body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Per-IP limits applied in production.
const (
	globalRateLimitRPS   = 5
	globalRateLimitBurst = 20
	loginRateLimitEvery  = 5 * time.Second
	loginRateLimitBurst  = 2
)

// loginPaths get the stricter credential limiter.
var loginPaths = []string{
	"/api/auth/signin",
	"/api/auth/signup",
}

// ProductionSecurity returns middlewares for production:
// SecurityHeaders → HostCheck → global per-IP limit → login limit.
func ProductionSecurity(allowedHost string, trustProxy bool) []func(http.Handler) http.Handler {
	global := NewIPLimiter(rate.Limit(globalRateLimitRPS), globalRateLimitBurst)
	login := NewIPLimiter(rate.Every(loginRateLimitEvery), loginRateLimitBurst)
	return []func(http.Handler) http.Handler{
		SecurityHeaders,
		HostCheck(allowedHost),
		global.Limit(trustProxy, "Too many requests. Please slow down."),
		login.Limit(trustProxy, "Too many login attempts. Please try again later.", loginPaths...),
	}
}
