package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// originAllowed reports whether origin is in the allowed list (case-insensitive).
func originAllowed(origin string, allowed []string) bool {
	origin = strings.ToLower(strings.TrimSpace(origin))
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if strings.ToLower(strings.TrimSpace(a)) == origin {
			return true
		}
	}
	return false
}

// CORS allows credentialed requests from allowedOrigins. Preflight requests
// are answered with 200 and never reach the router.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return originAllowed(origin, allowedOrigins)
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Requested-With"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
