package clientip

import (
	"net"
	"net/http"
	"strings"
)

// RealClientIP returns the client IP from r.RemoteAddr only (no proxy
// headers). Use it when traffic reaches the app directly.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}

// FromRequest returns the client IP. With trustProxy set, the first valid
// address in X-Forwarded-For (then X-Real-IP) wins over RemoteAddr. Only
// enable it behind a proxy that overwrites those headers.
func FromRequest(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first := strings.TrimSpace(strings.Split(fwd, ",")[0])
			if net.ParseIP(first) != nil {
				return first
			}
		}
		if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(real) != nil {
			return real
		}
	}
	return RealClientIP(r)
}
