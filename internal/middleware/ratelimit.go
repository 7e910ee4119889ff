package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/rolodex-dev/rolodex/internal/middleware/ratelimiter"
)

// RateLimit rejects requests over the limit with a 429, keyed by
// getIdentity.
func RateLimit(limiter *ratelimiter.IdentityLimiter, getIdentity func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(getIdentity(r)) {
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserIdentity keys by the authenticated user, falling back to the client
// IP for anonymous requests.
func UserIdentity(r *http.Request) string {
	if user := UserFromContext(r); user != nil {
		return fmt.Sprintf("user_%d", user.Id)
	}
	return ClientIP(r)
}

// ClientIP resolves the originating address, trusting proxy headers when
// present.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// The first entry is the original client.
		if idx := strings.Index(forwarded, ","); idx != -1 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
