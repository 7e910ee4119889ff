package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rolodex-dev/rolodex/internal/domain"
	internal_errors "github.com/rolodex-dev/rolodex/internal/errors"
)

// Key to store the user in the request context
type key int

const userKey key = 0

// CurrentUserResolver turns a raw access token into a user. Satisfied by
// service.Auth, which serves repeat lookups from the session cache.
type CurrentUserResolver interface {
	CurrentUser(ctx context.Context, rawToken string) (domain.User, error)
}

// Auth requires a bearer token and puts the resolved user into the request
// context.
func Auth(resolver CurrentUserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawToken, ok := bearerToken(r)
			if !ok {
				http.Error(w, "Please sign-in", http.StatusUnauthorized)
				return
			}

			user, err := resolver.CurrentUser(r.Context(), rawToken)
			if err != nil {
				http.Error(w, err.Error(), internal_errors.StatusCode(err))
				return
			}

			ctx := context.WithValue(r.Context(), userKey, &user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly rejects non-admin users. Must run after Auth.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r)
		if user == nil {
			http.Error(w, "Please sign-in", http.StatusUnauthorized)
			return
		}
		if !user.IsAdmin() {
			http.Error(w, "Access denied. Only for admin", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken reads the Authorization header, falling back to the
// access_token cookie for browser clients.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):], true
	}
	if cookie, err := r.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return "", false
}

// UserFromContext retrieves the authenticated user, nil when the request
// did not pass Auth.
func UserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(userKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
