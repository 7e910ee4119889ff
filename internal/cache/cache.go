package cache

import (
	"context"
	"errors"
	"time"

	"github.com/rolodex-dev/rolodex/internal/domain"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// SessionCache stores users keyed by the raw access token. Entries expire
// no later than the token itself, so a cached session can never outlive it.
type SessionCache interface {
	Get(ctx context.Context, token string) (*domain.User, error)
	Set(ctx context.Context, token string, user *domain.User, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}
