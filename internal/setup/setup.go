// Package setup is the composition root: it builds every dependency and
// hands back the wired pieces.
package setup

import (
	"context"

	"github.com/rolodex-dev/rolodex/internal/cache"
	"github.com/rolodex-dev/rolodex/internal/config"
	"github.com/rolodex-dev/rolodex/internal/handler"
	"github.com/rolodex-dev/rolodex/internal/imagestore"
	"github.com/rolodex-dev/rolodex/internal/logger"
	"github.com/rolodex-dev/rolodex/internal/mail"
	"github.com/rolodex-dev/rolodex/internal/service"
	"github.com/rolodex-dev/rolodex/internal/storage/pg"
	"github.com/rolodex-dev/rolodex/internal/token"
)

// Dependencies holds all initialized dependencies.
type Dependencies struct {
	Storage  *pg.Storage
	Handler  *handler.Handler
	Auth     *service.Auth
	Sessions cache.SessionCache
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sessions := newSessionCache(ctx, cfg)
	jwt := token.New(cfg.JwtKey())
	mailer := mail.New(cfg)

	images, err := imagestore.NewS3(ctx, cfg)
	if err != nil {
		return nil, err
	}

	auth := service.NewAuth(storage, jwt, mailer, service.Hasher{}, sessions, cfg)
	contacts := service.NewContacts(storage)
	users := service.NewUsers(storage, images)

	h := handler.New(auth, contacts, users, cfg)

	return &Dependencies{
		Storage:  storage,
		Handler:  h,
		Auth:     auth,
		Sessions: sessions,
	}, nil
}

func newSessionCache(ctx context.Context, cfg *config.Config) cache.SessionCache {
	if cfg.Public.Redis.Addr != "" {
		logger.Log.Info("using redis session cache", "addr", cfg.Public.Redis.Addr)
		return cache.NewRedis(cfg.Public.Redis.Addr, cfg.Private.RedisPassword)
	}

	logger.Log.Info("using in-memory session cache")
	memory := cache.NewMemory()
	memory.StartJanitor(ctx, cfg.SessionCacheTTL())
	return memory
}
