// Package router wires handlers and middleware into the HTTP surface.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rolodex-dev/rolodex/internal/config"
	"github.com/rolodex-dev/rolodex/internal/handler"
	"github.com/rolodex-dev/rolodex/internal/middleware"
	"github.com/rolodex-dev/rolodex/internal/middleware/ratelimiter"
)

// New builds the router. Rate limiters passed in rather than created here
// so tests can substitute permissive ones.
func New(h *handler.Handler, auth middleware.CurrentUserResolver, profileLimiter *ratelimiter.IdentityLimiter, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Public.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Get("/health", h.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Get("/confirm/{token}", h.ConfirmEmail)
		r.Post("/password-reset/request", h.RequestPasswordReset)
		r.Post("/password-reset/confirm", h.ResetPassword)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(auth))

		r.Route("/users/me", func(r chi.Router) {
			// The profile endpoint carries the per-user rate limit.
			r.With(middleware.RateLimit(profileLimiter, middleware.UserIdentity)).
				Get("/", h.Me)
			r.Post("/avatar", h.UploadAvatar)
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Post("/", h.CreateContact)
			r.Get("/", h.ListContacts)
			r.Get("/upcoming_birthdays", h.UpcomingBirthdays)
			r.Get("/{contactId}", h.GetContact)
			r.Patch("/{contactId}", h.UpdateContact)
			r.Delete("/{contactId}", h.DeleteContact)
		})

		// Prometheus scrape endpoint, admins only.
		r.With(middleware.AdminOnly).Method(http.MethodGet, "/metrics", promhttp.Handler())
	})

	return r
}
