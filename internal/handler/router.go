package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridianclub/backend/pkg/auth"
)

// RouterConfig collects the handlers and settings served by NewRouter.
type RouterConfig struct {
	Handler       *Handler
	Contacts      *ContactHandler
	Memberships   *MembershipHandler
	Auth          *AuthHandler
	SessionSecret []byte
	FormLimiter   *RateLimiter
	LoginLimiter  *RateLimiter
	Logger        *slog.Logger
}

// NewRouter builds the API router.
func NewRouter(cfg RouterConfig) chi.Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(SecurityHeaders)
	r.Use(cfg.Handler.CORS)

	r.Get("/api/health", cfg.Handler.Health)

	r.Group(func(r chi.Router) {
		if cfg.FormLimiter != nil {
			r.Use(cfg.FormLimiter.Middleware)
		}
		r.Post("/api/contact", cfg.Contacts.Submit)
		r.Post("/api/membership", cfg.Memberships.Submit)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.With(limit(cfg.LoginLimiter)).Post("/login", cfg.Auth.Login)
		r.Post("/logout", cfg.Auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(cfg.SessionSecret))

			r.Get("/contacts", cfg.Contacts.AdminList)
			r.Post("/contacts/mark-read", cfg.Contacts.MarkRead)
			r.Patch("/contacts/{id}", cfg.Contacts.PatchRead)
			r.Delete("/contacts/{id}", cfg.Contacts.Delete)

			r.Get("/memberships", cfg.Memberships.AdminList)
			r.Post("/memberships/{id}/status", cfg.Memberships.UpdateStatus)
			r.Post("/memberships/{id}/notes", cfg.Memberships.UpdateNotes)
		})
	})

	return r
}

func limit(rl *RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}
