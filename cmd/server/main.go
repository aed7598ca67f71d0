package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/meridianclub/backend/internal/config"
	"github.com/meridianclub/backend/internal/handler"
	"github.com/meridianclub/backend/internal/logging"
	"github.com/meridianclub/backend/internal/mailer"
	"github.com/meridianclub/backend/internal/repository"
	"github.com/meridianclub/backend/internal/service"
	"github.com/meridianclub/backend/pkg/auth"
)

func main() {
	logging.Setup()

	cfg, err := config.LoadServer()
	if err != nil {
		logging.Fatal("load config failed", "error", err)
	}

	pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if cfg.AdminPasswordHash == "" {
		slog.Warn("ADMIN_PASSWORD_HASH is not set; admin login is disabled")
	}
	if cfg.EphemeralSecret {
		slog.Warn("SESSION_SECRET is not set; using a random key for this process")
	}
	if !cfg.SMTP.Enabled() {
		slog.Warn("SMTP is not configured; contact notifications are disabled")
	}

	contactRepo := repository.NewPgContactRepository(pool)
	membershipRepo := repository.NewPgMembershipRepository(pool)

	contactService := service.NewContactService(contactRepo, mailer.New(cfg.SMTP))
	membershipService := service.NewMembershipService(membershipRepo)
	sessionSecret := auth.SessionSecretBytes(cfg.SessionSecret)
	authService := service.NewAuthService(service.AuthConfig{
		PasswordHash:  cfg.AdminPasswordHash,
		SessionSecret: sessionSecret,
		SessionTTL:    cfg.SessionTTL,
	})

	router := handler.NewRouter(handler.RouterConfig{
		Handler:       handler.New(pool, cfg.FrontendURL),
		Contacts:      handler.NewContactHandler(contactService),
		Memberships:   handler.NewMembershipHandler(membershipService),
		Auth:          handler.NewAuthHandler(authService, strings.HasPrefix(cfg.FrontendURL, "https://")),
		SessionSecret: sessionSecret,
		FormLimiter:   handler.NewRateLimiter(cfg.FormRatePerSecond, cfg.FormRateBurst),
		LoginLimiter:  handler.NewRateLimiter(0.1, 5),
		Logger:        slog.Default(),
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
