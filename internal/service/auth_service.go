package service

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridianclub/backend/pkg/auth"
)

// ErrInvalidCredentials is returned when the admin password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminSession is an issued admin session token.
type AdminSession struct {
	Token     string
	ExpiresAt time.Time
}

// AuthService authenticates the club administrator.
type AuthService interface {
	Login(password string) (*AdminSession, error)
}

// AuthConfig configures AuthService.
type AuthConfig struct {
	PasswordHash  string
	SessionSecret []byte
	SessionTTL    time.Duration
}

type authService struct {
	cfg AuthConfig
	now func() time.Time
}

// NewAuthService creates an AuthService for the shared admin account.
func NewAuthService(cfg AuthConfig) AuthService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = auth.DefaultSessionTTL
	}
	return &authService{cfg: cfg, now: time.Now}
}

// Login checks password against the configured bcrypt hash and issues a
// signed session token.
func (s *authService) Login(password string) (*AdminSession, error) {
	if s.cfg.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, expiresAt, err := auth.CreateSessionToken(auth.AdminSubject, s.cfg.SessionSecret, s.now(), s.cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	return &AdminSession{Token: token, ExpiresAt: expiresAt}, nil
}

// HashPassword returns the bcrypt hash to put in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", errors.New("password must be at least 8 characters")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}
