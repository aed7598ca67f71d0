package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration read from a TOML string such as "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// RemoteConfig selects the admin API the client talks to.
type RemoteConfig struct {
	URL           string   `toml:"url"`
	AllowInsecure bool     `toml:"allow_insecure"`
	Timeout       Duration `toml:"timeout"`
}

// DatabaseConfig enables direct mode against Postgres.
type DatabaseConfig struct {
	URL string `toml:"url"`
}

// UIConfig holds display preferences.
type UIConfig struct {
	PageSize int `toml:"page_size"`
}

// Client is the admin client configuration.
type Client struct {
	Remote   RemoteConfig   `toml:"remote"`
	Database DatabaseConfig `toml:"database"`
	UI       UIConfig       `toml:"ui"`

	HomeDir string `toml:"-"`
}

// DefaultHome returns the client home directory.
// Respects the CLUBADMIN_HOME environment variable.
func DefaultHome() string {
	if h := os.Getenv("CLUBADMIN_HOME"); h != "" {
		return expandPath(h)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clubadmin"
	}
	return filepath.Join(home, ".clubadmin")
}

// LoadClient reads the client configuration from path, or from
// <home>/config.toml when path is empty. A missing file yields defaults.
func LoadClient(path string) (*Client, error) {
	homeDir := DefaultHome()
	if path == "" {
		path = filepath.Join(homeDir, "config.toml")
	}

	cfg := &Client{
		HomeDir: homeDir,
		Remote:  RemoteConfig{Timeout: Duration{30 * time.Second}},
		UI:      UIConfig{PageSize: 10},
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(expandPath(path), cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Direct reports whether the client should talk to Postgres directly.
func (c *Client) Direct() bool {
	return c.Remote.URL == "" && c.Database.URL != ""
}

// TokenPath is where the admin session token is stored.
func (c *Client) TokenPath() string {
	return filepath.Join(c.HomeDir, "token")
}

// ErrNoToken is returned when no session token has been saved.
var ErrNoToken = errors.New("not logged in; run `clubadmin login`")

// LoadToken returns the saved session token.
func (c *Client) LoadToken() (string, error) {
	b, err := os.ReadFile(c.TokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// SaveToken stores the session token readable only by the current user.
func (c *Client) SaveToken(token string) error {
	if err := os.MkdirAll(c.HomeDir, 0o700); err != nil {
		return fmt.Errorf("create home dir: %w", err)
	}
	if err := os.WriteFile(c.TokenPath(), []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// ClearToken removes the saved session token. It is not an error if none exists.
func (c *Client) ClearToken() error {
	if err := os.Remove(c.TokenPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
