package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/msgraph-go/graph"
)

// Config holds graphctl settings loaded from a TOML file.
type Config struct {
	// TenantID is the directory (tenant) ID.
	TenantID string `toml:"tenant_id"`
	// AppID is the application (client) ID.
	AppID string `toml:"app_id"`
	// AppSecret is the client secret.
	AppSecret string `toml:"app_secret"`
	// TokenRefreshIntervalSec overrides the managed token refresh
	// interval, in seconds (optional).
	TokenRefreshIntervalSec int `toml:"token_refresh_interval_sec"`
	// BaseURL overrides the Graph API base URL (optional, for testing).
	BaseURL string `toml:"base_url"`
}

// DefaultConfigPath returns ~/.graphctl/config.toml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".graphctl", "config.toml"), nil
}

// LoadConfig reads and validates a config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the required credential fields.
func (c *Config) Validate() error {
	if c.TenantID == "" {
		return errors.New("config: tenant_id is required")
	}
	if c.AppID == "" {
		return errors.New("config: app_id is required")
	}
	if c.AppSecret == "" {
		return errors.New("config: app_secret is required")
	}
	return nil
}

// RefreshInterval returns the configured refresh interval, zero when
// unset.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.TokenRefreshIntervalSec) * time.Second
}

// Credentials converts the config into client credentials.
func (c *Config) Credentials() graph.Credentials {
	return graph.Credentials{
		AppID:     c.AppID,
		AppSecret: c.AppSecret,
		TenantID:  c.TenantID,
	}
}
