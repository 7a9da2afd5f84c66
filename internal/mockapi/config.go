package mockapi

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr       string `toml:"addr"`
	HandleCORS bool   `toml:"handle_cors"`
}

// AuthConfig holds token and seed-account settings.
type AuthConfig struct {
	JWTSecret     string `toml:"jwt_secret"`
	TokenValidity string `toml:"token_validity"`
	AdminEmail    string `toml:"admin_email"`
	AdminPassword string `toml:"admin_password"`
}

// GetTokenValidity returns the configured token validity as a duration,
// falling back to 24h when unset or invalid.
func (a *AuthConfig) GetTokenValidity() time.Duration {
	d, err := time.ParseDuration(a.TokenValidity)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// Config is the mock API configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Auth   AuthConfig   `toml:"auth"`
}

// DefaultConfig returns a configuration suitable for local demo use.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:       ":8480",
			HandleCORS: true,
		},
		Auth: AuthConfig{
			JWTSecret:     "pulseboard-demo-secret",
			TokenValidity: "24h",
			AdminEmail:    "admin@pulseboard.io",
			AdminPassword: "admin123",
		},
	}
}

// LoadConfig reads a TOML configuration file, layering it over defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read config file")
	}
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrap(err, "unable to parse config file")
	}
	return cfg, nil
}
