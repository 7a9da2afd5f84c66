package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

// EnvServerURL overrides the configured server URL when set.
const EnvServerURL = "PULSEBOARD_API_URL"

// Config represents the configuration for the Pulseboard CLI. It carries
// the server address and the stored session credential, and satisfies both
// the gateway's configuration interface and the session token store.
type Config struct {
	// Version of the configuration file format
	Version string `yaml:"version"`
	// ServerURL is the base URL of the Pulseboard API
	ServerURL string `yaml:"server_url"`
	// Token is the bearer token of the active session
	Token string `yaml:"token"`
	// TokenExpiry is when the stored token expires, RFC3339
	TokenExpiry string `yaml:"token_expiry"`

	// path the config was loaded from, used for persistence
	path string
}

var config *Config

// GetDefaultConfigPath returns the default path for the config file
// It uses the OS-specific config directory (e.g., ~/.config/pulseboard on Linux)
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "pulseboard", DefaultConfigFile), nil
}

// LoadConfig loads the configuration from the specified file
// If no file is specified, it uses the default config location
func LoadConfig(file string) error {
	if file == "" {
		var err error
		file, err = GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get default config path: %w", err)
		}
	}

	yamlStr, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("unable to read config file: %w", err)
	}

	var c Config
	if err = yaml.Unmarshal(yamlStr, &c); err != nil {
		return fmt.Errorf("unable to parse config file: %w", err)
	}
	c.path = file

	if env := os.Getenv(EnvServerURL); env != "" {
		c.ServerURL = env
	}
	if c.ServerURL == "" {
		return errors.New("server_url is required")
	}
	c.ServerURL = MorphServer(c.ServerURL)

	config = &c
	return nil
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	return config
}

// WriteConfig writes the current configuration to the file it was loaded
// from, or the given path if it was never loaded.
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		file = cfg.path
	}
	if file == "" {
		return errors.New("file path cannot be empty")
	}

	err := os.MkdirAll(filepath.Dir(file), os.ModePerm)
	if err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	yamlStr, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("unable to generate configuration: %w", err)
	}

	err = os.WriteFile(file, yamlStr, os.FileMode(0600))
	if err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}
	cfg.path = file
	return nil
}

// GetServerURL returns the configured API base URL.
func (cfg *Config) GetServerURL() string {
	return cfg.ServerURL
}

// GetToken returns the stored bearer token, empty when anonymous.
func (cfg *Config) GetToken() string {
	return cfg.Token
}

// GetTokenExpiry returns the stored token's expiry, the zero time when
// unknown.
func (cfg *Config) GetTokenExpiry() time.Time {
	if cfg.TokenExpiry == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, cfg.TokenExpiry)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SaveToken stores a bearer token and persists the configuration.
func (cfg *Config) SaveToken(token string, expiry time.Time) error {
	cfg.Token = token
	if expiry.IsZero() {
		cfg.TokenExpiry = ""
	} else {
		cfg.TokenExpiry = expiry.UTC().Format(time.RFC3339)
	}
	return cfg.WriteConfig("")
}

// ClearToken removes the stored bearer token and persists the
// configuration.
func (cfg *Config) ClearToken() error {
	cfg.Token = ""
	cfg.TokenExpiry = ""
	return cfg.WriteConfig("")
}

// MorphServer ensures the server URL is properly formatted
// Adds http:// prefix if missing and removes trailing slashes
func MorphServer(server string) string {
	if server == "" {
		return server
	}

	server = strings.TrimRight(server, "/")

	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		server = "http://" + server
	}
	return server
}

// newConfigCmd creates the config command tree.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the pulseboard CLI configuration",
	}
	cmd.AddCommand(newConfigCreateCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new configuration file",
		Long: `Create a new configuration file pointing at a Pulseboard server.

Example:
  pulseboard config create --server https://api.pulseboard.io`,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, _ := cmd.Flags().GetString("server")
			if server == "" {
				server = os.Getenv(EnvServerURL)
			}
			if server == "" {
				return errors.New("no server provided. Use --server or set " + EnvServerURL)
			}

			cfg := &Config{
				Version:   "v1",
				ServerURL: MorphServer(server),
			}
			if err := cfg.WriteConfig(configFile); err != nil {
				return err
			}
			if jsonOutput {
				printJSON(map[string]string{
					"status":      "success",
					"config_file": configFile,
					"server_url":  cfg.ServerURL,
				})
			} else {
				okLabel.Println("✓ Configuration created")
				fmt.Printf("Config file: %s\n", configFile)
				fmt.Printf("Server: %s\n", cfg.ServerURL)
			}
			return nil
		},
	}
	cmd.Flags().String("server", "", "Pulseboard server URL")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := LoadConfig(configFile); err != nil {
				return err
			}
			cfg := GetConfig()
			if jsonOutput {
				printJSON(map[string]string{
					"config_file":  configFile,
					"server_url":   cfg.ServerURL,
					"token_expiry": cfg.TokenExpiry,
					"signed_in":    fmt.Sprintf("%t", cfg.Token != ""),
				})
				return nil
			}
			fmt.Printf("Config file: %s\n", configFile)
			fmt.Printf("Server: %s\n", cfg.ServerURL)
			if cfg.Token != "" {
				fmt.Println("Session: signed in")
				if cfg.TokenExpiry != "" {
					fmt.Printf("Token expires at: %s\n", cfg.TokenExpiry)
				}
			} else {
				fmt.Println("Session: signed out")
			}
			return nil
		},
	}
}
