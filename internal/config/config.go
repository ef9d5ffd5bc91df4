// Package config loads ccnotify configuration from the standard
// hierarchy: environment variables > local config > global config >
// defaults. Configuration is optional; with nothing on disk the
// defaults produce a working install.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration represents the ccnotify tool configuration
type Configuration struct {
	// Enabled is the master switch for sending notifications. Session
	// bookkeeping continues even when disabled.
	Enabled bool `koanf:"enabled"`

	// DataDir holds the session database and the operational log.
	DataDir string `koanf:"data_dir" validate:"required"`

	// Backends is the ordered list of backend names to try. Empty
	// means the platform default order.
	Backends []string `koanf:"backends"`

	// BackendTimeout bounds each backend attempt, in seconds.
	BackendTimeout int `koanf:"backend_timeout" validate:"min=1,max=60"`

	// Sound requests an audible alert where the backend supports one.
	Sound bool `koanf:"sound"`

	// OpenInVSCode enables click-to-open of the session directory.
	OpenInVSCode bool `koanf:"open_in_vscode"`

	// RetentionDays prunes session rows older than this many days on
	// each invocation. 0 keeps rows forever.
	RetentionDays int `koanf:"retention_days" validate:"min=0,max=3650"`

	// LogMaxAgeDays bounds how long rotated log files are kept.
	LogMaxAgeDays int `koanf:"log_max_age_days" validate:"min=1,max=365"`
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	// Apply defaults first
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	// Load global config if it exists
	homeDir, err := os.UserHomeDir()
	if err == nil {
		globalPath := filepath.Join(homeDir, ".ccnotify", "config.json")
		if _, err := os.Stat(globalPath); err == nil {
			if err := k.Load(file.Provider(globalPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	// Load local config if it exists
	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err == nil {
			if err := k.Load(file.Provider(localConfigPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load local config: %w", err)
			}
		}
	}

	// Override with environment variables (highest priority)
	k.Load(env.Provider("CCNOTIFY_", ".", envTransform), nil)

	// Unmarshal into struct
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.DataDir = expandHomePath(cfg.DataDir)

	return &cfg, nil
}

// DatabasePath returns the location of the session database.
func (c *Configuration) DatabasePath() string {
	return filepath.Join(c.DataDir, "ccnotify.db")
}

// LogPath returns the location of the operational log.
func (c *Configuration) LogPath() string {
	return filepath.Join(c.DataDir, "ccnotify.log")
}

// Timeout returns the per-backend timeout as a duration.
func (c *Configuration) Timeout() time.Duration {
	return time.Duration(c.BackendTimeout) * time.Second
}

// EnsureDataDir creates the data directory if it does not exist.
func (c *Configuration) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// envTransform converts environment variable names to config keys
// Example: CCNOTIFY_BACKEND_TIMEOUT -> backend_timeout
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "CCNOTIFY_"))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
