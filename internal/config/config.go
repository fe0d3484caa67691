// Package config loads application configuration from an optional YAML file
// with SOCIAL_BATTERY_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends selectable through storage.backend.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config captures every tunable of the application.
type Config struct {
	Identity IdentityConfig `mapstructure:"identity"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

// IdentityConfig identifies the local user toward the remote collaborator.
type IdentityConfig struct {
	Email       string `mapstructure:"email"`
	DeviceToken string `mapstructure:"device_token"`
}

// StorageConfig selects and parameterises the snapshot backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
	DSN     string `mapstructure:"dsn"`
}

// RemoteConfig points at the deployed connections API. An empty base URL
// disables all remote side effects.
type RemoteConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	AuthToken string `mapstructure:"auth_token"`
}

// NotifyConfig parameterises Pushover delivery. When either field is empty
// notifications fall back to the log.
type NotifyConfig struct {
	PushoverToken string `mapstructure:"pushover_token"`
	PushoverUser  string `mapstructure:"pushover_user"`
}

// WorkerConfig tunes the polling agent.
type WorkerConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// Load reads configuration from the file at path when non-empty, otherwise
// from config.yaml in the user config directory or the working directory.
// A missing file is not an error; defaults and environment overrides apply
// either way.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("identity.email", "")
	v.SetDefault("identity.device_token", "")
	v.SetDefault("storage.backend", BackendJSON)
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("remote.base_url", "")
	v.SetDefault("remote.auth_token", "")
	v.SetDefault("notify.pushover_token", "")
	v.SetDefault("notify.pushover_user", "")
	v.SetDefault("worker.poll_interval", "5m")

	v.SetEnvPrefix("SOCIAL_BATTERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "socialbattery"))
		}
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	cfg.applyStorageDefaults()
	return cfg, nil
}

func (c *Config) validate() error {
	invalid := make([]string, 0, 2)
	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite:
	default:
		invalid = append(invalid, "storage.backend")
	}
	if c.Worker.PollInterval <= 0 {
		invalid = append(invalid, "worker.poll_interval")
	}
	if len(invalid) > 0 {
		return fmt.Errorf("config: invalid values for: %s", strings.Join(invalid, ", "))
	}
	return nil
}

// applyStorageDefaults resolves empty storage locations against the user
// config directory, falling back to the working directory.
func (c *Config) applyStorageDefaults() {
	base := "."
	if dir, err := os.UserConfigDir(); err == nil {
		base = filepath.Join(dir, "socialbattery")
	}
	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join(base, "social_battery.json")
	}
	if c.Storage.DSN == "" {
		c.Storage.DSN = "file:" + filepath.Join(base, "social_battery.db")
	}
}
