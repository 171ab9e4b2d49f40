package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Storage backend identifiers.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// StorageConfig selects where the six state documents are persisted.
type StorageConfig struct {
	// Backend is either "json" (one file per document) or "sqlite".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Dir is the directory holding the JSON files or the SQLite database.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Mode string `mapstructure:"mode" yaml:"mode"`
}

// DefaultsConfig holds values used when the caller leaves them unset.
type DefaultsConfig struct {
	Archetype Archetype `mapstructure:"archetype" yaml:"archetype"`
}

// ReminderDefaults seeds the reminder configuration of new sessions.
type ReminderDefaults struct {
	Enabled   bool `mapstructure:"enabled" yaml:"enabled"`
	LeadHours int  `mapstructure:"lead_hours" yaml:"lead_hours"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage  StorageConfig    `mapstructure:"storage" yaml:"storage"`
	Log      LogConfig        `mapstructure:"log" yaml:"log"`
	Defaults DefaultsConfig   `mapstructure:"defaults" yaml:"defaults"`
	Reminder ReminderDefaults `mapstructure:"reminder" yaml:"reminder"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/packlist/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(defaultConfigDir(), "config.yaml")
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "packlist")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{
			Backend: BackendJSON,
			Dir:     filepath.Join(defaultConfigDir(), "data"),
		},
		Log: LogConfig{
			Mode: "prod",
		},
		Defaults: DefaultsConfig{
			Archetype: ArchetypeUrbanExplorer,
		},
		Reminder: ReminderDefaults{
			Enabled:   true,
			LeadHours: 24,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	defaults := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("storage.backend", defaults.Storage.Backend)
	v.SetDefault("storage.dir", defaults.Storage.Dir)
	v.SetDefault("log.mode", defaults.Log.Mode)
	v.SetDefault("defaults.archetype", string(defaults.Defaults.Archetype))
	v.SetDefault("reminder.enabled", defaults.Reminder.Enabled)
	v.SetDefault("reminder.lead_hours", defaults.Reminder.LeadHours)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects settings the application cannot run with.
func (c *AppConfig) Validate() error {
	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Dir == "" {
		return fmt.Errorf("storage dir must not be empty")
	}
	if !c.Defaults.Archetype.Valid() {
		return fmt.Errorf("unknown default archetype %q", c.Defaults.Archetype)
	}
	if c.Reminder.LeadHours < 0 {
		return fmt.Errorf("reminder lead hours must not be negative")
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", map[string]any{
		"backend": cfg.Storage.Backend,
		"dir":     cfg.Storage.Dir,
	})
	v.Set("log", map[string]any{"mode": cfg.Log.Mode})
	v.Set("defaults", map[string]any{"archetype": string(cfg.Defaults.Archetype)})
	v.Set("reminder", map[string]any{
		"enabled":    cfg.Reminder.Enabled,
		"lead_hours": cfg.Reminder.LeadHours,
	})

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
