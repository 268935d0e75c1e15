// Package config provides Viper-based configuration loading for the wanderer server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// WorldConfig selects the world file and how connections share it.
type WorldConfig struct {
	// Path is the world description file (YAML or JSON).
	Path string `mapstructure:"path"`
	// Shared makes every connection explore one World. When false each connection
	// loads a private copy.
	Shared bool `mapstructure:"shared"`
}

// SessionConfig holds per-traveler limits.
type SessionConfig struct {
	// InventoryCapacity caps carried top-level items; zero means unlimited.
	InventoryCapacity int `mapstructure:"inventory_capacity"`
}

// TelnetConfig holds Telnet acceptor settings.
type TelnetConfig struct {
	// Host is the bind address for the Telnet listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the Telnet listener.
	Port int `mapstructure:"port"`
	// ReadTimeout is the per-read timeout for Telnet connections.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-write timeout for Telnet connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// Width is the column count narration is wrapped to.
	Width int `mapstructure:"width"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (t TelnetConfig) Addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// AdminConfig holds the admin HTTP surface settings.
type AdminConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// Addr returns the "host:port" listen address.
func (a AdminConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	World   WorldConfig   `mapstructure:"world"`
	Session SessionConfig `mapstructure:"session"`
	Telnet  TelnetConfig  `mapstructure:"telnet"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if c.World.Path == "" {
		errs = append(errs, "world.path must not be empty")
	}
	if c.Session.InventoryCapacity < 0 {
		errs = append(errs, fmt.Sprintf("session.inventory_capacity must be >= 0, got %d", c.Session.InventoryCapacity))
	}
	errs = append(errs, validateTelnet(c.Telnet)...)
	if c.Admin.Enabled {
		if c.Admin.Port < 1 || c.Admin.Port > 65535 {
			errs = append(errs, fmt.Sprintf("admin.port must be 1-65535, got %d", c.Admin.Port))
		}
		if c.Admin.Port == c.Telnet.Port && c.Admin.Host == c.Telnet.Host {
			errs = append(errs, "admin and telnet must not listen on the same address")
		}
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTelnet(t TelnetConfig) []string {
	var errs []string
	if t.Port < 1 || t.Port > 65535 {
		errs = append(errs, fmt.Sprintf("telnet.port must be 1-65535, got %d", t.Port))
	}
	if t.ReadTimeout < 0 {
		errs = append(errs, "telnet.read_timeout must not be negative")
	}
	if t.WriteTimeout < 0 {
		errs = append(errs, "telnet.write_timeout must not be negative")
	}
	if t.Width < 20 {
		errs = append(errs, fmt.Sprintf("telnet.width must be >= 20, got %d", t.Width))
	}
	return errs
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and WANDERER_ environment overrides.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("WANDERER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("world.path", "content/worlds/caves.yaml")
	v.SetDefault("world.shared", false)

	v.SetDefault("session.inventory_capacity", 0)

	v.SetDefault("telnet.host", "0.0.0.0")
	v.SetDefault("telnet.port", 4000)
	v.SetDefault("telnet.read_timeout", "10m")
	v.SetDefault("telnet.write_timeout", "30s")
	v.SetDefault("telnet.width", 78)

	v.SetDefault("admin.enabled", true)
	v.SetDefault("admin.host", "127.0.0.1")
	v.SetDefault("admin.port", 8080)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
