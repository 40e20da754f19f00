// Package config provides Viper-based configuration loading for the
// simulation binaries.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// WorldConfig holds world-generation settings.
type WorldConfig struct {
	// Seed is the world seed; identical seeds generate identical worlds.
	Seed string `mapstructure:"seed"`
	// Catalog is an optional path to a YAML content catalog. Empty selects
	// the built-in default catalog.
	Catalog string `mapstructure:"catalog"`
}

// SessionConfig holds per-session settings.
type SessionConfig struct {
	// Ticks is the time budget of one simulated session.
	Ticks float64 `mapstructure:"ticks"`
}

// SimConfig holds batch simulation settings.
type SimConfig struct {
	// Runs is the number of consecutive sessions one batch simulates.
	Runs int `mapstructure:"runs"`
	// Policy selects the decision maker: a built-in name, a path to a Lua
	// policy script (ending in .lua), or a path to an HTN domain file
	// (ending in .yaml).
	Policy string `mapstructure:"policy"`
	// InstructionLimit caps Lua opcodes per decide call; 0 uses the
	// scripting default.
	InstructionLimit int `mapstructure:"instruction_limit"`
	// ReplayDir enables zstd replay logs when non-empty.
	ReplayDir string `mapstructure:"replay_dir"`
	// StoreRuns archives run summaries to Postgres when true.
	StoreRuns bool `mapstructure:"store_runs"`
}

// DatabaseConfig holds PostgreSQL connection settings for the run archive.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
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
	World    WorldConfig    `mapstructure:"world"`
	Session  SessionConfig  `mapstructure:"session"`
	Sim      SimConfig      `mapstructure:"sim"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateWorld(c.World); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSession(c.Session); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSim(c.Sim); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateWorld(w WorldConfig) error {
	if w.Seed == "" {
		return errors.New("world.seed must not be empty")
	}
	return nil
}

func validateSession(s SessionConfig) error {
	if s.Ticks <= 0 {
		return fmt.Errorf("session.ticks must be > 0, got %v", s.Ticks)
	}
	return nil
}

func validateSim(s SimConfig) error {
	var errs []string
	if s.Runs < 1 {
		errs = append(errs, fmt.Sprintf("sim.runs must be >= 1, got %d", s.Runs))
	}
	if s.Policy == "" {
		errs = append(errs, "sim.policy must not be empty")
	}
	if s.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("sim.instruction_limit must be >= 0, got %d", s.InstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
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
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with FRONTIER_ prefix
	v.SetEnvPrefix("FRONTIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
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

// Default returns the configuration every setting falls back to; it is
// always valid.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic("config: default configuration failed to unmarshal: " + err.Error())
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("world.seed", "frontier")
	v.SetDefault("world.catalog", "")

	v.SetDefault("session.ticks", 100.0)

	v.SetDefault("sim.runs", 10)
	v.SetDefault("sim.policy", "auto")
	v.SetDefault("sim.instruction_limit", 0)
	v.SetDefault("sim.replay_dir", "")
	v.SetDefault("sim.store_runs", false)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "frontier")
	v.SetDefault("database.password", "frontier")
	v.SetDefault("database.name", "frontier")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
