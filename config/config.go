// Package config loads pipeline settings from config files and environment
// variables. Every key has a working default, so a bare invocation runs
// against ./data without any configuration at all.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	fhiretl "github.com/gofhir/etl"
)

// Config holds the user-facing pipeline settings.
type Config struct {
	InputDir string `mapstructure:"input_dir"`
	DBPath   string `mapstructure:"db_path"`

	// AsOf is the reference date for age computation, YYYY-MM-DD.
	// Empty means today.
	AsOf string `mapstructure:"as_of"`

	Workers int  `mapstructure:"workers"`
	Persist bool `mapstructure:"persist"`

	LogLevel string `mapstructure:"log_level"`

	// Output selects the report format, "text" or "json".
	Output string `mapstructure:"output"`
}

// Load reads configuration from fhir-etl.yaml (working directory), then the
// FHIR_ETL_* environment, then defaults, in that precedence order.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("fhir-etl")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("input_dir", "./data")
	v.SetDefault("db_path", "fhir.duckdb")
	v.SetDefault("as_of", "")
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("persist", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("output", "text")

	v.SetEnvPrefix("FHIR_ETL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("input_dir must not be empty")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Output != "text" && c.Output != "json" {
		return fmt.Errorf("output must be text or json, got %q", c.Output)
	}
	if c.AsOf != "" {
		if _, err := time.Parse("2006-01-02", c.AsOf); err != nil {
			return fmt.Errorf("as_of must be YYYY-MM-DD, got %q", c.AsOf)
		}
	}
	return nil
}

// Options converts the config into pipeline options.
func (c *Config) Options() []fhiretl.Option {
	opts := []fhiretl.Option{
		fhiretl.WithInputDir(c.InputDir),
		fhiretl.WithDatabasePath(c.DBPath),
		fhiretl.WithWorkers(c.Workers),
		fhiretl.WithPersist(c.Persist),
	}
	if c.AsOf != "" {
		if asOf, err := time.Parse("2006-01-02", c.AsOf); err == nil {
			opts = append(opts, fhiretl.WithAsOf(asOf))
		}
	}
	return opts
}
