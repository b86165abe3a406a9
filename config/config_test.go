package config

import (
	"testing"
	"time"

	fhiretl "github.com/gofhir/etl"
)

func validConfig() Config {
	return Config{
		InputDir: "./data",
		DBPath:   "fhir.duckdb",
		Workers:  4,
		Persist:  true,
		LogLevel: "info",
		Output:   "text",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"json output valid", func(c *Config) { c.Output = "json" }, false},
		{"as_of date valid", func(c *Config) { c.AsOf = "2025-01-01" }, false},
		{"empty input dir", func(c *Config) { c.InputDir = "" }, true},
		{"negative workers", func(c *Config) { c.Workers = -1 }, true},
		{"bad output", func(c *Config) { c.Output = "yaml" }, true},
		{"bad as_of", func(c *Config) { c.AsOf = "01/01/2025" }, true},
		{"as_of with time", func(c *Config) { c.AsOf = "2025-01-01T00:00:00Z" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := validConfig()
	cfg.InputDir = "/bundles"
	cfg.AsOf = "2025-06-30"
	cfg.Persist = false

	opts := fhiretl.DefaultOptions()
	for _, opt := range cfg.Options() {
		opt(opts)
	}

	if opts.InputDir != "/bundles" {
		t.Errorf("InputDir = %q, want /bundles", opts.InputDir)
	}
	if opts.Persist {
		t.Error("Persist = true, want false")
	}
	want := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	if !opts.AsOf.Equal(want) {
		t.Errorf("AsOf = %v, want %v", opts.AsOf, want)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.InputDir != "./data" {
		t.Errorf("InputDir = %q, want ./data", cfg.InputDir)
	}
	if cfg.Output != "text" {
		t.Errorf("Output = %q, want text", cfg.Output)
	}
	if !cfg.Persist {
		t.Error("Persist = false, want true")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FHIR_ETL_INPUT_DIR", "/tmp/bundles")
	t.Setenv("FHIR_ETL_OUTPUT", "json")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.InputDir != "/tmp/bundles" {
		t.Errorf("InputDir = %q, want /tmp/bundles", cfg.InputDir)
	}
	if cfg.Output != "json" {
		t.Errorf("Output = %q, want json", cfg.Output)
	}
}
