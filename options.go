package fhiretl

import (
	"runtime"
	"time"
)

// Option configures the pipeline.
type Option func(*Options)

// Options holds all configuration for a pipeline run.
type Options struct {
	// InputDir is the directory scanned for FHIR Bundle JSON files.
	InputDir string

	// DatabasePath is the DuckDB database file written by the run.
	DatabasePath string

	// AsOf is the reference date for age computation.
	// The zero value means the current date.
	AsOf time.Time

	// Workers is the number of parallel bundle parsers.
	Workers int

	// Persist writes bronze/silver/gold tables to the database file.
	Persist bool

	// ParallelEntities transforms the three silver entities concurrently.
	ParallelEntities bool

	// CollectMetrics enables performance metric collection.
	CollectMetrics bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		InputDir:     "./data",
		DatabasePath: "fhir.duckdb",

		// Performance defaults
		Workers:          runtime.NumCPU(),
		ParallelEntities: true,
		CollectMetrics:   true,

		// Persistence enabled by default
		Persist: true,
	}
}

// WithInputDir sets the bundle input directory.
func WithInputDir(dir string) Option {
	return func(o *Options) {
		o.InputDir = dir
	}
}

// WithDatabasePath sets the DuckDB database file path.
func WithDatabasePath(path string) Option {
	return func(o *Options) {
		o.DatabasePath = path
	}
}

// WithAsOf sets the reference date for age computation.
func WithAsOf(asOf time.Time) Option {
	return func(o *Options) {
		o.AsOf = asOf
	}
}

// WithWorkers sets the number of parallel bundle parsers.
// Values <= 0 select runtime.NumCPU().
func WithWorkers(workers int) Option {
	return func(o *Options) {
		if workers <= 0 {
			workers = runtime.NumCPU()
		}
		o.Workers = workers
	}
}

// WithPersist enables or disables writing to the database file.
func WithPersist(enable bool) Option {
	return func(o *Options) {
		o.Persist = enable
	}
}

// WithParallelEntities enables or disables concurrent silver transformation.
func WithParallelEntities(enable bool) Option {
	return func(o *Options) {
		o.ParallelEntities = enable
	}
}

// WithMetrics enables or disables metric collection.
func WithMetrics(enable bool) Option {
	return func(o *Options) {
		o.CollectMetrics = enable
	}
}
