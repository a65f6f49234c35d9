// Package config defines ambient process configuration structures and
// loading hooks.
//
// Conventions:
// - Keep fields exported with koanf tags so they unmarshal directly.
// - Provide New() to build a Config with defaults.
// - All future loading functions must accept context.Context first.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains ambient process configuration: everything that governs
// how the driver runs, as opposed to the epidemiological input record
// itself, which internal/loader reads separately.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// WorkerCount sets the width of the data-parallel carrier scan.
	WorkerCount int `koanf:"worker_count"`

	// MetricsAddr, if non-empty, serves a Prometheus /metrics endpoint on
	// this address while the driver runs. Empty disables it.
	MetricsAddr string `koanf:"metrics_addr"`

	// RNGSeed overrides the root seed used to derive per-worker RNG
	// streams. Zero means "derive from time".
	RNGSeed int64 `koanf:"rng_seed"`

	// ResultQueueSize bounds the async pipeline decoupling day-by-day
	// production of results from their consumption.
	ResultQueueSize int `koanf:"result_queue_size"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		WorkerCount:     runtime.NumCPU(),
		MetricsAddr:     "",
		RNGSeed:         0,
		ResultQueueSize: 256,
	}
}
