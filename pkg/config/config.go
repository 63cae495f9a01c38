// Package config provides the configuration system for colmux.
// It defines a single StoreConfig structure used when registering a schema,
// ensuring consistent configuration across every store instance.
//
// The configuration is organized into logical sections:
//   - Allocation: Default capacity and index-space bound
//   - Observability: Logging and metrics settings
//
// Example usage:
//
//	cfg := config.NewStoreConfig("particles")
//	cfg.Allocation.DefaultCapacity = 512
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import "fmt"

// DefaultCapacity is the capacity a logical array receives when the caller
// does not request one.
const DefaultCapacity = 256

// StoreConfig is the configuration structure consumed by a schema builder.
type StoreConfig struct {
	// Name identifies the schema instance
	Name string `yaml:"name" json:"name"`
	// Version indicates the configuration version
	Version string `yaml:"version" json:"version"`

	// Allocation settings control the range allocator
	Allocation AllocationConfig `yaml:"allocation" json:"allocation"`

	// Observability settings for monitoring and debugging
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// AllocationConfig contains range-allocator settings.
type AllocationConfig struct {
	// DefaultCapacity is the capacity used by New when none is requested
	DefaultCapacity int `yaml:"default_capacity" json:"default_capacity"`
	// MaxIndex is an optional upper bound on the global index space.
	// Zero means unbounded. Exceeding the bound is reported through the
	// diagnostic sink but never blocks an allocation.
	MaxIndex uint64 `yaml:"max_index" json:"max_index"`
}

// ObservabilityConfig contains monitoring and observability settings.
type ObservabilityConfig struct {
	// EnableMetrics activates Prometheus metrics collection
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics"`
	// EnableLogging controls logging output
	EnableLogging bool `yaml:"enable_logging" json:"enable_logging"`
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// NewStoreConfig creates a new StoreConfig with sensible defaults.
func NewStoreConfig(name string) *StoreConfig {
	return &StoreConfig{
		Name:    name,
		Version: "1.0.0",
		Allocation: AllocationConfig{
			DefaultCapacity: DefaultCapacity,
			MaxIndex:        0,
		},
		Observability: ObservabilityConfig{
			EnableMetrics: true,
			EnableLogging: true,
			LogLevel:      "info",
		},
	}
}

// Validate validates the configuration for correctness.
// Schema builders call this before constructing a store to catch errors early.
func (sc *StoreConfig) Validate() error {
	if sc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if sc.Allocation.DefaultCapacity <= 0 {
		return fmt.Errorf("default_capacity must be positive")
	}
	return nil
}
