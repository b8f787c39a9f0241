package datadisplay

import (
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/config"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// Policy controls refresh cadence, paging and fetch backoff.
	Policy = ports.Policy
	// APIConfig points at the backend API.
	APIConfig = config.APIConfig
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
	// JournalConfig configures the on-disk datapoint journal.
	JournalConfig = config.JournalConfig
	// ExportConfig configures the Postgres export target.
	ExportConfig = config.ExportConfig
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// DefaultConfig returns a validated-by-construction configuration for a local backend.
func DefaultConfig() *Config {
	return config.Default()
}

// DefaultPolicy returns the dashboard defaults: 1s refresh and 10 rows per page.
func DefaultPolicy() Policy {
	return ports.DefaultPolicy()
}
