// Package config loads the scenario driver's YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/rotawin"
)

// Simulation modes.
const (
	ModeSequential = "sequential"
	ModeConcurrent = "concurrent"
)

// Delivery transports.
const (
	TransportMemory = "memory"
	TransportNATS   = "nats"
)

// NATS modes.
const (
	NATSEmbedded = "embedded"
	NATSExternal = "external"
)

// Config is the root configuration structure.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Allocator  rotawin.Config   `yaml:"allocator"`
	Delivery   DeliveryConfig   `yaml:"delivery"`
	Payload    PayloadConfig    `yaml:"payload"`
	NATS       NATSConfig       `yaml:"nats"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SimulationConfig configures the trial runner.
type SimulationConfig struct {
	Trials       int    `yaml:"trials"`       // Runs per scenario, e.g. 300
	Seed         uint64 `yaml:"seed"`         // Base seed; scenario x uses Seed+x
	ActiveCounts []int  `yaml:"activeCounts"` // Scenario list: number of active parties per run
	MaxSteps     int    `yaml:"maxSteps"`     // Step limit per run
	Mode         string `yaml:"mode"`         // "sequential", "concurrent"
}

// DeliveryConfig configures how sent messages are handed back.
type DeliveryConfig struct {
	MaxUndelivered int     `yaml:"maxUndelivered"` // d: pending count that forces a full delivery round
	Probability    float64 `yaml:"probability"`    // Chance of a partial delivery round per step
	Transport      string  `yaml:"transport"`      // "memory", "nats"
}

// PayloadConfig configures generated message payloads.
type PayloadConfig struct {
	Length int `yaml:"length"` // Random payload bytes per message
}

// NATSConfig configures the NATS connection used by the nats transport and
// the results bucket.
type NATSConfig struct {
	Mode          string `yaml:"mode"`          // "embedded", "external"
	URL           string `yaml:"url"`           // "nats://localhost:4222"
	SubjectPrefix string `yaml:"subjectPrefix"` // Messages go to <prefix>.party.<sender>
	ResultsBucket string `yaml:"resultsBucket"` // KV bucket for per-scenario stats, empty disables
}

// MetricsConfig configures metrics collection.
type MetricsConfig struct {
	Prometheus PrometheusConfig `yaml:"prometheus"`
}

// PrometheusConfig configures the Prometheus endpoint.
type PrometheusConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"` // 9090
}

// LoggingConfig configures driver logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// UsesNATS reports whether any component needs a NATS connection.
func (c *Config) UsesNATS() bool {
	return c.Delivery.Transport == TransportNATS || c.NATS.ResultsBucket != ""
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)

	return cfg
}

// LoadConfig loads configuration from a YAML file.
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded configuration with defaults applied
//   - error: Error if file cannot be read, parsed or validated
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
