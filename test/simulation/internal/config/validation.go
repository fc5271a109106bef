package config

import (
	"errors"
	"fmt"
)

// validateConfig validates the configuration for logical consistency.
func validateConfig(cfg *Config) error { //nolint:cyclop
	if err := cfg.Allocator.Validate(); err != nil {
		return fmt.Errorf("allocator: %w", err)
	}

	// Validate simulation
	if cfg.Simulation.Mode != ModeSequential && cfg.Simulation.Mode != ModeConcurrent {
		return fmt.Errorf("invalid simulation mode: %s (must be one of: sequential, concurrent)", cfg.Simulation.Mode)
	}
	if cfg.Simulation.Trials <= 0 {
		return errors.New("trials must be positive")
	}
	if cfg.Simulation.MaxSteps <= 0 {
		return errors.New("max steps must be positive")
	}
	for _, x := range cfg.Simulation.ActiveCounts {
		if x < 1 || x > cfg.Allocator.Parties {
			return fmt.Errorf("active count %d out of range [1, %d]", x, cfg.Allocator.Parties)
		}
	}

	// Validate delivery
	if cfg.Delivery.MaxUndelivered <= 0 {
		return errors.New("max undelivered must be positive")
	}
	if cfg.Delivery.Probability < 0 || cfg.Delivery.Probability > 1 {
		return fmt.Errorf("delivery probability must be in [0, 1], got %v", cfg.Delivery.Probability)
	}
	if cfg.Delivery.Transport != TransportMemory && cfg.Delivery.Transport != TransportNATS {
		return fmt.Errorf("invalid delivery transport: %s (must be one of: memory, nats)", cfg.Delivery.Transport)
	}

	if cfg.Payload.Length < 0 {
		return errors.New("payload length cannot be negative")
	}

	// Validate NATS
	if cfg.NATS.Mode != NATSEmbedded && cfg.NATS.Mode != NATSExternal {
		return fmt.Errorf("invalid NATS mode: %s (must be one of: embedded, external)", cfg.NATS.Mode)
	}
	if cfg.NATS.Mode == NATSExternal && cfg.NATS.URL == "" {
		return errors.New("NATS URL required in external mode")
	}

	// Validate metrics
	if cfg.Metrics.Prometheus.Enabled {
		if cfg.Metrics.Prometheus.Port <= 0 || cfg.Metrics.Prometheus.Port > 65535 {
			return errors.New("prometheus port must be between 1 and 65535")
		}
	}

	return nil
}
