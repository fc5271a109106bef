package config

import "github.com/arloliu/rotawin"

// applyDefaults applies default values to configuration fields that are not set.
//
// Zero means "unset" for every numeric field, so a delivery probability of
// exactly 0 cannot be configured; use a tiny positive value instead.
//
//nolint:cyclop // one branch per field
func applyDefaults(cfg *Config) {
	// Allocator defaults: n=10000, m=4, w=8, g=0
	rotawin.SetDefaults(&cfg.Allocator)

	// Simulation defaults
	if cfg.Simulation.Trials == 0 {
		cfg.Simulation.Trials = 300
	}
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = 9000
	}
	if len(cfg.Simulation.ActiveCounts) == 0 {
		if cfg.Allocator.Parties == 4 {
			cfg.Simulation.ActiveCounts = []int{1, 2, 4}
		} else {
			cfg.Simulation.ActiveCounts = []int{1, 2, 3}
		}
	}
	if cfg.Simulation.MaxSteps == 0 {
		cfg.Simulation.MaxSteps = 2_000_000
	}
	if cfg.Simulation.Mode == "" {
		cfg.Simulation.Mode = ModeSequential
	}

	// Delivery defaults
	if cfg.Delivery.MaxUndelivered == 0 {
		cfg.Delivery.MaxUndelivered = 10
	}
	if cfg.Delivery.Probability == 0 {
		cfg.Delivery.Probability = 0.6
	}
	if cfg.Delivery.Transport == "" {
		cfg.Delivery.Transport = TransportMemory
	}

	// Payload defaults
	if cfg.Payload.Length == 0 {
		cfg.Payload.Length = 32
	}

	// NATS defaults
	if cfg.NATS.Mode == "" {
		cfg.NATS.Mode = NATSEmbedded
	}
	if cfg.NATS.URL == "" {
		cfg.NATS.URL = "nats://localhost:4222"
	}
	if cfg.NATS.SubjectPrefix == "" {
		cfg.NATS.SubjectPrefix = "rotawin.sim"
	}

	// Metrics defaults
	if cfg.Metrics.Prometheus.Port == 0 {
		cfg.Metrics.Prometheus.Port = 9090
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
