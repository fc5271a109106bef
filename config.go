package rotawin

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/rotawin/internal/layout"
)

// Config is the construction-time configuration of an Allocator.
//
// The index space [1, IndexSpace] is cut into windows of WindowSize indices,
// each followed by GapSize unused indices. Only full windows are created.
type Config struct {
	// IndexSpace is n, the number of single-use indices. Must be > 0.
	IndexSpace int `yaml:"indexSpace"`

	// Parties is m, the number of competing parties. Must be >= 2.
	// Parties are identified by 0..Parties-1.
	Parties int `yaml:"parties"`

	// WindowSize is w, the number of contiguous indices owned as a unit. Must be > 0.
	WindowSize int `yaml:"windowSize"`

	// GapSize is g, the number of unused indices after each window. Must be >= 0.
	GapSize int `yaml:"gapSize"`
}

// DefaultConfig returns the reference configuration: 10000 indices, 4 parties,
// windows of 8 and no gaps.
func DefaultConfig() Config {
	return Config{
		IndexSpace: 10000,
		Parties:    4,
		WindowSize: 8,
		GapSize:    0,
	}
}

// SetDefaults fills zero IndexSpace, Parties and WindowSize with defaults.
//
// GapSize is left alone because zero is a meaningful value. New and
// NewAllocator never call SetDefaults; it is meant for configuration loaded
// from files where an omitted field should fall back to the default.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.IndexSpace == 0 {
		cfg.IndexSpace = defaults.IndexSpace
	}
	if cfg.Parties == 0 {
		cfg.Parties = defaults.Parties
	}
	if cfg.WindowSize == 0 {
		cfg.WindowSize = defaults.WindowSize
	}
}

// Validate checks the configuration domain.
//
// Rules:
//   - IndexSpace > 0
//   - Parties >= 2
//   - WindowSize > 0
//   - GapSize >= 0
//
// Returns:
//   - error: Error wrapping ErrInvalidConfiguration and naming the first bad field, nil if valid
func (cfg *Config) Validate() error {
	if cfg.IndexSpace <= 0 {
		return fmt.Errorf("%w: IndexSpace must be > 0, got %d", ErrInvalidConfiguration, cfg.IndexSpace)
	}
	if cfg.Parties < 2 {
		return fmt.Errorf("%w: Parties must be >= 2, got %d", ErrInvalidConfiguration, cfg.Parties)
	}
	if cfg.WindowSize <= 0 {
		return fmt.Errorf("%w: WindowSize must be > 0, got %d", ErrInvalidConfiguration, cfg.WindowSize)
	}
	if cfg.GapSize < 0 {
		return fmt.Errorf("%w: GapSize must be >= 0, got %d", ErrInvalidConfiguration, cfg.GapSize)
	}

	return nil
}

// ValidateWithWarnings logs warnings for valid but wasteful layouts.
//
// Called after Validate() when an allocator is built.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	lay := layout.New(cfg.IndexSpace, cfg.WindowSize, cfg.GapSize)
	windows := lay.NumWindows()

	if windows < cfg.Parties {
		logger.Warn(
			"fewer windows than parties, some parties have no preferred window",
			"windows", windows,
			"parties", cfg.Parties,
		)
	}

	if tail := lay.UnusableTail(); tail > 0 {
		logger.Warn(
			"index space does not divide into whole strides, tail is unusable",
			"tail", tail,
			"stride", lay.Stride(),
		)
	}

	// 2g > w+g, written without the overflowing sum
	if cfg.GapSize > cfg.WindowSize {
		logger.Warn(
			"gaps waste more than half of the index space",
			"gapSize", cfg.GapSize,
			"windowSize", cfg.WindowSize,
		)
	}
}

// LoadConfig reads a YAML allocator configuration from path.
//
// Omitted fields fall back to DefaultConfig via SetDefaults, then the result
// is validated.
//
// Parameters:
//   - path: Path to the YAML file
//
// Returns:
//   - Config: Loaded configuration
//   - error: Read, parse or validation error
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	SetDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
