package rotawin

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/rotawin/internal/logger"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, 10000, cfg.IndexSpace)
	require.Equal(t, 4, cfg.Parties)
	require.Equal(t, 8, cfg.WindowSize)
	require.Equal(t, 0, cfg.GapSize)
	require.NoError(t, cfg.Validate())
}

func TestSetDefaults(t *testing.T) {
	t.Run("applies defaults to empty config", func(t *testing.T) {
		cfg := Config{}
		SetDefaults(&cfg)

		require.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("preserves custom values", func(t *testing.T) {
		cfg := Config{IndexSpace: 100, Parties: 3, WindowSize: 5, GapSize: 2}
		SetDefaults(&cfg)

		require.Equal(t, Config{IndexSpace: 100, Parties: 3, WindowSize: 5, GapSize: 2}, cfg)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "default", cfg: DefaultConfig()},
		{name: "minimal", cfg: Config{IndexSpace: 1, Parties: 2, WindowSize: 1}},
		{name: "window larger than space", cfg: Config{IndexSpace: 3, Parties: 2, WindowSize: 8}},
		{name: "zero index space", cfg: Config{IndexSpace: 0, Parties: 2, WindowSize: 1}, wantErr: true},
		{name: "negative index space", cfg: Config{IndexSpace: -5, Parties: 2, WindowSize: 1}, wantErr: true},
		{name: "single party", cfg: Config{IndexSpace: 10, Parties: 1, WindowSize: 1}, wantErr: true},
		{name: "zero window", cfg: Config{IndexSpace: 10, Parties: 2, WindowSize: 0}, wantErr: true},
		{name: "negative gap", cfg: Config{IndexSpace: 10, Parties: 2, WindowSize: 1, GapSize: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfiguration)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfig_ValidateWithWarnings(t *testing.T) {
	t.Run("clean layout logs nothing", func(t *testing.T) {
		cfg := Config{IndexSpace: 64, Parties: 4, WindowSize: 8}
		cfg.ValidateWithWarnings(logger.NewTest(t))
	})

	t.Run("stride past max int does not panic", func(t *testing.T) {
		cfg := Config{IndexSpace: 10, Parties: 2, WindowSize: math.MaxInt, GapSize: math.MaxInt}
		require.NoError(t, cfg.Validate())
		require.NotPanics(t, func() {
			cfg.ValidateWithWarnings(logger.NewTest(t))
		})
	})

	t.Run("wasteful layout still validates", func(t *testing.T) {
		cfg := Config{IndexSpace: 10, Parties: 4, WindowSize: 1, GapSize: 2}
		require.NoError(t, cfg.Validate())
		cfg.ValidateWithWarnings(logger.NewTest(t))
	})
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	data := []byte("indexSpace: 500\nparties: 3\nwindowSize: 4\ngapSize: 1\n")

	var cfg Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	require.Equal(t, Config{IndexSpace: 500, Parties: 3, WindowSize: 4, GapSize: 1}, cfg)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("fills omitted fields", func(t *testing.T) {
		path := filepath.Join(dir, "partial.yaml")
		require.NoError(t, os.WriteFile(path, []byte("parties: 3\ngapSize: 2\n"), 0o600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, 10000, cfg.IndexSpace)
		require.Equal(t, 3, cfg.Parties)
		require.Equal(t, 8, cfg.WindowSize)
		require.Equal(t, 2, cfg.GapSize)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.yaml")
		require.NoError(t, os.WriteFile(path, []byte("parties: 1\n"), 0o600))

		_, err := LoadConfig(path)
		require.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("parties: [1, 2\n"), 0o600))

		_, err := LoadConfig(path)
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrInvalidConfiguration)
	})
}
