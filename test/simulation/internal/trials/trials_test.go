package trials

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rotawin"
	"github.com/arloliu/rotawin/test/simulation/internal/driver"
	"github.com/arloliu/rotawin/test/simulation/internal/tracker"
)

func params() driver.Params {
	return driver.Params{
		Allocator:      rotawin.Config{IndexSpace: 1000, Parties: 4, WindowSize: 8, GapSize: 0},
		MaxUndelivered: 10,
		DeliverProb:    0.6,
		PayloadLen:     4,
		MaxSteps:       100_000,
	}
}

type recorder struct {
	runs []driver.Result
}

func (r *recorder) ObserveRun(_ int, res driver.Result) {
	r.runs = append(r.runs, res)
}

func TestRun_SingleActiveWastesNothing(t *testing.T) {
	rec := &recorder{}

	stats, err := Run(context.Background(), params(), 1, 20, 9001, Options{Observer: rec})
	require.NoError(t, err)

	require.Equal(t, 4, stats.Parties)
	require.Equal(t, 1, stats.Active)
	require.Equal(t, 20, stats.Trials)
	require.InDelta(t, 0, stats.AvgWasted, 1e-9)
	require.Equal(t, 0, stats.MinWasted)
	require.Equal(t, 0, stats.MaxWasted)
	require.InDelta(t, 1000, stats.AvgUsed, 1e-9)
	require.InDelta(t, 1001, stats.AvgSteps, 1e-9)
	require.Len(t, rec.runs, 20)
}

func TestRun_Aggregates(t *testing.T) {
	rec := &recorder{}

	stats, err := Run(context.Background(), params(), 4, 15, 9004, Options{
		Observer: rec,
		NewRunOptions: func() driver.Options {
			tr := tracker.New()
			return driver.Options{Tracker: tr, Sink: driver.NewMemorySink(tr)}
		},
	})
	require.NoError(t, err)

	var sum int
	for _, r := range rec.runs {
		require.GreaterOrEqual(t, r.Wasted, stats.MinWasted)
		require.LessOrEqual(t, r.Wasted, stats.MaxWasted)
		require.Equal(t, 1000, r.Used+r.Wasted)
		sum += r.Wasted
	}
	require.InDelta(t, float64(sum)/15, stats.AvgWasted, 1e-9)
	require.InDelta(t, 1000-stats.AvgWasted, stats.AvgUsed, 1e-9)
}

func TestRun_Deterministic(t *testing.T) {
	a, err := Run(context.Background(), params(), 2, 10, 42, Options{})
	require.NoError(t, err)
	b, err := Run(context.Background(), params(), 2, 10, 42, Options{})
	require.NoError(t, err)

	require.Equal(t, a, b)
}

func TestRun_ConcurrentRunner(t *testing.T) {
	stats, err := Run(context.Background(), params(), 3, 5, 7, Options{Runner: driver.RunConcurrent})
	require.NoError(t, err)

	// Every party runs to exhaustion, so every window is fully used.
	require.InDelta(t, 1000, stats.AvgUsed, 1e-9)
	require.Equal(t, 0, stats.MaxWasted)
}

func TestRun_Errors(t *testing.T) {
	_, err := Run(context.Background(), params(), 1, 0, 1, Options{})
	require.Error(t, err)

	_, err = Run(context.Background(), params(), 5, 1, 1, Options{})
	require.Error(t, err)

	boom := errors.New("boom")
	_, err = Run(context.Background(), params(), 1, 3, 1, Options{
		Runner: func(context.Context, driver.Params, []int, uint64, driver.Options) (driver.Result, error) {
			return driver.Result{}, boom
		},
	})
	require.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, params(), 1, 3, 1, Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestStats_Summary(t *testing.T) {
	s := Stats{Parties: 4, Active: 2, Trials: 300, AvgWasted: 12.5, MinWasted: 0, MaxWasted: 31, AvgUsed: 9987.5, AvgSteps: 9990.25}

	want := "Scenario S.2 | m=4, n=10000, d=10, w=8, g=0, trials=300\n" +
		"  avg_wasted: 12.50 (min=0, max=31)\n" +
		"  avg_used:   9987.50 | avg_steps: 9990.25\n"
	require.Equal(t, want, s.Summary(10000, 10, 8, 0))
}
