// Package trials repeats driver runs for one scenario and aggregates waste.
package trials

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/arloliu/rotawin/internal/hash"
	"github.com/arloliu/rotawin/test/simulation/internal/driver"
)

// Runner executes one run. driver.Run and driver.RunConcurrent both fit.
type Runner func(ctx context.Context, p driver.Params, active []int, seed uint64, opts driver.Options) (driver.Result, error)

// Observer is notified after every finished run.
type Observer interface {
	ObserveRun(scenario int, res driver.Result)
}

// Stats aggregates the runs of one scenario.
type Stats struct {
	Parties   int     `json:"m"`
	Active    int     `json:"x"`
	Trials    int     `json:"trials"`
	AvgWasted float64 `json:"avgWasted"`
	MinWasted int     `json:"minWasted"`
	MaxWasted int     `json:"maxWasted"`
	AvgUsed   float64 `json:"avgUsed"`
	AvgSteps  float64 `json:"avgSteps"`
}

// Options configures a trial series.
type Options struct {
	Runner   Runner // driver.Run if nil
	Observer Observer
	// NewRunOptions builds per-run driver options, for example a fresh
	// tracker per run. Nil means empty options.
	NewRunOptions func() driver.Options
}

// Run executes trials runs with x active parties each.
//
// A scenario-level random source seeded with seed picks the active set of
// every trial; each run's own seed is derived from (seed, x, trial).
//
// Parameters:
//   - ctx: Context for cancellation, checked between runs
//   - p: Run parameters
//   - x: Number of active parties per run
//   - trials: Number of runs, > 0
//   - seed: Scenario seed
//   - opts: Runner, observer and per-run options
//
// Returns:
//   - Stats: Aggregated waste and usage
//   - error: First run error, or ctx error
func Run(ctx context.Context, p driver.Params, x, trials int, seed uint64, opts Options) (Stats, error) {
	if trials <= 0 {
		return Stats{}, errors.New("trials must be positive")
	}
	if x < 1 || x > p.Allocator.Parties {
		return Stats{}, fmt.Errorf("active count %d out of range [1, %d]", x, p.Allocator.Parties)
	}

	runner := opts.Runner
	if runner == nil {
		runner = driver.Run
	}

	rng := driver.NewRand(seed)
	stats := Stats{
		Parties:   p.Allocator.Parties,
		Active:    x,
		Trials:    trials,
		MinWasted: math.MaxInt,
		MaxWasted: math.MinInt,
	}

	var wasted, used, steps int
	for trial := range trials {
		if err := ctx.Err(); err != nil {
			return Stats{}, err
		}

		active := driver.PickActive(p.Allocator.Parties, x, rng)

		var runOpts driver.Options
		if opts.NewRunOptions != nil {
			runOpts = opts.NewRunOptions()
		}

		res, err := runner(ctx, p, active, hash.DeriveSeed(seed, x, trial), runOpts)
		if err != nil {
			return Stats{}, fmt.Errorf("scenario %d trial %d: %w", x, trial, err)
		}
		if opts.Observer != nil {
			opts.Observer.ObserveRun(x, res)
		}

		wasted += res.Wasted
		used += res.Used
		steps += res.Steps
		stats.MinWasted = min(stats.MinWasted, res.Wasted)
		stats.MaxWasted = max(stats.MaxWasted, res.Wasted)
	}

	n := float64(trials)
	stats.AvgWasted = float64(wasted) / n
	stats.AvgUsed = float64(used) / n
	stats.AvgSteps = float64(steps) / n

	return stats, nil
}

// Summary formats stats the way the command prints them.
func (s Stats) Summary(n, d, w, g int) string {
	return fmt.Sprintf(
		"Scenario S.%d | m=%d, n=%d, d=%d, w=%d, g=%d, trials=%d\n"+
			"  avg_wasted: %.2f (min=%d, max=%d)\n"+
			"  avg_used:   %.2f | avg_steps: %.2f\n",
		s.Active, s.Parties, n, d, w, g, s.Trials,
		s.AvgWasted, s.MinWasted, s.MaxWasted,
		s.AvgUsed, s.AvgSteps,
	)
}
