// Package driver runs single simulation executions against a fresh allocator.
//
// A run picks random senders among the active parties, keeps sent messages in
// a pending list, and hands them back (delivers) in random batches, never
// letting more than MaxUndelivered pile up. The run ends as soon as the chosen
// sender can no longer send.
package driver

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/arloliu/rotawin"
	"github.com/arloliu/rotawin/test/simulation/internal/config"
	"github.com/arloliu/rotawin/test/simulation/internal/tracker"
	"github.com/arloliu/rotawin/types"
)

// ErrNoActiveParties is returned when a run is started with an empty active set.
var ErrNoActiveParties = errors.New("no active parties")

// ctxCheckInterval is how many steps run between context checks.
const ctxCheckInterval = 1024

// Sink receives delivered messages.
//
// Implementations must be safe for concurrent use; RunConcurrent delivers
// from one goroutine per party.
type Sink interface {
	Deliver(ctx context.Context, msg rotawin.Message) error
}

// Params are the per-run knobs.
type Params struct {
	Allocator      rotawin.Config
	MaxUndelivered int     // d
	DeliverProb    float64 // p
	PayloadLen     int
	MaxSteps       int
}

// ParamsFromConfig extracts run parameters from a simulation config.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		Allocator:      cfg.Allocator,
		MaxUndelivered: cfg.Delivery.MaxUndelivered,
		DeliverProb:    cfg.Delivery.Probability,
		PayloadLen:     cfg.Payload.Length,
		MaxSteps:       cfg.Simulation.MaxSteps,
	}
}

// Options carries optional collaborators for a run.
type Options struct {
	Sink    Sink             // Receives every delivered message; nil skips it
	Tracker *tracker.Tracker // Records every sent message; nil skips it
	Logger  types.Logger     // Passed to the allocator
	Metrics types.MetricsCollector
}

// Result summarizes one run.
type Result struct {
	Used      int `json:"used"`
	Wasted    int `json:"wasted"`
	Steps     int `json:"steps"`
	Sent      int `json:"sent"`
	Delivered int `json:"delivered"`
}

// PickActive samples x distinct parties out of m.
//
// Parameters:
//   - m: Total number of parties
//   - x: Number of active parties, 1 <= x <= m
//   - rng: Random source
//
// Returns:
//   - []int: x distinct party ids in random order
func PickActive(m, x int, rng *rand.Rand) []int {
	return rng.Perm(m)[:x]
}

// NewRand returns the deterministic random source used for a run.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // simulation randomness
}

// Run executes one sequential run.
//
// Each step: if pending >= MaxUndelivered, run a delivery round that always
// fires; then run a delivery round that fires with probability DeliverProb;
// then pick a random active sender. The run stops when that sender cannot
// send or MaxSteps is reached.
//
// Parameters:
//   - ctx: Context for cancellation
//   - p: Run parameters
//   - active: Parties allowed to send
//   - seed: Seed for the run's random source
//   - opts: Optional sink, tracker, logger and metrics
//
// Returns:
//   - Result: Pad usage and step counts
//   - error: Configuration, allocation, sink or context error
func Run(ctx context.Context, p Params, active []int, seed uint64, opts Options) (Result, error) {
	if len(active) == 0 {
		return Result{}, ErrNoActiveParties
	}

	alloc, err := rotawin.NewAllocator(p.Allocator, allocatorOptions(opts)...)
	if err != nil {
		return Result{}, err
	}

	r := &run{
		alloc:   alloc,
		rng:     NewRand(seed),
		opts:    opts,
		pending: make([]rotawin.Message, 0, p.MaxUndelivered),
	}

	var res Result
	for res.Steps < p.MaxSteps {
		if res.Steps%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		res.Steps++

		if len(r.pending) >= p.MaxUndelivered {
			if err := r.deliverSome(ctx, 1.0); err != nil {
				return res, err
			}
		}
		if err := r.deliverSome(ctx, p.DeliverProb); err != nil {
			return res, err
		}

		sender := active[r.rng.IntN(len(active))]
		if !alloc.CanSend(sender) {
			break
		}

		msg, err := alloc.Send(sender, randomPayload(r.rng, p.PayloadLen))
		if err != nil {
			return res, fmt.Errorf("step %d: %w", res.Steps, err)
		}
		if opts.Tracker != nil {
			if err := opts.Tracker.RecordSent(msg); err != nil {
				return res, err
			}
		}
		r.pending = append(r.pending, msg)
		res.Sent++
	}

	res.Used = alloc.PadsUsed()
	res.Wasted = alloc.WastedPads()
	res.Delivered = r.delivered

	return res, nil
}

type run struct {
	alloc     *rotawin.Allocator
	rng       *rand.Rand
	opts      Options
	pending   []rotawin.Message
	delivered int
}

// deliverSome delivers between 1 and max(1, len/2) random pending messages,
// with probability prob.
func (r *run) deliverSome(ctx context.Context, prob float64) error {
	if len(r.pending) == 0 {
		return nil
	}
	if r.rng.Float64() > prob {
		return nil
	}

	k := 1 + r.rng.IntN(max(1, len(r.pending)/2))
	for range k {
		if len(r.pending) == 0 {
			break
		}
		idx := r.rng.IntN(len(r.pending))
		msg := r.pending[idx]
		r.pending = slices.Delete(r.pending, idx, idx+1)

		if err := r.deliver(ctx, msg); err != nil {
			return err
		}
	}

	return nil
}

func (r *run) deliver(ctx context.Context, msg rotawin.Message) error {
	r.alloc.Deliver(msg)
	r.delivered++

	if r.opts.Sink == nil {
		return nil
	}

	return r.opts.Sink.Deliver(ctx, msg)
}

func randomPayload(rng *rand.Rand, n int) []byte {
	payload := make([]byte, n)
	for i := range payload {
		payload[i] = byte(rng.Uint32())
	}

	return payload
}

func allocatorOptions(opts Options) []rotawin.Option {
	var out []rotawin.Option
	if opts.Logger != nil {
		out = append(out, rotawin.WithLogger(opts.Logger))
	}
	if opts.Metrics != nil {
		out = append(out, rotawin.WithMetrics(opts.Metrics))
	}

	return out
}
