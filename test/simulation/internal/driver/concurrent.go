package driver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/rotawin"
)

// ErrDuplicateIssue is returned by RunConcurrent if two sends got the same pad index.
var ErrDuplicateIssue = errors.New("pad index issued twice")

// RunConcurrent runs one goroutine per active party against a shared allocator.
//
// Each party sends until the allocator reports ErrNoCapacity, delivering its
// own pending messages whenever MaxUndelivered pile up. Every issued pad index
// is recorded in a concurrent map; a second issue of the same index fails the
// run. MaxSteps bounds the total number of sends.
//
// Parameters:
//   - ctx: Context for cancellation
//   - p: Run parameters (DeliverProb is not used)
//   - active: Parties allowed to send, one goroutine each
//   - seed: Base seed; party pid uses seed+pid
//   - opts: Optional sink, tracker, logger and metrics
//
// Returns:
//   - Result: Pad usage; Steps equals Sent
//   - error: First allocation, duplicate, sink or context error
func RunConcurrent(ctx context.Context, p Params, active []int, seed uint64, opts Options) (Result, error) {
	if len(active) == 0 {
		return Result{}, ErrNoActiveParties
	}

	alloc, err := rotawin.NewAllocator(p.Allocator, allocatorOptions(opts)...)
	if err != nil {
		return Result{}, err
	}

	c := &concurrentRun{
		alloc:     alloc,
		params:    p,
		opts:      opts,
		issued:    xsync.NewMap[int, int](),
		sent:      xsync.NewCounter(),
		delivered: xsync.NewCounter(),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, pid := range active {
		wg.Add(1)
		go func(pid int) {
			defer wg.Done()
			if err := c.party(ctx, pid, seed+uint64(pid)); err != nil { //nolint:gosec // pid is a small non-negative id
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				cancel()
			}
		}(pid)
	}
	wg.Wait()

	res := Result{
		Used:      alloc.PadsUsed(),
		Wasted:    alloc.WastedPads(),
		Sent:      int(c.sent.Value()),
		Delivered: int(c.delivered.Value()),
	}
	res.Steps = res.Sent

	return res, errors.Join(errs...)
}

type concurrentRun struct {
	alloc     *rotawin.Allocator
	params    Params
	opts      Options
	issued    *xsync.Map[int, int] // pad index -> sender
	sent      *xsync.Counter
	delivered *xsync.Counter
}

func (c *concurrentRun) party(ctx context.Context, pid int, seed uint64) error {
	rng := NewRand(seed)
	pending := make([]rotawin.Message, 0, c.params.MaxUndelivered)

	flush := func() error {
		for _, msg := range pending {
			c.alloc.Deliver(msg)
			c.delivered.Inc()
			if c.opts.Sink != nil {
				if err := c.opts.Sink.Deliver(ctx, msg); err != nil {
					return err
				}
			}
		}
		pending = pending[:0]

		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.sent.Value() >= int64(c.params.MaxSteps) {
			break
		}

		msg, err := c.alloc.Send(pid, randomPayload(rng, c.params.PayloadLen))
		if errors.Is(err, rotawin.ErrNoCapacity) {
			break
		}
		if err != nil {
			return fmt.Errorf("party %d: %w", pid, err)
		}

		if prev, loaded := c.issued.LoadOrStore(msg.PadIndex, pid); loaded {
			return fmt.Errorf("%w: pad_index=%d first=%d second=%d", ErrDuplicateIssue, msg.PadIndex, prev, pid)
		}
		if c.opts.Tracker != nil {
			if err := c.opts.Tracker.RecordSent(msg); err != nil {
				return err
			}
		}
		c.sent.Inc()

		pending = append(pending, msg)
		if len(pending) >= c.params.MaxUndelivered {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	return flush()
}
