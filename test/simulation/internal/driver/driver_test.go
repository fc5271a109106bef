package driver

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rotawin"
	"github.com/arloliu/rotawin/test/simulation/internal/config"
	"github.com/arloliu/rotawin/test/simulation/internal/tracker"
)

func testParams() Params {
	return Params{
		Allocator:      rotawin.Config{IndexSpace: 2000, Parties: 4, WindowSize: 8, GapSize: 0},
		MaxUndelivered: 10,
		DeliverProb:    0.6,
		PayloadLen:     16,
		MaxSteps:       2_000_000,
	}
}

func TestParamsFromConfig(t *testing.T) {
	cfg := config.Default()
	p := ParamsFromConfig(cfg)

	require.Equal(t, cfg.Allocator, p.Allocator)
	require.Equal(t, 10, p.MaxUndelivered)
	require.InDelta(t, 0.6, p.DeliverProb, 1e-9)
	require.Equal(t, 32, p.PayloadLen)
	require.Equal(t, 2_000_000, p.MaxSteps)
}

func TestPickActive(t *testing.T) {
	rng := NewRand(1)

	for x := 1; x <= 4; x++ {
		active := PickActive(4, x, rng)
		require.Len(t, active, x)

		seen := make(map[int]bool)
		for _, pid := range active {
			require.GreaterOrEqual(t, pid, 0)
			require.Less(t, pid, 4)
			require.False(t, seen[pid], "party %d picked twice", pid)
			seen[pid] = true
		}
	}
}

func TestRun_SingleActivePartyUsesEverything(t *testing.T) {
	p := testParams()

	res, err := Run(context.Background(), p, []int{2}, 7, Options{})
	require.NoError(t, err)

	require.Equal(t, 2000, res.Used)
	require.Equal(t, 0, res.Wasted)
	require.Equal(t, res.Used, res.Sent)
	require.Equal(t, res.Sent+1, res.Steps)
	require.LessOrEqual(t, res.Delivered, res.Sent)
}

func TestRun_Accounting(t *testing.T) {
	p := testParams()
	p.Allocator.GapSize = 2

	for seed := range uint64(10) {
		tr := tracker.New()
		sink := NewMemorySink(tr)

		res, err := Run(context.Background(), p, []int{0, 1, 3}, seed, Options{Sink: sink, Tracker: tr})
		require.NoError(t, err)

		require.Equal(t, p.Allocator.IndexSpace, res.Used+res.Wasted)
		require.Equal(t, res.Sent, res.Used)
		require.Equal(t, res.Delivered, sink.Delivered())

		stats := tr.Stats()
		require.Equal(t, res.Sent, stats.Sent)
		require.Equal(t, res.Delivered, stats.Delivered)
		require.Zero(t, stats.DuplicateCount)
		require.Zero(t, stats.UnknownCount)
	}
}

func TestRun_Deterministic(t *testing.T) {
	p := testParams()

	a, err := Run(context.Background(), p, []int{0, 1}, 42, Options{})
	require.NoError(t, err)
	b, err := Run(context.Background(), p, []int{0, 1}, 42, Options{})
	require.NoError(t, err)

	require.Equal(t, a, b)
}

// boundedSink fails the test if more than limit messages are ever in flight.
type boundedSink struct {
	t       *testing.T
	tracker *tracker.Tracker
	limit   int
}

func (s *boundedSink) Deliver(_ context.Context, msg rotawin.Message) error {
	require.LessOrEqual(s.t, s.tracker.Stats().InFlight, s.limit)
	return s.tracker.RecordDelivered(msg)
}

func TestRun_PendingNeverExceedsLimit(t *testing.T) {
	p := testParams()
	p.MaxUndelivered = 3
	p.DeliverProb = 0.05

	tr := tracker.New()
	_, err := Run(context.Background(), p, []int{0, 1, 2, 3}, 99, Options{
		Sink:    &boundedSink{t: t, tracker: tr, limit: p.MaxUndelivered},
		Tracker: tr,
	})
	require.NoError(t, err)
	require.LessOrEqual(t, tr.Stats().InFlight, p.MaxUndelivered)
}

func TestRun_MaxSteps(t *testing.T) {
	p := testParams()
	p.MaxSteps = 10

	res, err := Run(context.Background(), p, []int{0}, 1, Options{})
	require.NoError(t, err)
	require.Equal(t, 10, res.Steps)
	require.Equal(t, 10, res.Sent)
	require.Equal(t, 10, res.Used)
}

func TestRun_Errors(t *testing.T) {
	t.Run("no active parties", func(t *testing.T) {
		_, err := Run(context.Background(), testParams(), nil, 1, Options{})
		require.ErrorIs(t, err, ErrNoActiveParties)
	})

	t.Run("invalid allocator config", func(t *testing.T) {
		p := testParams()
		p.Allocator.Parties = 1
		_, err := Run(context.Background(), p, []int{0}, 1, Options{})
		require.ErrorIs(t, err, rotawin.ErrInvalidConfiguration)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Run(ctx, testParams(), []int{0}, 1, Options{})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestRunConcurrent(t *testing.T) {
	p := testParams()
	p.Allocator = rotawin.Config{IndexSpace: 20000, Parties: 8, WindowSize: 8, GapSize: 1}

	tr := tracker.New()
	sink := NewMemorySink(tr)

	res, err := RunConcurrent(context.Background(), p, []int{0, 1, 2, 3, 4, 5, 6, 7}, 5, Options{
		Sink:    sink,
		Tracker: tr,
	})
	require.NoError(t, err)

	capacity := (20000 / 9) * 8
	require.Equal(t, capacity, res.Used)
	require.Equal(t, res.Used, res.Sent)
	require.Equal(t, res.Sent, res.Steps)
	require.Equal(t, res.Sent, res.Delivered)
	require.Equal(t, res.Delivered, sink.Delivered())
	require.Equal(t, tracker.Stats{Sent: res.Sent, Delivered: res.Delivered}, tr.Stats())
}

// failingSink rejects every delivery after the first n.
type failingSink struct {
	mu sync.Mutex
	n  int
}

func (s *failingSink) Deliver(context.Context, rotawin.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.n == 0 {
		return tracker.ErrUnknownDelivery
	}
	s.n--

	return nil
}

func TestRunConcurrent_SinkError(t *testing.T) {
	p := testParams()
	p.MaxUndelivered = 1

	_, err := RunConcurrent(context.Background(), p, []int{0, 1}, 1, Options{Sink: &failingSink{n: 5}})
	require.ErrorIs(t, err, tracker.ErrUnknownDelivery)
}

func TestRunConcurrent_NoActiveParties(t *testing.T) {
	_, err := RunConcurrent(context.Background(), testParams(), []int{}, 1, Options{})
	require.ErrorIs(t, err, ErrNoActiveParties)
}
