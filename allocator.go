package rotawin

import (
	"fmt"
	"sync"

	"github.com/arloliu/rotawin/internal/claim"
	"github.com/arloliu/rotawin/internal/hooks"
	"github.com/arloliu/rotawin/internal/layout"
	"github.com/arloliu/rotawin/internal/ledger"
	"github.com/arloliu/rotawin/internal/logger"
	"github.com/arloliu/rotawin/internal/metrics"
)

const noWindow = -1

// Allocator hands out single-use pad indices to competing parties.
//
// Each party owns at most one window at a time and issues indices from it in
// increasing order. When the window is used up the party claims another one,
// preferring its own round-robin slot and falling back to the lowest
// unclaimed window. Windows are never returned.
//
// All methods are safe for concurrent use. Send and the claim it may trigger
// are one atomic step under a single lock.
type Allocator struct {
	mu sync.RWMutex

	cfg     Config
	layout  layout.Layout
	table   *claim.Table
	ledger  *ledger.Ledger
	parties []partyState

	logger  Logger
	metrics MetricsCollector
	hooks   Hooks
}

// partyState is the per-party issuance cursor.
type partyState struct {
	window    int // owned window index, or noWindow
	offset    int // next index within the window is Start+offset
	exhausted bool
}

// PartySnapshot is a point-in-time view of one party.
type PartySnapshot struct {
	Party         int        `json:"party"`
	State         PartyState `json:"state"`
	CurrentWindow int        `json:"currentWindow"` // -1 when no window is owned
	Offset        int        `json:"offset"`
	NextPreferred int        `json:"nextPreferred"`
}

// Snapshot is a consistent point-in-time view of the allocator.
type Snapshot struct {
	Parties          []PartySnapshot `json:"parties"`
	Owners           []int           `json:"owners"` // window -> party, -1 if unclaimed
	NextUnclaimed    int             `json:"nextUnclaimed"`
	PadsUsed         int             `json:"padsUsed"`
	WindowsRemaining int             `json:"windowsRemaining"`
}

// sendEvent collects what happened under the lock so that logging, metrics and
// hooks can run after it is released.
type sendEvent struct {
	party      int
	claimed    bool
	window     Window
	windowIdx  int
	path       ClaimPath
	remaining  int
	issued     bool
	padIndex   int
	noCapacity bool
	exhausted  bool
	violation  bool
}

// New creates an allocator from the four layout parameters.
//
// Parameters:
//   - n: Size of the index space [1, n], must be > 0
//   - m: Number of parties, must be >= 2
//   - w: Window size, must be > 0
//   - g: Gap after each window, must be >= 0
//   - opts: Optional logger, metrics and hooks
//
// Returns:
//   - *Allocator: Ready allocator with every window unclaimed
//   - error: Error wrapping ErrInvalidConfiguration if a parameter is out of domain
//
// Example:
//
//	alloc, err := rotawin.New(10000, 4, 8, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	msg, err := alloc.Send(0, []byte("hello"))
func New(n, m, w, g int, opts ...Option) (*Allocator, error) {
	return NewAllocator(Config{
		IndexSpace: n,
		Parties:    m,
		WindowSize: w,
		GapSize:    g,
	}, opts...)
}

// NewAllocator creates an allocator from a Config.
//
// Parameters:
//   - cfg: Layout configuration, validated but never defaulted
//   - opts: Optional logger, metrics and hooks
//
// Returns:
//   - *Allocator: Ready allocator with every window unclaimed
//   - error: Error wrapping ErrInvalidConfiguration if cfg is invalid
func NewAllocator(cfg Config, opts ...Option) (*Allocator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &allocatorOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = logger.NewNop()
	}
	if options.metrics == nil {
		options.metrics = metrics.NewNop()
	}

	lay := layout.New(cfg.IndexSpace, cfg.WindowSize, cfg.GapSize)

	a := &Allocator{
		cfg:     cfg,
		layout:  lay,
		table:   claim.New(lay.NumWindows(), cfg.Parties),
		ledger:  ledger.New(cfg.IndexSpace),
		parties: make([]partyState, cfg.Parties),
		logger:  options.logger,
		metrics: options.metrics,
		hooks:   hooks.Fill(options.hooks),
	}
	for p := range a.parties {
		a.parties[p].window = noWindow
	}

	cfg.ValidateWithWarnings(a.logger)

	a.metrics.SetCapacity(lay.Capacity())
	a.metrics.SetWindowsRemaining(lay.NumWindows())

	a.logger.Debug("allocator created",
		"indexSpace", cfg.IndexSpace,
		"parties", cfg.Parties,
		"windowSize", cfg.WindowSize,
		"gapSize", cfg.GapSize,
		"windows", lay.NumWindows(),
		"capacity", lay.Capacity(),
	)

	return a, nil
}

// CanSend reports whether Send(pid, ...) would currently succeed.
//
// The answer is advisory under concurrency: another party may claim the last
// window between CanSend and Send. Once Send has returned ErrNoCapacity for a
// party, CanSend stays false for it forever.
//
// An out-of-range pid is a caller bug, not a party without capacity. CanSend
// reports false and logs a warning for it; use PartyState to get
// ErrInvalidParty instead.
func (a *Allocator) CanSend(pid int) bool {
	if !a.validParty(pid) {
		a.logger.Warn("CanSend called with invalid party", "party", pid, "parties", a.cfg.Parties)

		return false
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	p := a.parties[pid]
	if p.window != noWindow && p.offset < a.layout.WindowSize() {
		return true
	}

	return a.table.CanClaim(pid)
}

// Send issues the next pad index for party pid and wraps payload in a Message.
//
// If the party has no window, or its window is used up, a new window is
// claimed first. The payload is not copied or inspected.
//
// Parameters:
//   - pid: Sending party in [0, Parties)
//   - payload: Opaque message body
//
// Returns:
//   - Message: Message carrying the sender and the freshly issued pad index
//   - error: ErrInvalidParty, ErrNoCapacity or ErrUniquenessViolation (wrapped)
func (a *Allocator) Send(pid int, payload []byte) (Message, error) {
	if !a.validParty(pid) {
		return Message{}, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidParty, pid, a.cfg.Parties)
	}

	a.mu.Lock()
	msg, ev, err := a.sendLocked(pid, payload)
	a.mu.Unlock()

	a.emit(ev)

	return msg, err
}

func (a *Allocator) sendLocked(pid int, payload []byte) (Message, sendEvent, error) {
	ev := sendEvent{party: pid}
	p := &a.parties[pid]

	if p.window == noWindow || p.offset >= a.layout.WindowSize() {
		b, path, ok := a.table.Claim(pid)
		if !ok {
			p.window = noWindow
			ev.noCapacity = true
			if !p.exhausted {
				p.exhausted = true
				ev.exhausted = true
			}

			return Message{}, ev, fmt.Errorf("party %d: %w", pid, ErrNoCapacity)
		}

		p.window, p.offset = b, 0
		ev.claimed = true
		ev.windowIdx = b
		ev.window = a.layout.Window(b)
		ev.path = path
		ev.remaining = a.table.Remaining()
	}

	padIndex := a.layout.Window(p.window).Start + p.offset
	if a.ledger.Issued(padIndex) {
		ev.violation = true
		ev.padIndex = padIndex

		return Message{}, ev, &UniquenessViolationError{Party: pid, PadIndex: padIndex}
	}
	if err := a.ledger.Mark(padIndex); err != nil {
		return Message{}, ev, fmt.Errorf("party %d: %w", pid, err)
	}

	p.offset++
	if p.offset >= a.layout.WindowSize() {
		p.window = noWindow
		p.offset = 0
	}

	ev.issued = true
	ev.padIndex = padIndex

	return Message{Sender: pid, PadIndex: padIndex, Payload: payload}, ev, nil
}

// emit runs logging, metrics and hooks for a send, outside the lock.
func (a *Allocator) emit(ev sendEvent) {
	if ev.claimed {
		a.logger.Debug("window claimed",
			"party", ev.party,
			"window", ev.windowIdx,
			"range", ev.window.String(),
			"path", ev.path.String(),
		)
		a.metrics.RecordWindowClaimed(ev.party, ev.path.String())
		a.metrics.SetWindowsRemaining(ev.remaining)
		a.hooks.OnWindowClaimed(ev.party, ev.window, ev.path)
	}

	if ev.issued {
		a.metrics.RecordPadIssued(ev.party)
	}

	if ev.noCapacity {
		a.metrics.RecordNoCapacity(ev.party)
	}
	if ev.exhausted {
		a.logger.Info("party exhausted", "party", ev.party)
		a.hooks.OnExhausted(ev.party)
	}

	if ev.violation {
		a.logger.Error("pad index reused", "party", ev.party, "pad_index", ev.padIndex)
		a.metrics.RecordUniquenessViolation()
	}
}

// Deliver hands a previously sent message back to the allocator.
//
// Delivery has no effect on allocation state: windows are never released and
// pad indices are never reused. It is only counted for metrics.
func (a *Allocator) Deliver(msg Message) {
	a.metrics.RecordDelivered(msg.Sender)
}

// PadsUsed returns how many distinct pad indices have been issued.
func (a *Allocator) PadsUsed() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.ledger.Count()
}

// WastedPads returns IndexSpace - PadsUsed: gaps, the unusable tail and any
// window slots never issued.
func (a *Allocator) WastedPads() int {
	return a.cfg.IndexSpace - a.PadsUsed()
}

// Capacity returns NumWindows * WindowSize, the most indices that can ever be issued.
func (a *Allocator) Capacity() int {
	return a.layout.Capacity()
}

// Config returns the configuration the allocator was built with.
func (a *Allocator) Config() Config {
	return a.cfg
}

// Windows returns a copy of the window layout in index order.
func (a *Allocator) Windows() []Window {
	return a.layout.Windows()
}

// NumWindows returns the number of full windows in the layout.
func (a *Allocator) NumWindows() int {
	return a.layout.NumWindows()
}

// Stride returns WindowSize + GapSize.
func (a *Allocator) Stride() int {
	return a.layout.Stride()
}

// WindowOf returns the window containing padIndex, or false if the index is
// in a gap, in the unusable tail or outside [1, IndexSpace].
func (a *Allocator) WindowOf(padIndex int) (int, bool) {
	return a.layout.WindowOf(padIndex)
}

// Owner returns the party owning window, or false if it is unclaimed or out of range.
func (a *Allocator) Owner(window int) (int, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.table.Owner(window)
}

// PartyState returns the lifecycle state of party pid.
//
// Returns:
//   - PartyState: PartyNoWindow, PartyOwning or PartyExhausted
//   - error: Error wrapping ErrInvalidParty for out-of-range ids
func (a *Allocator) PartyState(pid int) (PartyState, error) {
	if !a.validParty(pid) {
		return PartyNoWindow, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidParty, pid, a.cfg.Parties)
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.stateLocked(pid), nil
}

// Snapshot returns a consistent copy of the allocator state.
func (a *Allocator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	snap := Snapshot{
		Parties:          make([]PartySnapshot, len(a.parties)),
		Owners:           a.table.Owners(),
		NextUnclaimed:    a.table.NextUnclaimed(),
		PadsUsed:         a.ledger.Count(),
		WindowsRemaining: a.table.Remaining(),
	}
	for pid, p := range a.parties {
		snap.Parties[pid] = PartySnapshot{
			Party:         pid,
			State:         a.stateLocked(pid),
			CurrentWindow: p.window,
			Offset:        p.offset,
			NextPreferred: a.table.NextPreferred(pid),
		}
	}

	return snap
}

func (a *Allocator) stateLocked(pid int) PartyState {
	p := a.parties[pid]
	switch {
	case p.exhausted:
		return PartyExhausted
	case p.window != noWindow:
		return PartyOwning
	default:
		return PartyNoWindow
	}
}

func (a *Allocator) validParty(pid int) bool {
	return pid >= 0 && pid < a.cfg.Parties
}
