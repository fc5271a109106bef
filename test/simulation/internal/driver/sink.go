package driver

import (
	"context"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/rotawin"
	"github.com/arloliu/rotawin/test/simulation/internal/tracker"
)

// MemorySink counts deliveries in process and optionally validates them
// against a tracker.
type MemorySink struct {
	tracker   *tracker.Tracker
	delivered *xsync.Counter
}

var _ Sink = (*MemorySink)(nil)

// NewMemorySink creates an in-memory sink. A nil tracker disables validation.
func NewMemorySink(tr *tracker.Tracker) *MemorySink {
	return &MemorySink{
		tracker:   tr,
		delivered: xsync.NewCounter(),
	}
}

// Deliver records msg.
func (s *MemorySink) Deliver(_ context.Context, msg rotawin.Message) error {
	s.delivered.Inc()
	if s.tracker == nil {
		return nil
	}

	return s.tracker.RecordDelivered(msg)
}

// Delivered returns the number of messages delivered so far.
func (s *MemorySink) Delivered() int {
	return int(s.delivered.Value())
}
