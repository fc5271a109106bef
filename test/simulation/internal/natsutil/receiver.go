package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/rotawin"
	"github.com/arloliu/rotawin/internal/hash"
	"github.com/arloliu/rotawin/test/simulation/internal/tracker"
	"github.com/arloliu/rotawin/types"
)

// ErrChecksumMismatch is recorded when a payload does not match its header checksum.
var ErrChecksumMismatch = errors.New("payload checksum mismatch")

// Receiver subscribes to every party's delivery subject, verifies payload
// checksums and feeds the tracker.
type Receiver struct {
	sub              *nats.Subscription
	tracker          *tracker.Tracker
	logger           types.Logger
	received         *xsync.Counter
	checksumFailures *xsync.Counter
	trackerErrors    *xsync.Counter
}

// ReceiverStats summarizes what a Receiver has seen.
type ReceiverStats struct {
	Received         int
	ChecksumFailures int
	TrackerErrors    int
}

// NewReceiver subscribes to <prefix>.party.*.
//
// Parameters:
//   - nc: NATS connection
//   - prefix: Subject prefix used by the Sink
//   - tr: Tracker validating deliveries; nil disables validation
//   - logger: Logger for rejected messages
//
// Returns:
//   - *Receiver: Active receiver; call Close when done
//   - error: Subscription error
func NewReceiver(nc *nats.Conn, prefix string, tr *tracker.Tracker, logger types.Logger) (*Receiver, error) {
	r := &Receiver{
		tracker:          tr,
		logger:           logger,
		received:         xsync.NewCounter(),
		checksumFailures: xsync.NewCounter(),
		trackerErrors:    xsync.NewCounter(),
	}

	sub, err := nc.Subscribe(prefix+".party.*", r.handle)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	r.sub = sub

	return r, nil
}

func (r *Receiver) handle(m *nats.Msg) {
	var msg rotawin.Message
	if err := json.Unmarshal(m.Data, &msg); err != nil {
		r.logger.Error("undecodable delivery", "subject", m.Subject, "error", err)
		r.trackerErrors.Inc()

		return
	}

	if !hash.VerifyChecksum(msg.Payload, m.Header.Get(ChecksumHeader)) {
		r.checksumFailures.Inc()
		r.logger.Error("delivery rejected", "sender", msg.Sender, "pad_index", msg.PadIndex, "error", ErrChecksumMismatch)

		return
	}

	if r.tracker != nil {
		if err := r.tracker.RecordDelivered(msg); err != nil {
			r.trackerErrors.Inc()
			r.logger.Error("delivery invalid", "sender", msg.Sender, "pad_index", msg.PadIndex, "error", err)
		}
	}
	r.received.Inc()
}

// WaitFor blocks until at least n messages were received or ctx is done.
func (r *Receiver) WaitFor(ctx context.Context, n int) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for int(r.received.Value()) < n {
		select {
		case <-ctx.Done():
			return fmt.Errorf("received %d of %d: %w", r.received.Value(), n, ctx.Err())
		case <-ticker.C:
		}
	}

	return nil
}

// Stats returns the receiver counters.
func (r *Receiver) Stats() ReceiverStats {
	return ReceiverStats{
		Received:         int(r.received.Value()),
		ChecksumFailures: int(r.checksumFailures.Value()),
		TrackerErrors:    int(r.trackerErrors.Value()),
	}
}

// Close unsubscribes.
func (r *Receiver) Close() error {
	return r.sub.Unsubscribe()
}
