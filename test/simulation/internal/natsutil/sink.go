package natsutil

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/nats-io/nats.go"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/rotawin"
	"github.com/arloliu/rotawin/internal/hash"
	rotanats "github.com/arloliu/rotawin/internal/natsutil"
	"github.com/arloliu/rotawin/types"
)

// ChecksumHeader carries the xxh3 checksum of the message payload.
const ChecksumHeader = "Rotawin-Checksum"

// Subject returns the subject a sender's deliveries are published on.
func Subject(prefix string, sender int) string {
	return prefix + ".party." + strconv.Itoa(sender)
}

// Sink publishes delivered messages to NATS.
//
// Connectivity failures do not fail the run: the message is counted as dropped
// and logged. Any other publish error is returned.
type Sink struct {
	nc        *nats.Conn
	prefix    string
	logger    types.Logger
	published *xsync.Counter
	dropped   *xsync.Counter
}

// NewSink creates a NATS delivery sink publishing under prefix.
func NewSink(nc *nats.Conn, prefix string, logger types.Logger) *Sink {
	return &Sink{
		nc:        nc,
		prefix:    prefix,
		logger:    logger,
		published: xsync.NewCounter(),
		dropped:   xsync.NewCounter(),
	}
}

// Deliver publishes msg to <prefix>.party.<sender>.
func (s *Sink) Deliver(_ context.Context, msg rotawin.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	out := nats.NewMsg(Subject(s.prefix, msg.Sender))
	out.Data = data
	out.Header.Set(ChecksumHeader, hash.ChecksumString(msg.Payload))

	if err := s.nc.PublishMsg(out); err != nil {
		if rotanats.IsConnectivityError(err) {
			s.dropped.Inc()
			s.logger.Warn("delivery dropped", "sender", msg.Sender, "pad_index", msg.PadIndex, "error", err)

			return nil
		}

		return fmt.Errorf("failed to publish pad %d: %w", msg.PadIndex, err)
	}
	s.published.Inc()

	return nil
}

// Flush waits until the server has processed everything published so far.
func (s *Sink) Flush(ctx context.Context) error {
	return s.nc.FlushWithContext(ctx)
}

// Published returns the number of messages published.
func (s *Sink) Published() int {
	return int(s.published.Value())
}

// Dropped returns the number of messages lost to connectivity errors.
func (s *Sink) Dropped() int {
	return int(s.dropped.Value())
}
