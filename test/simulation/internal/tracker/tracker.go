// Package tracker checks the delivery side of a simulation run: every
// delivered pad index must have been sent, and none may arrive twice.
package tracker

import (
	"errors"
	"fmt"
	"sync"

	"github.com/arloliu/rotawin"
)

// Sentinel errors for delivery checks.
var (
	ErrDuplicateDelivery = errors.New("duplicate pad index delivered")
	ErrUnknownDelivery   = errors.New("delivered pad index was never sent")
	ErrSenderMismatch    = errors.New("delivered sender does not match sent sender")
)

// DuplicateDeliveryError wraps duplicate delivery details.
type DuplicateDeliveryError struct {
	Sender   int
	PadIndex int
}

func (e *DuplicateDeliveryError) Error() string {
	return fmt.Sprintf("duplicate pad index delivered: sender=%d pad_index=%d", e.Sender, e.PadIndex)
}

func (e *DuplicateDeliveryError) Unwrap() error {
	return ErrDuplicateDelivery
}

// SenderMismatchError reports a delivered message whose sender differs from
// the party that was issued the pad index.
type SenderMismatchError struct {
	PadIndex int
	SentBy   int
	Got      int
}

func (e *SenderMismatchError) Error() string {
	return fmt.Sprintf("sender mismatch: pad_index=%d sent_by=%d delivered_as=%d", e.PadIndex, e.SentBy, e.Got)
}

func (e *SenderMismatchError) Unwrap() error {
	return ErrSenderMismatch
}

// Tracker records sent and delivered pad indices. It is safe for concurrent use.
type Tracker struct {
	mu             sync.RWMutex
	sentBy         map[int]int // pad index -> sender
	delivered      map[int]struct{}
	duplicateCount int
	unknownCount   int
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{
		sentBy:    make(map[int]int),
		delivered: make(map[int]struct{}),
	}
}

// RecordSent records that msg was issued by the allocator.
//
// Returns:
//   - error: DuplicateDeliveryError if the pad index was already sent
func (t *Tracker) RecordSent(msg rotawin.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.sentBy[msg.PadIndex]; exists {
		t.duplicateCount++
		return &DuplicateDeliveryError{Sender: msg.Sender, PadIndex: msg.PadIndex}
	}
	t.sentBy[msg.PadIndex] = msg.Sender

	return nil
}

// RecordDelivered records that msg reached its receiver and validates it.
//
// Returns:
//   - error: Unknown, mismatched or duplicate delivery
func (t *Tracker) RecordDelivered(msg rotawin.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	sender, sent := t.sentBy[msg.PadIndex]
	if !sent {
		t.unknownCount++
		return fmt.Errorf("%w: sender=%d pad_index=%d", ErrUnknownDelivery, msg.Sender, msg.PadIndex)
	}
	if sender != msg.Sender {
		return &SenderMismatchError{PadIndex: msg.PadIndex, SentBy: sender, Got: msg.Sender}
	}

	if _, dup := t.delivered[msg.PadIndex]; dup {
		t.duplicateCount++
		return &DuplicateDeliveryError{Sender: msg.Sender, PadIndex: msg.PadIndex}
	}
	t.delivered[msg.PadIndex] = struct{}{}

	return nil
}

// Stats returns current tracking statistics.
func (t *Tracker) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return Stats{
		Sent:           len(t.sentBy),
		Delivered:      len(t.delivered),
		InFlight:       len(t.sentBy) - len(t.delivered),
		DuplicateCount: t.duplicateCount,
		UnknownCount:   t.unknownCount,
	}
}

// Stats represents tracker statistics.
type Stats struct {
	Sent           int
	Delivered      int
	InFlight       int // Sent but not yet delivered
	DuplicateCount int
	UnknownCount   int
}
