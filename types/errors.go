package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the rotawin library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// Components wrap them with context using fmt.Errorf("%s: %w", msg, err).
//
// Error Naming Convention:
//   - Use descriptive names with Err prefix
//   - Group by component (Allocator, Ledger, ...)
//   - Use consistent messages across similar error types

// Allocator errors - Public API errors returned by the allocator.
var (
	// ErrInvalidConfiguration is returned at construction for out-of-domain parameters.
	// It is not recoverable; the caller must build a new allocator with valid values.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrNoCapacity is returned by Send when every window is permanently claimed
	// and the calling party holds none with remaining indices.
	//
	// This is an expected end state for a party, not a bug.
	ErrNoCapacity = errors.New("no capacity: no window left to claim")

	// ErrUniquenessViolation reports that a pad index was about to be issued twice.
	//
	// It indicates a defect in the claim or offset bookkeeping and must never occur.
	// Tests treat it as a hard failure.
	ErrUniquenessViolation = errors.New("pad index uniqueness violated")

	// ErrInvalidParty is returned when a party id is outside [0, parties).
	ErrInvalidParty = errors.New("invalid party")
)

// UniquenessViolationError carries the details of a detected pad reuse.
type UniquenessViolationError struct {
	Party    int
	PadIndex int
}

func (e *UniquenessViolationError) Error() string {
	return fmt.Sprintf("pad index uniqueness violated: party=%d pad_index=%d", e.Party, e.PadIndex)
}

func (e *UniquenessViolationError) Unwrap() error {
	return ErrUniquenessViolation
}
