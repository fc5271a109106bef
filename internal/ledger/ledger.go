// Package ledger records every pad index ever issued.
//
// The ledger is a correctness assertion: exclusive window ownership and
// forward-only offsets already make reuse impossible, and the ledger turns
// any defect in that bookkeeping into a detectable error instead of a
// silently reused pad.
package ledger

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

var (
	// ErrAlreadyIssued is returned when an index is marked twice.
	ErrAlreadyIssued = errors.New("index already issued")

	// ErrOutOfRange is returned for indices outside [1, n].
	ErrOutOfRange = errors.New("index out of range")
)

// Ledger is a dense set of issued 1-based indices in [1, n].
//
// Ledger is not safe for concurrent use.
type Ledger struct {
	bits  *bitset.BitSet
	n     int
	count int
}

// New creates an empty ledger for indices 1..n.
func New(n int) *Ledger {
	return &Ledger{
		bits: bitset.New(uint(n) + 1), //nolint:gosec // n is validated positive by the caller
		n:    n,
	}
}

// Mark records index as issued.
//
// Returns:
//   - error: ErrAlreadyIssued if index was marked before, ErrOutOfRange if
//     index is outside [1, n]; the ledger is unchanged on error
func (l *Ledger) Mark(index int) error {
	if index < 1 || index > l.n {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrOutOfRange, index, l.n)
	}

	i := uint(index)
	if l.bits.Test(i) {
		return fmt.Errorf("%w: %d", ErrAlreadyIssued, index)
	}
	l.bits.Set(i)
	l.count++

	return nil
}

// Issued reports whether index has been marked.
func (l *Ledger) Issued(index int) bool {
	if index < 1 || index > l.n {
		return false
	}

	return l.bits.Test(uint(index))
}

// Count returns the number of issued indices.
func (l *Ledger) Count() int {
	return l.count
}

// Size returns n.
func (l *Ledger) Size() int {
	return l.n
}
