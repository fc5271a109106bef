package types

import "fmt"

// Window is an inclusive, 1-based range of pad indices.
//
// Windows are computed once when an allocator is built and never change.
// A window is owned by at most one party for the lifetime of the allocator.
type Window struct {
	Start int // first index, inclusive
	End   int // last index, inclusive
}

// Len returns the number of indices in the window.
func (w Window) Len() int {
	return w.End - w.Start + 1
}

// Contains reports whether index falls inside the window.
func (w Window) Contains(index int) bool {
	return index >= w.Start && index <= w.End
}

// String returns the window as "[start-end]".
func (w Window) String() string {
	return fmt.Sprintf("[%d-%d]", w.Start, w.End)
}

// ClaimPath identifies how a party obtained a window.
type ClaimPath int

const (
	// ClaimPreferred means the window was the party's round-robin home slot.
	ClaimPreferred ClaimPath = iota

	// ClaimReclaim means the window was the lowest-indexed unclaimed window,
	// taken because the preferred slot was unavailable.
	ClaimReclaim
)

// String returns the string representation of the claim path.
func (p ClaimPath) String() string {
	switch p {
	case ClaimPreferred:
		return "preferred"
	case ClaimReclaim:
		return "reclaim"
	default:
		return "unknown"
	}
}
