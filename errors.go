package rotawin

import "github.com/arloliu/rotawin/types"

// Sentinel errors returned by the Allocator.
//
// They are the same values as in the types package, so errors.Is works with
// either import.
var (
	// ErrInvalidConfiguration is returned by New and NewAllocator for out-of-domain parameters.
	ErrInvalidConfiguration = types.ErrInvalidConfiguration

	// ErrNoCapacity is returned by Send when the party cannot claim any window.
	ErrNoCapacity = types.ErrNoCapacity

	// ErrUniquenessViolation is returned by Send if a pad index would be issued twice.
	ErrUniquenessViolation = types.ErrUniquenessViolation

	// ErrInvalidParty is returned for party ids outside [0, Parties).
	ErrInvalidParty = types.ErrInvalidParty
)

// UniquenessViolationError carries the party and pad index of a detected reuse.
type UniquenessViolationError = types.UniquenessViolationError
