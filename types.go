package rotawin

import "github.com/arloliu/rotawin/types"

// Re-export types from the internal types package.
//
// Internal packages depend on `types` rather than on the root package, which
// keeps the import graph acyclic while users still write rotawin.Window,
// rotawin.Message and so on.
type (
	Window     = types.Window
	Message    = types.Message
	PartyState = types.PartyState
	ClaimPath  = types.ClaimPath
)

// Re-export interfaces from the internal types package for convenience.
type (
	Logger           = types.Logger
	MetricsCollector = types.MetricsCollector
	Hooks            = types.Hooks
)

// Re-export PartyState constants.
const (
	PartyNoWindow  = types.PartyNoWindow
	PartyOwning    = types.PartyOwning
	PartyExhausted = types.PartyExhausted
)

// Re-export ClaimPath constants.
const (
	ClaimPreferred = types.ClaimPreferred
	ClaimReclaim   = types.ClaimReclaim
)
