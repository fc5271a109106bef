package types

// PartyState represents the allocation state of a single party.
//
// States follow this progression:
//
//	PartyNoWindow → PartyOwning → PartyNoWindow → ... → PartyExhausted
//
// A party moves to PartyOwning when a claim succeeds and back to PartyNoWindow
// once every index of its window has been issued. PartyExhausted is terminal:
// it is entered when a claim fails because no window is left.
type PartyState int

const (
	// PartyNoWindow indicates the party must claim a window before its next send.
	PartyNoWindow PartyState = iota

	// PartyOwning indicates the party holds a window with unissued indices.
	PartyOwning

	// PartyExhausted indicates no window can ever be claimed by the party again.
	PartyExhausted
)

// String returns the string representation of the state.
func (s PartyState) String() string {
	switch s {
	case PartyNoWindow:
		return "NoWindow"
	case PartyOwning:
		return "Owning"
	case PartyExhausted:
		return "Exhausted"
	default:
		return "Unknown"
	}
}
