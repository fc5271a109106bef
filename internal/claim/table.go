// Package claim implements the window ownership table and the two-tier claim policy.
//
// Each party has a "home" stream of windows: its own residue class modulo the
// party count (party p prefers windows p, p+m, p+2m, ...). When the preferred
// window is gone, the party takes the lowest-indexed window nobody has claimed
// yet. Windows are never released, so the reclaim cursor only moves forward.
package claim

import "github.com/arloliu/rotawin/types"

const unclaimed = -1

// Table holds the global claim state.
//
// Table is not safe for concurrent use. The allocator serializes every call
// under its own lock so that a claim (read owner, write owner, move the
// round-robin cursor, move the reclaim cursor) is one atomic step.
type Table struct {
	parties       int
	claimedBy     []int // window -> owning party, or unclaimed
	nextRR        []int // party -> next preferred window
	nextUnclaimed int
	claimed       int
}

// New creates a claim table for numWindows windows and the given number of parties.
//
// Parameters:
//   - numWindows: Number of windows in the layout (may be zero)
//   - parties: Number of parties, at least 1
//
// Returns:
//   - *Table: Table with every window unclaimed and party p preferring window p
func New(numWindows, parties int) *Table {
	t := &Table{
		parties:   parties,
		claimedBy: make([]int, numWindows),
		nextRR:    make([]int, parties),
	}
	for b := range t.claimedBy {
		t.claimedBy[b] = unclaimed
	}
	for p := range t.nextRR {
		t.nextRR[p] = p
	}

	return t
}

// Claim takes a new window for party.
//
// The policy, in strict order:
//  1. If the party's preferred window is in range and unclaimed, take it and
//     advance the preferred cursor by the party count.
//  2. If the preferred window is in range but owned by someone else, still
//     advance the preferred cursor so the party never retries a stale slot.
//  3. Otherwise take the lowest-indexed unclaimed window, if any.
//
// Returns:
//   - int: Claimed window index, valid only when ok is true
//   - types.ClaimPath: Which tier produced the window
//   - bool: false when no window is left
func (t *Table) Claim(party int) (int, types.ClaimPath, bool) {
	rr := t.nextRR[party]
	if rr < len(t.claimedBy) {
		t.nextRR[party] += t.parties
		if t.claimedBy[rr] == unclaimed {
			t.take(rr, party)
			return rr, types.ClaimPreferred, true
		}
	}

	t.skipClaimed()
	if t.nextUnclaimed >= len(t.claimedBy) {
		return 0, types.ClaimReclaim, false
	}

	b := t.nextUnclaimed
	t.take(b, party)
	// Only step past the window just taken; later calls skip the rest lazily.
	t.nextUnclaimed++

	return b, types.ClaimReclaim, true
}

// CanClaim reports whether Claim(party) would succeed right now.
//
// It does not mutate the table.
func (t *Table) CanClaim(party int) bool {
	rr := t.nextRR[party]
	if rr < len(t.claimedBy) && t.claimedBy[rr] == unclaimed {
		return true
	}

	for b := t.nextUnclaimed; b < len(t.claimedBy); b++ {
		if t.claimedBy[b] == unclaimed {
			return true
		}
	}

	return false
}

// Owner returns the party owning window b.
//
// Returns:
//   - int: Owning party, valid only when ok is true
//   - bool: false if b is unclaimed or out of range
func (t *Table) Owner(b int) (int, bool) {
	if b < 0 || b >= len(t.claimedBy) {
		return 0, false
	}
	owner := t.claimedBy[b]
	if owner == unclaimed {
		return 0, false
	}

	return owner, true
}

// Owners returns a copy of the claim table, with -1 for unclaimed windows.
func (t *Table) Owners() []int {
	out := make([]int, len(t.claimedBy))
	copy(out, t.claimedBy)

	return out
}

// NextPreferred returns the party's next preferred window index.
func (t *Table) NextPreferred(party int) int {
	return t.nextRR[party]
}

// NextUnclaimed returns the reclaim cursor. It may point at a claimed window
// until the next Claim skips ahead.
func (t *Table) NextUnclaimed() int {
	return t.nextUnclaimed
}

// Remaining returns the number of windows nobody has claimed.
func (t *Table) Remaining() int {
	return len(t.claimedBy) - t.claimed
}

func (t *Table) take(b, party int) {
	t.claimedBy[b] = party
	t.claimed++
}

func (t *Table) skipClaimed() {
	for t.nextUnclaimed < len(t.claimedBy) && t.claimedBy[t.nextUnclaimed] != unclaimed {
		t.nextUnclaimed++
	}
}
