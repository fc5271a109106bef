package testutil

import (
	"errors"
	"testing"

	"github.com/arloliu/rotawin"
)

// OwnershipView is the read side of an allocator needed to check invariants.
// *rotawin.Allocator satisfies it.
type OwnershipView interface {
	WindowOf(padIndex int) (int, bool)
	Owner(window int) (int, bool)
}

// AssertIssuanceConsistent verifies the issued messages of one allocator.
//
// Checks:
//   - No pad index appears twice
//   - Every pad index lies inside a window (never in a gap or the tail)
//   - That window is owned by the message's sender
//   - Within one window, a sender's pad indices appear as consecutive indices
//
// Parameters:
//   - t: testing handle
//   - view: Allocator the messages came from
//   - msgs: Messages in issue order
func AssertIssuanceConsistent(t testing.TB, view OwnershipView, msgs []rotawin.Message) {
	t.Helper()

	seen := make(map[int]int, len(msgs)) // pad index -> sender
	lastInWindow := make(map[int]int)    // window -> last pad index

	for _, msg := range msgs {
		if prev, ok := seen[msg.PadIndex]; ok {
			t.Fatalf("pad index %d issued twice: first to party %d, then to party %d", msg.PadIndex, prev, msg.Sender)
		}
		seen[msg.PadIndex] = msg.Sender

		window, ok := view.WindowOf(msg.PadIndex)
		if !ok {
			t.Fatalf("pad index %d (party %d) is outside every window", msg.PadIndex, msg.Sender)
		}

		owner, ok := view.Owner(window)
		if !ok {
			t.Fatalf("window %d holding pad index %d is unclaimed", window, msg.PadIndex)
		}
		if owner != msg.Sender {
			t.Fatalf("pad index %d sent by party %d but window %d is owned by party %d", msg.PadIndex, msg.Sender, window, owner)
		}

		if last, ok := lastInWindow[window]; ok && msg.PadIndex != last+1 {
			t.Fatalf("window %d issued %d after %d", window, msg.PadIndex, last)
		}
		lastInWindow[window] = msg.PadIndex
	}
}

// SendUntilExhausted sends from pid until the allocator reports ErrNoCapacity.
//
// Returns:
//   - []rotawin.Message: Every message sent, in order
func SendUntilExhausted(t testing.TB, alloc *rotawin.Allocator, pid int) []rotawin.Message {
	t.Helper()

	var out []rotawin.Message
	for {
		msg, err := alloc.Send(pid, nil)
		if errors.Is(err, rotawin.ErrNoCapacity) {
			return out
		}
		if err != nil {
			t.Fatalf("party %d: unexpected send error: %v", pid, err)
		}
		out = append(out, msg)
	}
}
