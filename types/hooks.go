package types

// Hooks defines callbacks for allocator events.
//
// All hooks are optional. They run synchronously on the calling goroutine after
// the allocator has released its lock, so a hook may call back into the
// allocator (for example CanSend or Snapshot) without deadlocking.
//
// Hooks should complete quickly: Send does not return until they do.
//
// Example:
//
//	hooks := &rotawin.Hooks{
//	    OnWindowClaimed: func(party int, w rotawin.Window, path rotawin.ClaimPath) {
//	        log.Printf("party %d took %s via %s", party, w, path)
//	    },
//	}
type Hooks struct {
	// OnWindowClaimed is called after a party claims a new window.
	OnWindowClaimed func(party int, window Window, path ClaimPath)

	// OnExhausted is called once per party, the first time a claim fails
	// because no window is left.
	OnExhausted func(party int)
}
