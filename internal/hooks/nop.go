// Package hooks provides default allocator hook implementations.
package hooks

import "github.com/arloliu/rotawin/types"

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(int, types.Window, types.ClaimPath) = (*NopHooks)(nil).OnWindowClaimed
	_ func(int)                                = (*NopHooks)(nil).OnExhausted
)

// NewNop creates a new no-op hooks implementation.
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnWindowClaimed: h.OnWindowClaimed,
		OnExhausted:     h.OnExhausted,
	}
}

// Fill returns h with every nil callback replaced by a no-op.
//
// A nil h yields NewNop().
func Fill(h *types.Hooks) types.Hooks {
	out := NewNop()
	if h == nil {
		return out
	}
	if h.OnWindowClaimed != nil {
		out.OnWindowClaimed = h.OnWindowClaimed
	}
	if h.OnExhausted != nil {
		out.OnExhausted = h.OnExhausted
	}

	return out
}

// OnWindowClaimed is a no-op implementation.
func (h *NopHooks) OnWindowClaimed(_ int, _ types.Window, _ types.ClaimPath) {}

// OnExhausted is a no-op implementation.
func (h *NopHooks) OnExhausted(_ int) {}
