package hooks

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rotawin/types"
)

func TestNewNop(t *testing.T) {
	hooks := NewNop()

	require.NotNil(t, hooks.OnWindowClaimed)
	require.NotNil(t, hooks.OnExhausted)

	require.NotPanics(t, func() {
		hooks.OnWindowClaimed(0, types.Window{Start: 1, End: 4}, types.ClaimPreferred)
		hooks.OnExhausted(1)
	})
}

func TestFill(t *testing.T) {
	t.Run("nil hooks become no-ops", func(t *testing.T) {
		hooks := Fill(nil)

		require.NotNil(t, hooks.OnWindowClaimed)
		require.NotNil(t, hooks.OnExhausted)
	})

	t.Run("keeps provided callbacks", func(t *testing.T) {
		var exhausted []int
		hooks := Fill(&types.Hooks{
			OnExhausted: func(party int) { exhausted = append(exhausted, party) },
		})

		require.NotNil(t, hooks.OnWindowClaimed)
		hooks.OnExhausted(3)
		require.Equal(t, []int{3}, exhausted)
	})
}
