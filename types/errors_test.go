package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	t.Run("errors.Is works correctly", func(t *testing.T) {
		require.True(t, errors.Is(ErrNoCapacity, ErrNoCapacity))
		require.False(t, errors.Is(ErrNoCapacity, ErrInvalidParty))

		wrapped := fmt.Errorf("party 3: %w", ErrNoCapacity)
		require.True(t, errors.Is(wrapped, ErrNoCapacity))
	})

	t.Run("all errors are distinct", func(t *testing.T) {
		allErrors := []error{
			ErrInvalidConfiguration,
			ErrNoCapacity,
			ErrUniquenessViolation,
			ErrInvalidParty,
		}

		for i, a := range allErrors {
			for j, b := range allErrors {
				if i == j {
					continue
				}
				require.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	})
}

func TestUniquenessViolationError(t *testing.T) {
	err := error(&UniquenessViolationError{Party: 1, PadIndex: 42})

	require.ErrorIs(t, err, ErrUniquenessViolation)
	require.Contains(t, err.Error(), "pad_index=42")
	require.Contains(t, err.Error(), "party=1")

	var uv *UniquenessViolationError
	require.ErrorAs(t, fmt.Errorf("send: %w", err), &uv)
	require.Equal(t, 42, uv.PadIndex)
}

func TestWindow(t *testing.T) {
	w := Window{Start: 6, End: 9}

	require.Equal(t, 4, w.Len())
	require.True(t, w.Contains(6))
	require.True(t, w.Contains(9))
	require.False(t, w.Contains(5))
	require.False(t, w.Contains(10))
	require.Equal(t, "[6-9]", w.String())
}

func TestStringers(t *testing.T) {
	require.Equal(t, "preferred", ClaimPreferred.String())
	require.Equal(t, "reclaim", ClaimReclaim.String())
	require.Equal(t, "unknown", ClaimPath(9).String())

	require.Equal(t, "NoWindow", PartyNoWindow.String())
	require.Equal(t, "Owning", PartyOwning.String())
	require.Equal(t, "Exhausted", PartyExhausted.String())
	require.Equal(t, "Unknown", PartyState(-1).String())
}
