package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rotawin/types"
)

func TestNewNop(t *testing.T) {
	metrics := NewNop()

	require.NotNil(t, metrics)
	require.IsType(t, &NopMetrics{}, metrics)
}

func TestNopMetrics_AllMethods(t *testing.T) {
	var metrics types.MetricsCollector = NewNop()

	require.NotPanics(t, func() {
		metrics.RecordPadIssued(0)
		metrics.RecordWindowClaimed(1, types.ClaimReclaim.String())
		metrics.RecordNoCapacity(2)
		metrics.RecordUniquenessViolation()
		metrics.RecordDelivered(0)
		metrics.SetCapacity(16)
		metrics.SetWindowsRemaining(-1)
	})
}
