package results

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/rotawin/internal/kvutil"
	rotatest "github.com/arloliu/rotawin/testing"
	"github.com/arloliu/rotawin/test/simulation/internal/trials"
)

func TestKey(t *testing.T) {
	require.Equal(t, "abc.s2", Key("abc", 2))
}

func TestStore_SaveLoad(t *testing.T) {
	_, nc := rotatest.StartEmbeddedNATS(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := Open(ctx, nc, "sim-results")
	require.NoError(t, err)

	runID := uuid.NewString()
	stats := trials.Stats{Parties: 4, Active: 2, Trials: 300, AvgWasted: 7.25, MaxWasted: 24, AvgUsed: 9992.75, AvgSteps: 10001}
	require.NoError(t, store.Save(ctx, runID, stats))

	got, err := store.Load(ctx, runID, 2)
	require.NoError(t, err)
	require.Equal(t, stats, got)

	_, err = store.Load(ctx, runID, 4)
	require.ErrorIs(t, err, kvutil.ErrNotFound)

	// Reopening the bucket sees the same data.
	again, err := Open(ctx, nc, "sim-results")
	require.NoError(t, err)
	got, err = again.Load(ctx, runID, 2)
	require.NoError(t, err)
	require.Equal(t, stats, got)
}
