// Package results persists per-scenario stats in a JetStream KV bucket.
package results

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/rotawin/internal/kvutil"
	"github.com/arloliu/rotawin/test/simulation/internal/trials"
)

// Store saves trial stats keyed by run id and scenario.
type Store struct {
	kv jetstream.KeyValue
}

// Open creates or opens the results bucket.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - nc: NATS connection with JetStream enabled on the server
//   - bucket: KV bucket name
//
// Returns:
//   - *Store: Store backed by the bucket
//   - error: JetStream or bucket error
func Open(ctx context.Context, nc *nats.Conn, bucket string) (*Store, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "rotawin simulation results",
		History:     1,
	}, 3)
	if err != nil {
		return nil, err
	}

	return &Store{kv: kv}, nil
}

// Key returns the KV key for scenario x of a run: "<runID>.s<x>".
func Key(runID string, x int) string {
	return fmt.Sprintf("%s.s%d", runID, x)
}

// Save stores stats under Key(runID, stats.Active).
func (s *Store) Save(ctx context.Context, runID string, stats trials.Stats) error {
	_, err := kvutil.PutJSON(ctx, s.kv, Key(runID, stats.Active), stats)
	return err
}

// Load reads the stats of scenario x of a run.
func (s *Store) Load(ctx context.Context, runID string, x int) (trials.Stats, error) {
	var stats trials.Stats
	if err := kvutil.GetJSON(ctx, s.kv, Key(runID, x), &stats); err != nil {
		return trials.Stats{}, err
	}

	return stats, nil
}
