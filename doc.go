// Package rotawin allocates single-use pad indices to competing parties.
//
// The index space [1, n] is cut into fixed-size windows separated by optional
// gaps. A party owns at most one window at a time and issues the indices in it
// in order. When its window is used up, it claims a new one: first its own
// round-robin slot (party p prefers windows p, p+m, p+2m, ...), then the
// lowest window nobody has claimed. Windows are never released, so every index
// is issued at most once no matter how sends from different parties interleave.
//
// # Quick Start
//
//	alloc, err := rotawin.New(10000, 4, 8, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for alloc.CanSend(0) {
//	    msg, err := alloc.Send(0, payload)
//	    if err != nil {
//	        break
//	    }
//	    transmit(msg)
//	}
//
//	fmt.Println("wasted:", alloc.WastedPads())
//
// # Layout
//
// With stride = w + g there are n / stride windows. Window b covers
// [1 + b*stride, b*stride + w]. Indices in gaps and in the tail beyond the last
// full stride are never issued and count as wasted.
//
// # Party Lifecycle
//
//	NoWindow → Owning → NoWindow → ... → Exhausted
//
// A party enters Exhausted the first time a claim fails. No window is ever
// freed, so it stays there: CanSend is false and Send returns ErrNoCapacity.
//
// # Observability
//
// Logging, metrics and hooks are optional:
//
//	alloc, err := rotawin.New(10000, 4, 8, 0,
//	    rotawin.WithLogger(rotawin.NewSlogLogger(slog.Default())),
//	    rotawin.WithMetrics(rotawin.NewPrometheusMetrics(prometheus.DefaultRegisterer, "")),
//	    rotawin.WithHooks(&rotawin.Hooks{
//	        OnExhausted: func(party int) { log.Printf("party %d exhausted", party) },
//	    }),
//	)
//
// # Thread Safety
//
// Allocator is safe for concurrent use. Send serializes under a single lock;
// CanSend and the read-only accessors share a read lock. Hooks run after the
// lock is released.
package rotawin
