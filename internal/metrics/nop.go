package metrics

import "github.com/arloliu/rotawin/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. It is the allocator's default collector.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Example:
//
//	alloc, err := rotawin.New(20, 2, 4, 1, rotawin.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// AllocatorMetrics implementation

// RecordPadIssued discards the pad issuance metric.
func (n *NopMetrics) RecordPadIssued(_ /* party */ int) {
	// No-op
}

// RecordWindowClaimed discards the window claim metric.
func (n *NopMetrics) RecordWindowClaimed(_ /* party */ int, _ /* path */ string) {
	// No-op
}

// RecordNoCapacity discards the rejected send metric.
func (n *NopMetrics) RecordNoCapacity(_ /* party */ int) {
	// No-op
}

// RecordUniquenessViolation discards the pad reuse metric.
func (n *NopMetrics) RecordUniquenessViolation() {
	// No-op
}

// SetCapacity discards the capacity gauge.
func (n *NopMetrics) SetCapacity(_ /* pads */ int) {
	// No-op
}

// SetWindowsRemaining discards the remaining windows gauge.
func (n *NopMetrics) SetWindowsRemaining(_ /* count */ int) {
	// No-op
}

// DeliveryMetrics implementation

// RecordDelivered discards the delivery metric.
func (n *NopMetrics) RecordDelivered(_ /* sender */ int) {
	// No-op
}
