package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// Methods may be called from many goroutines and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	AllocatorMetrics
	DeliveryMetrics
}

// AllocatorMetrics defines metrics for window claiming and pad issuance.
type AllocatorMetrics interface {
	// RecordPadIssued records one pad index issued to a party.
	RecordPadIssued(party int)

	// RecordWindowClaimed records a successful window claim.
	//
	// Parameters:
	//   - party: Claiming party
	//   - path: "preferred" or "reclaim"
	RecordWindowClaimed(party int, path string)

	// RecordNoCapacity records a send rejected because no window is left.
	RecordNoCapacity(party int)

	// RecordUniquenessViolation records a detected pad reuse.
	RecordUniquenessViolation()

	// SetCapacity sets the total number of claimable pad indices (gauge metric).
	SetCapacity(pads int)

	// SetWindowsRemaining sets the number of still-unclaimed windows (gauge metric).
	SetWindowsRemaining(count int)
}

// DeliveryMetrics defines metrics for messages handed back through Deliver.
type DeliveryMetrics interface {
	// RecordDelivered records a delivered message from the given sender.
	RecordDelivered(sender int)
}
