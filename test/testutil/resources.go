package testutil

import (
	"fmt"
	"runtime"
	"time"
)

// ResourceSample captures resource usage at a point in time.
type ResourceSample struct {
	Timestamp      time.Time
	HeapAllocBytes uint64
	HeapObjects    uint64
	GoroutineCount int
}

// ResourceReport compares resource usage before and after a workload.
type ResourceReport struct {
	Before ResourceSample
	After  ResourceSample

	// HeapGrowthBytes is After.HeapAllocBytes - Before.HeapAllocBytes (may be negative)
	HeapGrowthBytes int64

	// GoroutineLeak is the number of goroutines that outlived the workload
	GoroutineLeak int

	// Duration is how long the workload ran
	Duration time.Duration
}

// SampleResources forces a GC and reads current heap and goroutine counts.
func SampleResources() ResourceSample {
	runtime.GC()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return ResourceSample{
		Timestamp:      time.Now(),
		HeapAllocBytes: m.HeapAlloc,
		HeapObjects:    m.HeapObjects,
		GoroutineCount: runtime.NumGoroutine(),
	}
}

// MeasureResources runs fn and reports resource usage around it.
//
// Example:
//
//	report := testutil.MeasureResources(func() {
//	    alloc, _ := rotawin.New(1_000_000, 16, 8, 0)
//	    keep = alloc
//	})
//	t.Log(report.Summary())
func MeasureResources(fn func()) ResourceReport {
	before := SampleResources()
	fn()
	after := SampleResources()

	return ResourceReport{
		Before:          before,
		After:           after,
		HeapGrowthBytes: int64(after.HeapAllocBytes) - int64(before.HeapAllocBytes), //nolint:gosec // heap sizes fit in int64
		GoroutineLeak:   after.GoroutineCount - before.GoroutineCount,
		Duration:        after.Timestamp.Sub(before.Timestamp),
	}
}

// DetectLeaks reports whether goroutines outlived the workload by more than
// the threshold.
func (rr *ResourceReport) DetectLeaks(goroutineThreshold int) bool {
	return rr.GoroutineLeak > goroutineThreshold
}

// Summary returns a formatted summary of the resource report.
func (rr *ResourceReport) Summary() string {
	return fmt.Sprintf(
		"Heap: %.2f → %.2f MB (%+.2f), Objects: %d → %d, Goroutines: %d → %d (%+d), Duration: %v",
		float64(rr.Before.HeapAllocBytes)/1024/1024,
		float64(rr.After.HeapAllocBytes)/1024/1024,
		float64(rr.HeapGrowthBytes)/1024/1024,
		rr.Before.HeapObjects, rr.After.HeapObjects,
		rr.Before.GoroutineCount, rr.After.GoroutineCount, rr.GoroutineLeak,
		rr.Duration,
	)
}
