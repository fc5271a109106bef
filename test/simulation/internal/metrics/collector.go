// Package metrics exposes scenario driver results to Prometheus.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arloliu/rotawin/test/simulation/internal/driver"
)

// Collector collects and exposes simulation metrics.
//
// It implements trials.Observer.
type Collector struct {
	// Run counters (per scenario)
	runsTotal      *prometheus.CounterVec
	padsUsedTotal  *prometheus.CounterVec
	padsWasteTotal *prometheus.CounterVec

	// Per-run distributions
	wastedPads *prometheus.HistogramVec
	runSteps   *prometheus.HistogramVec

	// Delivery checks
	deliveryErrorsTotal prometheus.Counter

	// System metrics
	goroutinesActive prometheus.Gauge
	memoryUsageBytes prometheus.Gauge
}

// NewCollector creates a collector registered on reg.
//
// Parameters:
//   - reg: Registerer for the metrics (prometheus.DefaultRegisterer if nil)
//
// Returns:
//   - *Collector: Initialized metrics collector
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "simulation_runs_total",
				Help: "Total number of finished runs per scenario",
			},
			[]string{"scenario"},
		),
		padsUsedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "simulation_pads_used_total",
				Help: "Total pad indices issued across runs per scenario",
			},
			[]string{"scenario"},
		),
		padsWasteTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "simulation_pads_wasted_total",
				Help: "Total pad indices wasted across runs per scenario",
			},
			[]string{"scenario"},
		),
		wastedPads: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "simulation_run_wasted_pads",
				Help:    "Wasted pad indices per run",
				Buckets: []float64{0, 8, 16, 32, 64, 128, 256, 512, 1024},
			},
			[]string{"scenario"},
		),
		runSteps: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "simulation_run_steps",
				Help:    "Driver steps per run",
				Buckets: prometheus.ExponentialBuckets(100, 4, 8),
			},
			[]string{"scenario"},
		),
		deliveryErrorsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "simulation_delivery_errors_total",
				Help: "Deliveries rejected by the tracker (duplicates, unknown or mismatched senders)",
			},
		),
		goroutinesActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "simulation_goroutines_active",
				Help: "Number of active goroutines",
			},
		),
		memoryUsageBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "simulation_memory_usage_bytes",
				Help: "Current memory usage in bytes",
			},
		),
	}
}

// ObserveRun records one finished run.
func (c *Collector) ObserveRun(scenario int, res driver.Result) {
	label := strconv.Itoa(scenario)

	c.runsTotal.WithLabelValues(label).Inc()
	c.padsUsedTotal.WithLabelValues(label).Add(float64(res.Used))
	c.padsWasteTotal.WithLabelValues(label).Add(float64(res.Wasted))
	c.wastedPads.WithLabelValues(label).Observe(float64(res.Wasted))
	c.runSteps.WithLabelValues(label).Observe(float64(res.Steps))
}

// RecordDeliveryErrors adds n rejected deliveries.
func (c *Collector) RecordDeliveryErrors(n int) {
	c.deliveryErrorsTotal.Add(float64(n))
}

// UpdateSystemMetrics updates goroutine and memory gauges.
func (c *Collector) UpdateSystemMetrics(goroutines int, memoryBytes uint64) {
	c.goroutinesActive.Set(float64(goroutines))
	c.memoryUsageBytes.Set(float64(memoryBytes))
}
