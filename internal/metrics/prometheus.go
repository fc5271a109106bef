// Package metrics provides MetricsCollector implementations.
package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/rotawin/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use, so building a
// collector that is never exercised registers nothing.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	padsIssued          *prometheus.CounterVec
	windowsClaimed      *prometheus.CounterVec
	noCapacity          *prometheus.CounterVec
	uniquenessViolation prometheus.Counter
	delivered           *prometheus.CounterVec
	capacity            prometheus.Gauge
	windowsRemaining    prometheus.Gauge
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "rotawin" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "rotawin"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.padsIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "allocator",
			Name:      "pads_issued_total",
			Help:      "Total pad indices issued, by party.",
		}, []string{"party"})

		p.windowsClaimed = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "allocator",
			Name:      "windows_claimed_total",
			Help:      "Total windows claimed, by party and claim path (preferred, reclaim).",
		}, []string{"party", "path"})

		p.noCapacity = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "allocator",
			Name:      "no_capacity_total",
			Help:      "Sends rejected because no window was left, by party.",
		}, []string{"party"})

		p.uniquenessViolation = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "allocator",
			Name:      "uniqueness_violations_total",
			Help:      "Pad indices detected as issued twice. Any non-zero value is a defect.",
		})

		p.delivered = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "allocator",
			Name:      "messages_delivered_total",
			Help:      "Messages handed back through Deliver, by sender.",
		}, []string{"sender"})

		p.capacity = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "allocator",
			Name:      "capacity_pads",
			Help:      "Number of pad indices inside windows.",
		})

		p.windowsRemaining = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "allocator",
			Name:      "windows_remaining",
			Help:      "Number of windows not yet claimed by any party.",
		})

		p.reg.MustRegister(p.padsIssued)
		p.reg.MustRegister(p.windowsClaimed)
		p.reg.MustRegister(p.noCapacity)
		p.reg.MustRegister(p.uniquenessViolation)
		p.reg.MustRegister(p.delivered)
		p.reg.MustRegister(p.capacity)
		p.reg.MustRegister(p.windowsRemaining)
	})
}

// RecordPadIssued increments the issued pads counter for party.
func (p *PrometheusCollector) RecordPadIssued(party int) {
	p.ensureRegistered()
	p.padsIssued.WithLabelValues(strconv.Itoa(party)).Inc()
}

// RecordWindowClaimed increments the claimed windows counter.
func (p *PrometheusCollector) RecordWindowClaimed(party int, path string) {
	p.ensureRegistered()
	p.windowsClaimed.WithLabelValues(strconv.Itoa(party), path).Inc()
}

// RecordNoCapacity increments the rejected sends counter for party.
func (p *PrometheusCollector) RecordNoCapacity(party int) {
	p.ensureRegistered()
	p.noCapacity.WithLabelValues(strconv.Itoa(party)).Inc()
}

// RecordUniquenessViolation increments the pad reuse counter.
func (p *PrometheusCollector) RecordUniquenessViolation() {
	p.ensureRegistered()
	p.uniquenessViolation.Inc()
}

// RecordDelivered increments the delivered messages counter for sender.
func (p *PrometheusCollector) RecordDelivered(sender int) {
	p.ensureRegistered()
	p.delivered.WithLabelValues(strconv.Itoa(sender)).Inc()
}

// SetCapacity sets the capacity gauge.
func (p *PrometheusCollector) SetCapacity(pads int) {
	p.ensureRegistered()
	p.capacity.Set(float64(pads))
}

// SetWindowsRemaining sets the remaining windows gauge.
func (p *PrometheusCollector) SetWindowsRemaining(count int) {
	p.ensureRegistered()
	p.windowsRemaining.Set(float64(count))
}
