package rotawin

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/rotawin/internal/logging"
	"github.com/arloliu/rotawin/internal/metrics"
)

// Option configures an Allocator with optional dependencies.
type Option func(*allocatorOptions)

// allocatorOptions holds optional Allocator configuration.
type allocatorOptions struct {
	hooks   *Hooks
	metrics MetricsCollector
	logger  Logger
}

// WithHooks sets allocator event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions; nil callbacks are ignored
//
// Returns:
//   - Option: Functional option for New and NewAllocator
//
// Example:
//
//	hooks := &rotawin.Hooks{
//	    OnExhausted: func(party int) { log.Printf("party %d is out of windows", party) },
//	}
//	alloc, err := rotawin.New(10000, 4, 8, 0, rotawin.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *allocatorOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation; must be safe for concurrent use
//
// Returns:
//   - Option: Functional option for New and NewAllocator
//
// Example:
//
//	m := rotawin.NewPrometheusMetrics(prometheus.DefaultRegisterer, "")
//	alloc, err := rotawin.New(10000, 4, 8, 0, rotawin.WithMetrics(m))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *allocatorOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for New and NewAllocator
//
// Example:
//
//	logger := rotawin.NewSlogLogger(slog.Default())
//	alloc, err := rotawin.New(10000, 4, 8, 0, rotawin.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *allocatorOptions) {
		o.logger = logger
	}
}

// NewSlogLogger adapts a *slog.Logger to the Logger interface.
func NewSlogLogger(logger *slog.Logger) Logger {
	return logging.NewSlog(logger)
}

// NewPrometheusMetrics creates a MetricsCollector that records into Prometheus.
//
// Parameters:
//   - reg: Registerer for the collectors (prometheus.DefaultRegisterer if nil)
//   - namespace: Metric namespace ("rotawin" if empty)
//
// Returns:
//   - MetricsCollector: Collector registering its metrics on first use
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) MetricsCollector {
	return metrics.NewPrometheus(reg, namespace)
}
