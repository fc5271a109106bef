package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arloliu/rotawin/types"
)

// PrometheusServer serves Prometheus metrics via HTTP.
type PrometheusServer struct {
	addr      string
	gatherer  prometheus.Gatherer
	collector *Collector
	logger    types.Logger
	server    *http.Server
}

// NewPrometheusServer creates a new Prometheus metrics server.
//
// Parameters:
//   - addr: Address to listen on (e.g., ":9090")
//   - gatherer: Registry to expose (prometheus.DefaultGatherer if nil)
//   - collector: Collector receiving periodic system metrics
//   - logger: Logger for lifecycle messages
//
// Returns:
//   - *PrometheusServer: Initialized server
func NewPrometheusServer(addr string, gatherer prometheus.Gatherer, collector *Collector, logger types.Logger) *PrometheusServer {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	return &PrometheusServer{
		addr:      addr,
		gatherer:  gatherer,
		collector: collector,
		logger:    logger,
	}
}

// Handler returns the HTTP handler serving /metrics and /health.
func (s *PrometheusServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", s.healthHandler)

	return mux
}

// Start serves metrics until ctx is cancelled, then shuts down.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - error: Error if shutdown fails
func (s *PrometheusServer) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.collectSystemMetrics(ctx)

	s.logger.Info("starting Prometheus server", "addr", s.addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server error", "error", err)
		}
	}()

	<-ctx.Done()

	return s.Shutdown()
}

// Shutdown gracefully shuts down the server.
func (s *PrometheusServer) Shutdown() error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("shutting down Prometheus server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

func (s *PrometheusServer) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK\n")
}

// collectSystemMetrics periodically collects system-level metrics.
func (s *PrometheusServer) collectSystemMetrics(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			s.collector.UpdateSystemMetrics(runtime.NumGoroutine(), m.Alloc)
		}
	}
}
