// Command simulation measures pad waste of the rotating window allocator.
//
// For every configured active-party count x it runs a series of randomized
// executions and prints the average, minimum and maximum number of wasted pad
// indices.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/rotawin"
	"github.com/arloliu/rotawin/internal/logging"
	"github.com/arloliu/rotawin/test/simulation/internal/config"
	"github.com/arloliu/rotawin/test/simulation/internal/driver"
	"github.com/arloliu/rotawin/test/simulation/internal/metrics"
	"github.com/arloliu/rotawin/test/simulation/internal/natsutil"
	"github.com/arloliu/rotawin/test/simulation/internal/results"
	"github.com/arloliu/rotawin/test/simulation/internal/tracker"
	"github.com/arloliu/rotawin/test/simulation/internal/trials"
	"github.com/arloliu/rotawin/types"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (built-in defaults if empty)")
	logLevel := flag.String("log-level", "", "Override logging.level (debug, info, warn, error)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logger := logging.NewSlogText(os.Stderr, logging.ParseLevel(cfg.Logging.Level))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Stdout); err != nil {
		logger.Error("simulation failed", "error", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}

// run executes every scenario in cfg and prints one summary per scenario to out.
func run(ctx context.Context, cfg *config.Config, logger types.Logger, out io.Writer) error {
	runID := uuid.NewString()
	logger.Info("starting simulation",
		"run_id", runID,
		"mode", cfg.Simulation.Mode,
		"transport", cfg.Delivery.Transport,
		"scenarios", cfg.Simulation.ActiveCounts,
	)

	allocCfg := cfg.Allocator
	allocCfg.ValidateWithWarnings(logger)

	var (
		collector    *metrics.Collector
		allocMetrics types.MetricsCollector
	)
	if cfg.Metrics.Prometheus.Enabled {
		reg := prometheus.NewRegistry()
		collector = metrics.NewCollector(reg)
		allocMetrics = rotawin.NewPrometheusMetrics(reg, "")

		srv := metrics.NewPrometheusServer(fmt.Sprintf(":%d", cfg.Metrics.Prometheus.Port), reg, collector, logger)
		go func() {
			if err := srv.Start(ctx); err != nil {
				logger.Warn("metrics server shutdown", "error", err)
			}
		}()
	}

	var nc *nats.Conn
	if cfg.UsesNATS() {
		conn, closeFn, err := natsutil.Connect(cfg.NATS)
		if err != nil {
			return err
		}
		defer closeFn()
		nc = conn
	}

	var store *results.Store
	if cfg.NATS.ResultsBucket != "" {
		s, err := results.Open(ctx, nc, cfg.NATS.ResultsBucket)
		if err != nil {
			return err
		}
		store = s
	}

	newRunOptions, finish, err := deliveryOptions(cfg, nc, logger, allocMetrics)
	if err != nil {
		return err
	}
	defer finish()

	runner := trials.Runner(driver.Run)
	if cfg.Simulation.Mode == config.ModeConcurrent {
		runner = driver.RunConcurrent
	}

	opts := trials.Options{
		Runner:        runner,
		NewRunOptions: newRunOptions,
	}
	if collector != nil {
		opts.Observer = collector
	}

	p := driver.ParamsFromConfig(cfg)
	for _, x := range cfg.Simulation.ActiveCounts {
		start := time.Now()

		stats, err := trials.Run(ctx, p, x, cfg.Simulation.Trials, cfg.Simulation.Seed+uint64(x), opts) //nolint:gosec // x is validated positive
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(out, stats.Summary(
			cfg.Allocator.IndexSpace,
			cfg.Delivery.MaxUndelivered,
			cfg.Allocator.WindowSize,
			cfg.Allocator.GapSize,
		))
		logger.Debug("scenario finished", "scenario", x, "elapsed", time.Since(start).String())

		if store != nil {
			if err := store.Save(ctx, runID, stats); err != nil {
				return err
			}
			logger.Info("scenario stored", "key", results.Key(runID, x), "bucket", cfg.NATS.ResultsBucket)
		}
	}

	return nil
}

// deliveryOptions builds the per-run driver options for the configured transport.
//
// In memory mode every run gets its own tracker, so a bad delivery fails the
// run. In NATS mode one receiver checks payload checksums for the whole
// process; pad indices repeat across runs, so the receiver does not track them.
func deliveryOptions(
	cfg *config.Config,
	nc *nats.Conn,
	logger types.Logger,
	allocMetrics types.MetricsCollector,
) (func() driver.Options, func(), error) {
	if cfg.Delivery.Transport == config.TransportMemory {
		return func() driver.Options {
			tr := tracker.New()
			return driver.Options{
				Sink:    driver.NewMemorySink(tr),
				Tracker: tr,
				Logger:  logger,
				Metrics: allocMetrics,
			}
		}, func() {}, nil
	}

	recv, err := natsutil.NewReceiver(nc, cfg.NATS.SubjectPrefix, nil, logger)
	if err != nil {
		return nil, nil, err
	}
	sink := natsutil.NewSink(nc, cfg.NATS.SubjectPrefix, logger)

	finish := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := sink.Flush(ctx); err != nil {
			logger.Warn("failed to flush deliveries", "error", err)
		}
		if err := recv.WaitFor(ctx, sink.Published()); err != nil {
			logger.Warn("not every delivery arrived", "error", err)
		}

		stats := recv.Stats()
		logger.Info("NATS delivery summary",
			"published", sink.Published(),
			"dropped", sink.Dropped(),
			"received", stats.Received,
			"checksum_failures", stats.ChecksumFailures,
		)
		_ = recv.Close()
	}

	return func() driver.Options {
		return driver.Options{
			Sink:    sink,
			Logger:  logger,
			Metrics: allocMetrics,
		}
	}, finish, nil
}
