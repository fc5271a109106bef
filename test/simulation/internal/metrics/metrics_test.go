package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/rotawin/internal/logger"
	"github.com/arloliu/rotawin/test/simulation/internal/driver"
)

func TestCollector_ObserveRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveRun(2, driver.Result{Used: 990, Wasted: 10, Steps: 1000})
	c.ObserveRun(2, driver.Result{Used: 1000, Wasted: 0, Steps: 1001})
	c.ObserveRun(4, driver.Result{Used: 968, Wasted: 32, Steps: 980})
	c.RecordDeliveryErrors(0)

	require.InDelta(t, 2, testutil.ToFloat64(c.runsTotal.WithLabelValues("2")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(c.runsTotal.WithLabelValues("4")), 0)
	require.InDelta(t, 1990, testutil.ToFloat64(c.padsUsedTotal.WithLabelValues("2")), 0)
	require.InDelta(t, 10, testutil.ToFloat64(c.padsWasteTotal.WithLabelValues("2")), 0)
	require.InDelta(t, 0, testutil.ToFloat64(c.deliveryErrorsTotal), 0)

	count, err := testutil.GatherAndCount(reg, "simulation_run_wasted_pads")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestCollector_SystemMetrics(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	c.UpdateSystemMetrics(12, 4096)

	require.InDelta(t, 12, testutil.ToFloat64(c.goroutinesActive), 0)
	require.InDelta(t, 4096, testutil.ToFloat64(c.memoryUsageBytes), 0)
}

func TestPrometheusServer_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.ObserveRun(1, driver.Result{Used: 100, Steps: 101})

	srv := httptest.NewServer(NewPrometheusServer(":0", reg, c, logger.NewTest(t)).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `simulation_runs_total{scenario="1"} 1`)
}

func TestPrometheusServer_ShutdownBeforeStart(t *testing.T) {
	s := NewPrometheusServer(":0", nil, NewCollector(prometheus.NewRegistry()), logger.NewTest(t))
	require.NoError(t, s.Shutdown())
}
