package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitdash/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestInitializeOTel_Disabled(t *testing.T) {
	providers, err := InitializeOTel(config.TelemetryConfig{
		ServiceName:   "test",
		TraceExporter: "none",
	}, testLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)
	require.NotNil(t, providers.Tracer)
	require.NotNil(t, providers.Meter)

	// no-op instruments are still usable
	metrics, err := NewDashboardMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordTabRender(context.Background(), "overview")

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_UnknownExporter(t *testing.T) {
	_, err := InitializeOTel(config.TelemetryConfig{ServiceName: "test", TraceExporter: "zipkin"}, testLogger())
	assert.Error(t, err)
}

func TestPrometheusEndpoint(t *testing.T) {
	providers, err := InitializeOTel(config.TelemetryConfig{
		ServiceName:   "test",
		Metrics:       true,
		TraceExporter: "none",
	}, testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())
	require.NotNil(t, providers.PrometheusHTTP)

	metrics, err := NewDashboardMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordTabRender(ctx, "seasonal")
	metrics.RecordChartRender(ctx, "timeline", 5*time.Millisecond, nil)
	metrics.RecordChartRender(ctx, "heatmap", time.Millisecond, errors.New("boom"))
	metrics.RecordLoad(ctx, "fixed_route", 120, 3)
	metrics.RecordHTTPRequest(ctx, http.MethodGet, "/", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "dashboard_tab_renders_total")
	assert.Contains(t, body, "dashboard_chart_render_errors_total")
	assert.Contains(t, body, "ridership_rows_loaded_total")
	assert.Contains(t, body, `tab="seasonal"`)
}

func TestDashboardMetrics_NilSafe(t *testing.T) {
	var m *DashboardMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordTabRender(ctx, "overview")
		m.RecordChartRender(ctx, "timeline", time.Second, nil)
		m.RecordLoad(ctx, "unc", 1, 1)
		m.RecordHTTPRequest(ctx, http.MethodGet, "/", 200, time.Second)
	})
}

func TestStdoutTracing(t *testing.T) {
	providers, err := InitializeOTel(config.TelemetryConfig{
		ServiceName:   "test",
		TraceExporter: "stdout",
	}, testLogger())
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)
	defer providers.Shutdown(context.Background())

	ctx, span := providers.Tracer.Start(context.Background(), "render")
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	assert.Equal(t, TraceIDFromContext(ctx), GetTraceID(ctx))
	RecordError(ctx, errors.New("draw failed"))
	span.End()

	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Output: "console"}, &buf)
	require.NoError(t, err)
	logger.InfoContext(ctx, "inside span")
	assert.Contains(t, buf.String(), "span_id")
}

func TestCollectRuntimeStats(t *testing.T) {
	stats := CollectRuntimeStats(time.Now().Add(-time.Minute))
	assert.Greater(t, stats.Goroutines, 0)
	assert.Greater(t, stats.SysBytes, uint64(0))
	assert.GreaterOrEqual(t, stats.UptimeSeconds, 60.0)
}
