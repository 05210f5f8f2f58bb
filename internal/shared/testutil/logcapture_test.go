package testutil_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitdash/internal/dataprocessing"
	"transitdash/internal/middleware"
	"transitdash/internal/shared/testutil"
)

func TestLogCapture_LoaderDropCounts(t *testing.T) {
	rows := []testutil.TrackerRow{
		{testutil.FixedRouteDateCol: testutil.Month(2024, time.January), testutil.FixedRouteDateCol + 1: 900},
		{testutil.FixedRouteDateCol: testutil.Month(2024, time.February)},
		{testutil.FixedRouteDateCol: "not a date", testutil.FixedRouteDateCol + 1: 100},
	}
	path := testutil.WriteTracker(t, "Ridership", rows)

	logger, logs := testutil.NewTestLogger(t)
	_, _, err := dataprocessing.Load(context.Background(), path, dataprocessing.DefaultOptions(), logger)
	require.NoError(t, err)

	extracted := logs.GetRecordsByLevel(slog.LevelDebug)
	require.NotEmpty(t, extracted)
	first := extracted[0]
	assert.Equal(t, "Series extracted", first.Message)
	assert.Equal(t, "fixed_route", first.Attrs["series"])
	assert.Equal(t, int64(1), first.Attrs["kept"])
	assert.Equal(t, int64(2), first.Attrs["dropped"])
	assert.Equal(t, "loader", first.Attrs["component"], "attributes bound with With are kept")

	testutil.AssertLogContains(t, logs, slog.LevelInfo, "Loaded 1 months of data (2024-2024)")
}

func TestLogCapture_RequestLogging(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := middleware.StructuredLogger(logger.With(slog.String("component", "http")))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/charts/annual.svg", nil))

	rec, ok := logs.Find("request completed")
	require.True(t, ok)
	assert.Equal(t, slog.LevelError, rec.Level)
	assert.Equal(t, "/charts/annual.svg", rec.Attrs["path"])
	assert.Equal(t, int64(500), rec.Attrs["status"])
	assert.Equal(t, "http", rec.Attrs["component"])
	assert.False(t, logs.ContainsMessage("Series extracted"))
}
