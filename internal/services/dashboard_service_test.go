package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"transitdash/internal/analytics"
	"transitdash/internal/shared/testutil"
	"transitdash/pkg/contracts/domain"
)

func rec(year int, month time.Month, v float64) domain.Record {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return domain.Record{
		Date:      d,
		Ridership: v,
		Year:      year,
		Month:     int(month),
		Quarter:   (int(month)-1)/3 + 1,
		MonthName: month.String(),
	}
}

// testDataset has 2019 at 10,000 a month, January to March 2024 at 10,000
// and January to March 2025 at 8,000.
func testDataset() *domain.Dataset {
	var fixed []domain.Record
	for m := time.January; m <= time.December; m++ {
		fixed = append(fixed, rec(2019, m, 10000))
	}
	for m := time.January; m <= time.March; m++ {
		fixed = append(fixed, rec(2024, m, 10000))
	}
	for m := time.January; m <= time.March; m++ {
		fixed = append(fixed, rec(2025, m, 8000))
	}

	return &domain.Dataset{
		Source:   "tracker.xlsx",
		LoadedAt: time.Date(2025, time.April, 2, 9, 30, 0, 0, time.UTC),
		Series: []domain.RidershipSeries{
			{Name: domain.SeriesFixedRoute, Label: "Fixed Route", Records: fixed},
			{Name: domain.SeriesParatransit, Label: "Paratransit", Records: []domain.Record{rec(2024, time.January, 500)}},
			{Name: domain.SeriesUniversity, Label: "UNC"},
		},
	}
}

func newTestService(t *testing.T) *DashboardService {
	t.Helper()
	dataset := testDataset()
	logger, _ := testutil.NewTestLogger(t)
	svc, err := NewDashboardService(DashboardDeps{
		Dataset: dataset,
		Metrics: analytics.Compute(dataset.FixedRoute(), 2019),
		Policy:  domain.DefaultPolicy(),
		Logger:  logger,
	})
	require.NoError(t, err)
	return svc
}

func chartIDs(view *TabView) []domain.ChartID {
	ids := make([]domain.ChartID, 0, len(view.Charts))
	for _, p := range view.Charts {
		ids = append(ids, p.Chart.ID)
	}
	return ids
}

func TestNewDashboardService_NoDataset(t *testing.T) {
	_, err := NewDashboardService(DashboardDeps{})
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestDashboardService_RenderTab(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		tab         string
		wantHeading string
		wantCharts  []domain.ChartID
	}{
		{"overview", "The Story: COVID Recovery & 2025 Decline",
			[]domain.ChartID{domain.ChartTimeline, domain.ChartAnnualBars, domain.ChartMonthlyAverages}},
		{"timeline", "Detailed Timeline Analysis", []domain.ChartID{domain.ChartTimeline}},
		{"seasonal", "Seasonal Patterns", []domain.ChartID{domain.ChartSeasonalHeatmap, domain.ChartMonthlyAverages}},
		{"services", "Service Comparison", []domain.ChartID{domain.ChartServiceComparison}},
	}

	for _, tt := range tests {
		t.Run(tt.tab, func(t *testing.T) {
			view, err := svc.RenderTab(context.Background(), tt.tab)
			require.NoError(t, err)
			assert.Equal(t, TabID(tt.tab), view.Tab)
			assert.Equal(t, tt.wantHeading, view.Heading)
			assert.Equal(t, tt.wantCharts, chartIDs(view))
		})
	}
}

func TestDashboardService_RenderTab_Unknown(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.RenderTab(context.Background(), "forecast")
	assert.True(t, errors.Is(err, ErrUnknownTab))
	assert.Contains(t, err.Error(), `"forecast"`)
}

func TestDashboardService_RenderTab_Idempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.RenderTab(ctx, "overview")
	require.NoError(t, err)
	second, err := svc.RenderTab(ctx, "overview")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDashboardService_OverviewNarrative(t *testing.T) {
	svc := newTestService(t)

	view, err := svc.RenderTab(context.Background(), "overview")
	require.NoError(t, err)

	require.Len(t, view.Narrative, 3)
	assert.Equal(t, "Greeley Transit recovered to 20% of pre-pandemic levels by 2025. ", view.Narrative[0].Text)
	assert.Equal(t, "However, 2025 shows a 20% decline ", view.Narrative[1].Text)
	assert.True(t, view.Narrative[1].Strong)
	assert.Equal(t, "that needs investigation.", view.Narrative[2].Text)
	assert.Equal(t, PanelFull, view.Charts[0].Width)
	assert.Equal(t, PanelHalf, view.Charts[1].Width)
}

func TestDashboardService_TimelineBullets(t *testing.T) {
	svc := newTestService(t)

	view, err := svc.RenderTab(context.Background(), "timeline")
	require.NoError(t, err)

	assert.Equal(t, "Key Patterns:", view.ListTitle)
	require.Len(t, view.Bullets, 4)
	assert.Equal(t, Bullet{Text: "2014-2019: Steady growth (+54%)", Authored: true}, view.Bullets[0])
	assert.Equal(t, Bullet{Text: "2020: COVID crash (-56%)", Authored: true}, view.Bullets[1])
	assert.Equal(t, Bullet{Text: "2025: Decline (-20.0% YTD)"}, view.Bullets[3])
}

func TestDashboardService_ServiceBullets(t *testing.T) {
	svc := newTestService(t)

	view, err := svc.RenderTab(context.Background(), "services")
	require.NoError(t, err)

	require.Len(t, view.Bullets, 3)
	assert.Equal(t, "Fixed Route", view.Bullets[0].Term)
	assert.Equal(t, "Primary bus service (9 routes)", view.Bullets[0].Text)
	assert.Equal(t, "UNC", view.Bullets[2].Term)

	// the empty UNC series is left out of the comparison
	assert.Len(t, view.Charts[0].Chart.Series, 2)
}

func TestDashboardService_KPIs(t *testing.T) {
	svc := newTestService(t)

	cards := svc.KPIs()
	require.Len(t, cards, 4)

	assert.Equal(t, KPICard{Title: "Latest Month", Value: "8,000", Caption: "March 2025"}, cards[0])
	assert.Equal(t, KPICard{Title: "2025 YTD Total", Value: "24,000", Caption: "-20.0% vs 2024", Trend: TrendDown}, cards[1])
	assert.Equal(t, KPICard{Title: "COVID Recovery", Value: "20%", Caption: "of 2019 levels"}, cards[2])
	assert.Equal(t, KPICard{Title: "Data Range", Value: "18", Caption: "months"}, cards[3])
}

func TestDashboardService_KPIs_EmptySeries(t *testing.T) {
	svc, err := NewDashboardService(DashboardDeps{
		Dataset: &domain.Dataset{Series: []domain.RidershipSeries{{Name: domain.SeriesFixedRoute}}},
		Policy:  domain.DefaultPolicy(),
	})
	require.NoError(t, err)

	cards := svc.KPIs()
	assert.Equal(t, "0", cards[0].Value)
	assert.Equal(t, "N/A", cards[0].Caption)
	assert.Equal(t, "0%", cards[2].Value)
	assert.Equal(t, "Interactive Analysis of Public Transit Data", svc.Header().Subtitle)
}

func TestDashboardService_HeaderAndFooter(t *testing.T) {
	svc := newTestService(t)

	header := svc.Header()
	assert.Equal(t, "Greeley Smart Transit Dashboard", header.Title)
	assert.Equal(t, "Interactive Analysis of Public Transit Data (2019-2025)", header.Subtitle)

	assert.Equal(t, "Data: Greeley Transit | Created by COOLER BLAST Initiative, UNC | Updated: April 02, 2025", svc.Footer())
}

func TestDashboardService_Page(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	page := svc.Page(ctx, "seasonal")
	require.NotNil(t, page.Content)
	assert.Equal(t, TabSeasonal, page.Content.Tab)
	require.Len(t, page.Tabs, 4)
	assert.True(t, page.Tabs[2].Active)
	assert.False(t, page.Tabs[0].Active)

	page = svc.Page(ctx, "nope")
	assert.Nil(t, page.Content)
	for _, tab := range page.Tabs {
		assert.False(t, tab.Active)
	}
	assert.Len(t, page.KPIs, 4)
}

func TestDashboardService_Chart(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, id := range svc.ChartIDs() {
		spec, err := svc.Chart(ctx, id)
		require.NoError(t, err, id)
		assert.Equal(t, domain.ChartID(id), spec.ID)
	}

	_, err := svc.Chart(ctx, "pie")
	assert.ErrorIs(t, err, ErrUnknownChart)
}

func TestDashboardService_Series(t *testing.T) {
	svc := newTestService(t)

	series, err := svc.Series("paratransit")
	require.NoError(t, err)
	assert.Equal(t, 1, series.Len())

	_, err = svc.Series("ferry")
	assert.ErrorIs(t, err, ErrUnknownSeries)

	assert.Equal(t, []string{"fixed_route", "paratransit", "unc"}, svc.SeriesNames())
}

func TestDashboardService_RenderChartSVG(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	dataset := testDataset()
	svc, err := NewDashboardService(DashboardDeps{
		Dataset: dataset,
		Metrics: analytics.Compute(dataset.FixedRoute(), 2019),
		Policy:  domain.DefaultPolicy(),
		Tracer:  tp.Tracer("test"),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.RenderChartSVG(context.Background(), "annual", 640, &buf))
	assert.Contains(t, buf.String(), "<svg")

	err = svc.RenderChartSVG(context.Background(), "pie", 640, &buf)
	assert.ErrorIs(t, err, ErrUnknownChart)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "dashboard.render_chart", spans[0].Name())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestDashboardService_RenderChartSVG_ErrorNamesChartOnce(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	dataset := testDataset()
	svc, err := NewDashboardService(DashboardDeps{
		Dataset: dataset,
		Metrics: analytics.Compute(dataset.FixedRoute(), 2019),
		Policy:  domain.DefaultPolicy(),
		Tracer:  tp.Tracer("test"),
	})
	require.NoError(t, err)

	err = svc.RenderChartSVG(context.Background(), "annual", 640, failingWriter{})
	require.Error(t, err)
	assert.Equal(t, "render annual: disk full", err.Error())

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Len(t, spans[0].Events(), 1, "error recorded on the span")
}
