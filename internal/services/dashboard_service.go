package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"transitdash/internal/charts"
	"transitdash/internal/config"
	"transitdash/internal/dataprocessing"
	"transitdash/internal/infrastructure"
	"transitdash/pkg/contracts/domain"
)

// DashboardDeps are the inputs of a DashboardService. Dataset and Metrics
// are shared read-only by every request.
type DashboardDeps struct {
	Dataset  *domain.Dataset
	Report   *dataprocessing.LoadReport
	Metrics  domain.DerivedMetrics
	Policy   domain.Policy
	Recorder *infrastructure.DashboardMetrics
	Tracer   trace.Tracer
	Logger   *slog.Logger
}

// DashboardService composes tab views and charts from the loaded dataset
type DashboardService struct {
	dataset  *domain.Dataset
	report   *dataprocessing.LoadReport
	metrics  domain.DerivedMetrics
	policy   domain.Policy
	recorder *infrastructure.DashboardMetrics
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewDashboardService creates the dashboard service
func NewDashboardService(deps DashboardDeps) (*DashboardService, error) {
	if deps.Dataset == nil {
		return nil, ErrNoDataset
	}
	if deps.Tracer == nil {
		deps.Tracer = tracenoop.NewTracerProvider().Tracer(infrastructure.InstrumentationName)
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	return &DashboardService{
		dataset:  deps.Dataset,
		report:   deps.Report,
		metrics:  deps.Metrics,
		policy:   deps.Policy,
		recorder: deps.Recorder,
		tracer:   deps.Tracer,
		logger:   infrastructure.WithComponent(deps.Logger, "dashboard_service"),
	}, nil
}

// Metrics returns the derived metrics of the fixed route series
func (s *DashboardService) Metrics() domain.DerivedMetrics {
	return s.metrics
}

// LoadReport returns the row accounting of the workbook load
func (s *DashboardService) LoadReport() *dataprocessing.LoadReport {
	return s.report
}

// Tabs returns the tab strip with active marked
func (s *DashboardService) Tabs(active TabID) []Tab {
	out := make([]Tab, len(tabs))
	copy(out, tabs)
	for i := range out {
		out[i].Active = out[i].ID == active
	}
	return out
}

// Series returns one loaded series by name
func (s *DashboardService) Series(name string) (domain.RidershipSeries, error) {
	series, ok := s.dataset.Get(domain.SeriesName(name))
	if !ok {
		return domain.RidershipSeries{}, fmt.Errorf("%w: %q", ErrUnknownSeries, name)
	}
	return series, nil
}

// SeriesNames lists the loaded series in workbook order
func (s *DashboardService) SeriesNames() []string {
	names := make([]string, 0, len(s.dataset.Series))
	for _, series := range s.dataset.Series {
		names = append(names, string(series.Name))
	}
	return names
}

// ChartIDs lists every chart the service can build
func (s *DashboardService) ChartIDs() []string {
	return []string{
		string(domain.ChartTimeline),
		string(domain.ChartAnnualBars),
		string(domain.ChartSeasonalHeatmap),
		string(domain.ChartMonthlyAverages),
		string(domain.ChartServiceComparison),
	}
}

// Chart builds the chart spec with the given id
func (s *DashboardService) Chart(ctx context.Context, id string) (domain.ChartSpec, error) {
	fixed := s.dataset.FixedRoute()
	switch domain.ChartID(id) {
	case domain.ChartTimeline:
		return charts.Timeline(fixed, s.policy), nil
	case domain.ChartAnnualBars:
		return charts.AnnualBars(fixed, s.policy), nil
	case domain.ChartSeasonalHeatmap:
		return charts.SeasonalHeatmap(fixed), nil
	case domain.ChartMonthlyAverages:
		return charts.MonthlyAverages(fixed, s.policy), nil
	case domain.ChartServiceComparison:
		return charts.ServiceComparison(s.dataset.Series...), nil
	}
	return domain.ChartSpec{}, fmt.Errorf("%w: %q", ErrUnknownChart, id)
}

// RenderChartSVG draws a chart as SVG into w
func (s *DashboardService) RenderChartSVG(ctx context.Context, id string, width int, w io.Writer) error {
	ctx, span := s.tracer.Start(ctx, "dashboard.render_chart",
		trace.WithAttributes(attribute.String("chart", id), attribute.Int("width", width)))
	defer span.End()

	spec, err := s.Chart(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	start := time.Now()
	err = charts.RenderSVG(w, spec, width)
	s.recorder.RecordChartRender(ctx, id, time.Since(start), err)
	if err != nil {
		// RenderSVG already names the chart.
		infrastructure.RecordError(ctx, err)
		return err
	}
	return nil
}

// RenderTab builds the content of one tab. Nothing is cached: every call
// recomputes the charts from the loaded series.
func (s *DashboardService) RenderTab(ctx context.Context, tab string) (*TabView, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.render_tab",
		trace.WithAttributes(attribute.String("tab", tab)))
	defer span.End()

	var view *TabView
	switch TabID(tab) {
	case TabOverview:
		view = s.overview()
	case TabTimeline:
		view = s.timeline()
	case TabSeasonal:
		view = s.seasonal()
	case TabServices:
		view = s.services()
	default:
		span.SetStatus(codes.Error, "unknown tab")
		return nil, fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}

	s.recorder.RecordTabRender(ctx, tab)
	infrastructure.LoggerWithContext(ctx, s.logger).DebugContext(ctx, "tab rendered",
		slog.String("tab", tab),
		slog.Int("charts", len(view.Charts)))
	return view, nil
}

// Page assembles the full page for a tab selection. An unknown tab yields a
// page without content, which is shown as the "Select a tab" placeholder.
func (s *DashboardService) Page(ctx context.Context, tab string) PageView {
	page := PageView{
		Header: s.Header(),
		KPIs:   s.KPIs(),
		Tabs:   s.Tabs(TabID(tab)),
		Footer: s.Footer(),
	}
	if view, err := s.RenderTab(ctx, tab); err == nil {
		page.Content = view
	}
	return page
}

// Header returns the page banner
func (s *DashboardService) Header() Header {
	subtitle := "Interactive Analysis of Public Transit Data"
	if first, last, ok := s.dataset.FixedRoute().Span(); ok {
		subtitle = fmt.Sprintf("%s (%d-%d)", subtitle, first.Year(), last.Year())
	}
	return Header{
		Title:    "Greeley Smart Transit Dashboard",
		Subtitle: subtitle,
		Credit:   "COOLER BLAST Initiative - University of Northern Colorado",
	}
}

// KPIs returns the four headline cards
func (s *DashboardService) KPIs() []KPICard {
	m := s.metrics

	latestCaption := "N/A"
	if m.LatestDate != nil {
		latestCaption = m.LatestDate.Format("January 2006")
	}

	trend := TrendDown
	if m.YoYChangePct > 0 {
		trend = TrendUp
	}

	return []KPICard{
		{Title: "Latest Month", Value: formatCount(m.LatestValue), Caption: latestCaption},
		{
			Title:   fmt.Sprintf("%d YTD Total", m.LatestYear),
			Value:   formatCount(m.AnnualTotal),
			Caption: fmt.Sprintf("%+.1f%% vs %d", m.YoYChangePct, m.PreviousYear),
			Trend:   trend,
		},
		{
			Title:   "COVID Recovery",
			Value:   fmt.Sprintf("%.0f%%", m.RecoveryPct),
			Caption: fmt.Sprintf("of %d levels", m.BaselineYear),
		},
		{Title: "Data Range", Value: fmt.Sprintf("%d", m.MonthsLoaded), Caption: "months"},
	}
}

// Footer returns the attribution line with the load date
func (s *DashboardService) Footer() string {
	return fmt.Sprintf("Data: %s | Created by COOLER BLAST Initiative, UNC | Updated: %s",
		config.AgencyName, s.dataset.LoadedAt.Format("January 02, 2006"))
}

func (s *DashboardService) overview() *TabView {
	m := s.metrics
	fixed := s.dataset.FixedRoute()

	direction, headline := "decline", "Decline"
	if m.YoYChangePct > 0 {
		direction, headline = "increase", "Growth"
	}

	return &TabView{
		Tab:     TabOverview,
		Heading: fmt.Sprintf("The Story: COVID Recovery & %d %s", m.LatestYear, headline),
		Narrative: []Span{
			{Text: fmt.Sprintf("%s recovered to %.0f%% of pre-pandemic levels by %d. ",
				config.AgencyName, m.RecoveryPct, m.LatestYear)},
			{Text: fmt.Sprintf("However, %d shows a %.0f%% %s ", m.LatestYear, math.Abs(m.YoYChangePct), direction), Strong: true},
			{Text: "that needs investigation."},
		},
		Charts: []ChartPanel{
			{Width: PanelFull, Chart: charts.Timeline(fixed, s.policy)},
			{Width: PanelHalf, Chart: charts.AnnualBars(fixed, s.policy)},
			{Width: PanelHalf, Chart: charts.MonthlyAverages(fixed, s.policy)},
		},
	}
}

func (s *DashboardService) timeline() *TabView {
	m := s.metrics

	latest := "Decline"
	if m.YoYChangePct > 0 {
		latest = "Growth"
	}

	return &TabView{
		Tab:       TabTimeline,
		Heading:   "Detailed Timeline Analysis",
		Charts:    []ChartPanel{{Width: PanelFull, Chart: charts.Timeline(s.dataset.FixedRoute(), s.policy)}},
		ListTitle: "Key Patterns:",
		Bullets: []Bullet{
			{Text: "2014-2019: Steady growth (+54%)", Authored: true},
			{Text: "2020: COVID crash (-56%)", Authored: true},
			{Text: "2021-2024: Recovery phase", Authored: true},
			{Text: fmt.Sprintf("%d: %s (%.1f%% YTD)", m.LatestYear, latest, m.YoYChangePct)},
		},
	}
}

func (s *DashboardService) seasonal() *TabView {
	fixed := s.dataset.FixedRoute()
	return &TabView{
		Tab:     TabSeasonal,
		Heading: "Seasonal Patterns",
		Charts: []ChartPanel{
			{Width: PanelFull, Chart: charts.SeasonalHeatmap(fixed)},
			{Width: PanelFull, Chart: charts.MonthlyAverages(fixed, s.policy)},
		},
	}
}

func (s *DashboardService) services() *TabView {
	return &TabView{
		Tab:       TabServices,
		Heading:   "Service Comparison",
		Charts:    []ChartPanel{{Width: PanelFull, Chart: charts.ServiceComparison(s.dataset.Series...)}},
		ListTitle: "Service Types:",
		Bullets: []Bullet{
			{Term: "Fixed Route", Text: "Primary bus service (9 routes)", Authored: true},
			{Term: "Paratransit", Text: "ADA on-demand service", Authored: true},
			{Term: "UNC", Text: "University partnership service", Authored: true},
		},
	}
}

// formatCount renders a ridership figure with thousands separators
func formatCount(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}
