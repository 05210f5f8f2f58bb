package charts

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"transitdash/internal/analytics"
	"transitdash/pkg/contracts/domain"
)

const (
	defaultHeight = 500
	heatmapHeight = 600

	// HeatmapScale names the sequential scale applied by HeatColor
	HeatmapScale = "YlOrRd"
)

// Timeline plots the monthly series, its 12-month rolling average when the
// series carries one, and the disruption band of policy below the data.
func Timeline(series domain.RidershipSeries, policy domain.Policy) domain.ChartSpec {
	spec := domain.ChartSpec{
		ID:         domain.ChartTimeline,
		Kind:       domain.ChartKindLine,
		Title:      timelineTitle(series),
		XAxisTitle: "Date",
		YAxisTitle: "Monthly Ridership",
		Height:     defaultHeight,
		ShowLegend: true,
	}

	monthly := domain.ChartSeries{Name: "Monthly Ridership", Mode: domain.ModeLines, Color: ColorPrimary}
	for _, r := range series.Records {
		monthly.Points = append(monthly.Points, timePoint(r.Date, domain.Float(r.Ridership)))
	}
	spec.Series = append(spec.Series, monthly)

	if series.HasRolling() {
		rolling := domain.ChartSeries{Name: "12-Month Avg", Mode: domain.ModeLines, Color: ColorSecondary, Dashed: true}
		for _, r := range series.Records {
			var y *float64
			if r.Rolling12 != nil {
				y = domain.Float(*r.Rolling12)
			}
			rolling.Points = append(rolling.Points, timePoint(r.Date, y))
		}
		spec.Series = append(spec.Series, rolling)
	}

	if !policy.DisruptionStart.IsZero() && policy.DisruptionEnd.After(policy.DisruptionStart) {
		spec.Bands = append(spec.Bands, domain.HighlightBand{
			Start:   policy.DisruptionStart,
			End:     policy.DisruptionEnd,
			Label:   policy.DisruptionLabel,
			Color:   ColorBand,
			Opacity: bandOpacity,
			Layer:   "below",
		})
	}
	return spec
}

// AnnualBars draws one bar per year holding its summed ridership. Years in
// the policy's highlight range are coloured apart from the rest.
func AnnualBars(series domain.RidershipSeries, policy domain.Policy) domain.ChartSpec {
	bars := domain.ChartSeries{Name: "Annual Ridership", Mode: domain.ModeBars, Color: ColorPrimary}
	for _, yt := range analytics.AnnualTotals(series) {
		color := ColorPrimary
		if policy.HighlightYears.Contains(yt.Year) {
			color = ColorHighlight
		}
		bars.Points = append(bars.Points, domain.Point{
			X:     float64(yt.Year),
			Label: strconv.Itoa(yt.Year),
			Y:     domain.Float(yt.Total),
			Color: color,
		})
	}

	return domain.ChartSpec{
		ID:         domain.ChartAnnualBars,
		Kind:       domain.ChartKindBar,
		Title:      "Annual Ridership Comparison",
		XAxisTitle: "Year",
		YAxisTitle: "Total Ridership",
		Height:     defaultHeight,
		Series:     []domain.ChartSeries{bars},
	}
}

// SeasonalHeatmap pivots series into a year by month grid of sums. Months
// without data stay nil.
func SeasonalHeatmap(series domain.RidershipSeries) domain.ChartSpec {
	grid := analytics.BuildMonthGrid(series)

	labels := make([]string, len(analytics.ShortMonthNames))
	copy(labels, analytics.ShortMonthNames)

	return domain.ChartSpec{
		ID:         domain.ChartSeasonalHeatmap,
		Kind:       domain.ChartKindHeatmap,
		Title:      "Ridership Heatmap by Month and Year",
		XAxisTitle: "Month",
		YAxisTitle: "Year",
		Height:     heatmapHeight,
		Heatmap: &domain.HeatmapGrid{
			XLabels:    labels,
			YLabels:    grid.Years,
			Z:          grid.Cells,
			ColorScale: HeatmapScale,
		},
	}
}

// MonthlyAverages draws the mean ridership of each calendar month across
// all years, with the policy's summer months highlighted.
func MonthlyAverages(series domain.RidershipSeries, policy domain.Policy) domain.ChartSpec {
	bars := domain.ChartSeries{Name: "Average Ridership", Mode: domain.ModeBars, Color: ColorPrimary}
	for _, ma := range analytics.MonthlyAverages(series) {
		color := ColorPrimary
		if policy.IsSummer(ma.Month) {
			color = ColorSummer
		}
		bars.Points = append(bars.Points, domain.Point{
			X:     float64(ma.Month),
			Label: ma.Name,
			Y:     domain.Float(ma.Average),
			Color: color,
		})
	}

	return domain.ChartSpec{
		ID:         domain.ChartMonthlyAverages,
		Kind:       domain.ChartKindBar,
		Title:      "Average Ridership by Month (All Years)",
		XAxisTitle: "Month",
		YAxisTitle: "Average Ridership",
		Height:     defaultHeight,
		Series:     []domain.ChartSeries{bars},
	}
}

// ServiceComparison draws one annual-total line per service. Empty series
// are skipped.
func ServiceComparison(series ...domain.RidershipSeries) domain.ChartSpec {
	spec := domain.ChartSpec{
		ID:         domain.ChartServiceComparison,
		Kind:       domain.ChartKindLine,
		Title:      "Service Type Comparison",
		XAxisTitle: "Year",
		YAxisTitle: "Annual Ridership",
		Height:     defaultHeight,
		ShowLegend: true,
	}

	for _, s := range series {
		if s.Empty() {
			continue
		}
		line := domain.ChartSeries{
			Name:  serviceLabel(s),
			Mode:  domain.ModeLinesMarkers,
			Color: ServiceColor(s.Name),
		}
		for _, yt := range analytics.AnnualTotals(s) {
			line.Points = append(line.Points, domain.Point{
				X:     float64(yt.Year),
				Label: strconv.Itoa(yt.Year),
				Y:     domain.Float(yt.Total),
			})
		}
		spec.Series = append(spec.Series, line)
	}
	return spec
}

func timePoint(date time.Time, y *float64) domain.Point {
	d := date
	return domain.Point{
		X:     float64(d.Unix()),
		Label: d.Format("January 2006"),
		Time:  &d,
		Y:     y,
	}
}

func timelineTitle(series domain.RidershipSeries) string {
	first, last, ok := series.Span()
	if !ok {
		return "Ridership Timeline"
	}
	return fmt.Sprintf("Ridership Timeline (%d-%d)", first.Year(), last.Year())
}

// serviceLabel prefers the series label and falls back to a title-cased name
func serviceLabel(s domain.RidershipSeries) string {
	if s.Label != "" {
		return s.Label
	}
	words := strings.Split(string(s.Name), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
