// Package charts turns ridership series into renderer-independent chart
// specifications and draws them.
//
// The factory functions (Timeline, AnnualBars, SeasonalHeatmap,
// MonthlyAverages and ServiceComparison) are pure: the same series always
// yield the same domain.ChartSpec. RenderSVG draws line and bar specs with
// go-chart. Heatmaps have no go-chart counterpart and are laid out as an
// HTML grid by the web layer using HeatColor.
package charts
