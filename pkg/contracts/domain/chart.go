package domain

import (
	"time"
)

// ChartKind selects how a ChartSpec is drawn
type ChartKind string

const (
	ChartKindLine    ChartKind = "line"
	ChartKindBar     ChartKind = "bar"
	ChartKindHeatmap ChartKind = "heatmap"
)

// ChartID names the charts the dashboard can produce
type ChartID string

const (
	ChartTimeline          ChartID = "timeline"
	ChartAnnualBars        ChartID = "annual"
	ChartSeasonalHeatmap   ChartID = "heatmap"
	ChartMonthlyAverages   ChartID = "monthly"
	ChartServiceComparison ChartID = "services"
)

// ChartSpec is a renderer-independent chart description
type ChartSpec struct {
	ID         ChartID         `json:"id"`
	Kind       ChartKind       `json:"kind"`
	Title      string          `json:"title"`
	XAxisTitle string          `json:"x_axis_title"`
	YAxisTitle string          `json:"y_axis_title"`
	Height     int             `json:"height"`
	ShowLegend bool            `json:"show_legend"`
	Series     []ChartSeries   `json:"series,omitempty"`
	Bands      []HighlightBand `json:"bands,omitempty"`
	Heatmap    *HeatmapGrid    `json:"heatmap,omitempty"`
}

// SeriesMode mirrors the plotting mode of a series
type SeriesMode string

const (
	ModeLines        SeriesMode = "lines"
	ModeLinesMarkers SeriesMode = "lines+markers"
	ModeBars         SeriesMode = "bars"
)

// ChartSeries is one named trace of a chart
type ChartSeries struct {
	Name   string     `json:"name"`
	Mode   SeriesMode `json:"mode"`
	Color  string     `json:"color"`
	Dashed bool       `json:"dashed,omitempty"`
	Points []Point    `json:"points"`
}

// Point is a single chart value. Y is nil for undefined values.
type Point struct {
	X     float64    `json:"x"`
	Label string     `json:"label"`
	Time  *time.Time `json:"time,omitempty"`
	Y     *float64   `json:"y"`
	Color string     `json:"color,omitempty"`
}

// Value returns Y or 0 when undefined
func (p Point) Value() float64 {
	if p.Y == nil {
		return 0
	}
	return *p.Y
}

// HighlightBand shades an interval of a time axis
type HighlightBand struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Label   string    `json:"label"`
	Color   string    `json:"color"`
	Opacity float64   `json:"opacity"`
	Layer   string    `json:"layer"`
}

// HeatmapGrid is a year by month matrix. Z[i][j] is nil where no data exists.
type HeatmapGrid struct {
	XLabels    []string     `json:"x_labels"`
	YLabels    []int        `json:"y_labels"`
	Z          [][]*float64 `json:"z"`
	ColorScale string       `json:"color_scale"`
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}
