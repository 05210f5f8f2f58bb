package charts

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/wcharczuk/go-chart/v2"

	"transitdash/pkg/contracts/domain"
)

var (
	// ErrNothingToDraw is returned when a spec holds no defined values
	ErrNothingToDraw = errors.New("chart has no data to draw")

	// ErrUnsupportedKind is returned for kinds go-chart cannot draw
	ErrUnsupportedKind = errors.New("chart kind cannot be rendered as SVG")
)

// DefaultWidth is the pixel width used when the caller passes 0
const DefaultWidth = 960

// RenderSVG draws a line or bar spec as SVG into w
func RenderSVG(w io.Writer, spec domain.ChartSpec, width int) error {
	if width <= 0 {
		width = DefaultWidth
	}
	height := spec.Height
	if height <= 0 {
		height = defaultHeight
	}

	switch spec.Kind {
	case domain.ChartKindLine:
		return renderLine(w, spec, width, height)
	case domain.ChartKindBar:
		return renderBars(w, spec, width, height)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedKind, spec.Kind)
	}
}

func renderLine(w io.Writer, spec domain.ChartSpec, width, height int) error {
	timeAxis := hasTimeAxis(spec)
	var series []chart.Series
	var ticks []chart.Tick
	seenTick := make(map[float64]bool)
	var minX, maxX time.Time
	top, bottom := 0.0, math.Inf(1)

	for _, cs := range spec.Series {
		style := lineStyle(cs)
		var xs []float64
		var ts []time.Time
		var ys []float64
		for _, p := range cs.Points {
			if p.Y == nil {
				continue
			}
			ys = append(ys, *p.Y)
			top = math.Max(top, *p.Y)
			bottom = math.Min(bottom, *p.Y)
			if timeAxis && p.Time != nil {
				ts = append(ts, *p.Time)
				if minX.IsZero() || p.Time.Before(minX) {
					minX = *p.Time
				}
				if p.Time.After(maxX) {
					maxX = *p.Time
				}
				continue
			}
			xs = append(xs, p.X)
			if !seenTick[p.X] {
				seenTick[p.X] = true
				ticks = append(ticks, chart.Tick{Value: p.X, Label: p.Label})
			}
		}
		if len(ys) == 0 {
			continue
		}

		// go-chart needs a non-zero range, so a lone point is doubled
		if timeAxis {
			if len(ts) == 1 {
				ts = append(ts, ts[0].Add(24*time.Hour))
				ys = append(ys, ys[0])
			}
			series = append(series, chart.TimeSeries{Name: cs.Name, XValues: ts, YValues: ys, Style: style})
		} else {
			if len(xs) == 1 {
				xs = append(xs, xs[0]+1)
				ys = append(ys, ys[0])
			}
			series = append(series, chart.ContinuousSeries{Name: cs.Name, XValues: xs, YValues: ys, Style: style})
		}
	}
	if len(series) == 0 {
		return ErrNothingToDraw
	}

	if timeAxis {
		series = append(bandSeries(spec.Bands, minX, maxX, top), series...)
	}

	ch := chart.Chart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: spec.XAxisTitle},
		YAxis: chart.YAxis{
			Name:           spec.YAxisTitle,
			ValueFormatter: commaFormatter,
		},
		Series: series,
	}
	if bottom == top {
		ch.YAxis.Range = flatRange(top)
	}
	if timeAxis {
		ch.XAxis.ValueFormatter = chart.TimeValueFormatterWithFormat("2006")
	} else if len(ticks) > 0 {
		ch.XAxis.Ticks = ticks
	}
	if spec.ShowLegend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render %s: %w", spec.ID, err)
	}
	return nil
}

func renderBars(w io.Writer, spec domain.ChartSpec, width, height int) error {
	var bars []chart.Value
	for _, cs := range spec.Series {
		for _, p := range cs.Points {
			if p.Y == nil {
				continue
			}
			color := p.Color
			if color == "" {
				color = cs.Color
			}
			fill := parseColor(color)
			bars = append(bars, chart.Value{
				Label: p.Label,
				Value: *p.Y,
				Style: chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1},
			})
		}
	}
	if len(bars) == 0 {
		return ErrNothingToDraw
	}
	top := 0.0
	for _, b := range bars {
		top = math.Max(top, b.Value)
	}

	barWidth := (width - 120) / (len(bars) * 2)
	if barWidth < 8 {
		barWidth = 8
	}

	bc := chart.BarChart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis: chart.YAxis{
			Name:           spec.YAxisTitle,
			ValueFormatter: commaFormatter,
			Range:          flatRange(top),
		},
		Bars: bars,
	}
	if err := bc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render %s: %w", spec.ID, err)
	}
	return nil
}

// flatRange is a y range from zero to top. go-chart rejects a range whose
// bounds are equal, so an all-zero chart gets a unit axis.
func flatRange(top float64) *chart.ContinuousRange {
	return &chart.ContinuousRange{Min: 0, Max: math.Max(top, 1)}
}

// bandSeries turns highlight bands into filled series clipped to [minX, maxX].
// They are placed first so the data is drawn on top.
func bandSeries(bands []domain.HighlightBand, minX, maxX time.Time, top float64) []chart.Series {
	if top <= 0 || minX.IsZero() {
		return nil
	}
	var out []chart.Series
	for _, b := range bands {
		start, end := b.Start, b.End
		if start.Before(minX) {
			start = minX
		}
		if end.After(maxX) {
			end = maxX
		}
		if !end.After(start) {
			continue
		}
		color := parseColor(b.Color).WithAlpha(uint8(math.Round(b.Opacity * 255)))
		out = append(out, chart.TimeSeries{
			Name:    b.Label,
			XValues: []time.Time{start, end},
			YValues: []float64{top, top},
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 1,
				FillColor:   color,
			},
		})
	}
	return out
}

func lineStyle(cs domain.ChartSeries) chart.Style {
	color := parseColor(cs.Color)
	style := chart.Style{StrokeColor: color, StrokeWidth: 2}
	if cs.Dashed {
		style.StrokeDashArray = []float64{6, 4}
	}
	if cs.Mode == domain.ModeLinesMarkers {
		style.DotColor = color
		style.DotWidth = 4
	}
	return style
}

func hasTimeAxis(spec domain.ChartSpec) bool {
	for _, cs := range spec.Series {
		for _, p := range cs.Points {
			if p.Time != nil {
				return true
			}
		}
	}
	return false
}

func commaFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return humanize.Comma(int64(math.Round(f)))
	}
	return fmt.Sprint(v)
}
