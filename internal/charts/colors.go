package charts

import (
	"fmt"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ylOrRd is the ColorBrewer yellow-orange-red sequential scale, light to dark
var ylOrRd = []string{
	"#FFFFCC", "#FFEDA0", "#FED976", "#FEB24C", "#FD8D3C",
	"#FC4E2A", "#E31A1C", "#BD0026", "#800026",
}

// parseColor accepts "#RRGGBB", "RRGGBB" and the short "#RGB" form
func parseColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func hexOf(c drawing.Color) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// HeatColor maps v within [min, max] onto the YlOrRd scale and returns a hex
// colour. A degenerate range maps to the lightest stop.
func HeatColor(v, min, max float64) string {
	if max <= min || math.IsNaN(v) {
		return ylOrRd[0]
	}
	t := (v - min) / (max - min)
	t = math.Max(0, math.Min(1, t))

	pos := t * float64(len(ylOrRd)-1)
	i := int(math.Floor(pos))
	if i >= len(ylOrRd)-1 {
		return ylOrRd[len(ylOrRd)-1]
	}
	return hexOf(lerp(parseColor(ylOrRd[i]), parseColor(ylOrRd[i+1]), pos-float64(i)))
}

// HeatTextColor picks black or white text for a HeatColor background
func HeatTextColor(background string) string {
	c := parseColor(background)
	luminance := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	if luminance < 140 {
		return "#FFFFFF"
	}
	return "#000000"
}

func lerp(a, b drawing.Color, t float64) drawing.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}
