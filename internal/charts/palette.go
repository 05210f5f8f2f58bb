package charts

import (
	"transitdash/pkg/contracts/domain"
)

const (
	ColorPrimary   = "#2E86AB"
	ColorSecondary = "#A23B72"
	ColorHighlight = "#E63946"
	ColorSummer    = "#F77F00"
	ColorBand      = "#FF0000"
	ColorFallback  = "#333333"

	bandOpacity = 0.1
)

// serviceColors fixes one colour per service so every chart agrees
var serviceColors = map[domain.SeriesName]string{
	domain.SeriesFixedRoute:  ColorPrimary,
	domain.SeriesParatransit: ColorSecondary,
	domain.SeriesUniversity:  ColorSummer,
}

// ServiceColor returns the colour of a named service
func ServiceColor(name domain.SeriesName) string {
	if c, ok := serviceColors[name]; ok {
		return c
	}
	return ColorFallback
}
