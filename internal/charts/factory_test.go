package charts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitdash/pkg/contracts/domain"
)

func rec(year, month int, v float64) domain.Record {
	d := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return domain.Record{Date: d, Ridership: v, Year: year, Month: month, Quarter: (month-1)/3 + 1, MonthName: d.Month().String()}
}

func fixedRoute(records ...domain.Record) domain.RidershipSeries {
	return domain.RidershipSeries{Name: domain.SeriesFixedRoute, Label: "Fixed Route", Records: records}
}

func TestTimeline(t *testing.T) {
	records := []domain.Record{rec(2019, 1, 100), rec(2019, 2, 120), rec(2020, 4, 40)}
	records[1].Rolling12 = domain.Float(110)

	spec := Timeline(fixedRoute(records...), domain.DefaultPolicy())
	assert.Equal(t, domain.ChartTimeline, spec.ID)
	assert.Equal(t, domain.ChartKindLine, spec.Kind)
	assert.Equal(t, "Ridership Timeline (2019-2020)", spec.Title)
	assert.Equal(t, 500, spec.Height)

	require.Len(t, spec.Series, 2)
	monthly := spec.Series[0]
	assert.Equal(t, ColorPrimary, monthly.Color)
	require.Len(t, monthly.Points, 3)
	assert.Equal(t, "February 2019", monthly.Points[1].Label)
	require.NotNil(t, monthly.Points[2].Time)

	rolling := spec.Series[1]
	assert.Equal(t, "12-Month Avg", rolling.Name)
	assert.True(t, rolling.Dashed)
	assert.Equal(t, ColorSecondary, rolling.Color)
	require.Len(t, rolling.Points, 3)
	assert.Nil(t, rolling.Points[0].Y)
	require.NotNil(t, rolling.Points[1].Y)
	assert.Equal(t, 110.0, *rolling.Points[1].Y)

	require.Len(t, spec.Bands, 1)
	band := spec.Bands[0]
	assert.Equal(t, "COVID-19", band.Label)
	assert.Equal(t, "below", band.Layer)
	assert.Equal(t, 0.1, band.Opacity)
	assert.Equal(t, time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC), band.Start)
	assert.Equal(t, time.Date(2021, time.December, 31, 0, 0, 0, 0, time.UTC), band.End)
}

func TestTimeline_WithoutRolling(t *testing.T) {
	s := domain.RidershipSeries{Name: domain.SeriesParatransit, Records: []domain.Record{rec(2022, 1, 5)}}
	spec := Timeline(s, domain.Policy{})
	assert.Len(t, spec.Series, 1)
	assert.Empty(t, spec.Bands)

	empty := Timeline(fixedRoute(), domain.DefaultPolicy())
	assert.Equal(t, "Ridership Timeline", empty.Title)
	require.Len(t, empty.Series, 1)
	assert.Empty(t, empty.Series[0].Points)
}

func TestAnnualBars(t *testing.T) {
	s := fixedRoute(
		rec(2019, 1, 100), rec(2019, 2, 50),
		rec(2020, 1, 30),
		rec(2021, 6, 45),
		rec(2022, 1, 80), rec(2022, 7, 90),
	)

	spec := AnnualBars(s, domain.DefaultPolicy())
	assert.Equal(t, domain.ChartKindBar, spec.Kind)
	assert.False(t, spec.ShowLegend)
	require.Len(t, spec.Series, 1)

	points := spec.Series[0].Points
	require.Len(t, points, 4, "one bar per distinct year")

	want := []struct {
		label string
		total float64
		color string
	}{
		{"2019", 150, ColorPrimary},
		{"2020", 30, ColorHighlight},
		{"2021", 45, ColorHighlight},
		{"2022", 170, ColorPrimary},
	}
	for i, w := range want {
		assert.Equal(t, w.label, points[i].Label)
		assert.Equal(t, w.total, points[i].Value())
		assert.Equal(t, w.color, points[i].Color)
	}
}

func TestSeasonalHeatmap(t *testing.T) {
	s := fixedRoute(rec(2019, 1, 10), rec(2019, 1, 5), rec(2020, 8, 7))

	spec := SeasonalHeatmap(s)
	assert.Equal(t, domain.ChartKindHeatmap, spec.Kind)
	assert.Equal(t, 600, spec.Height)
	require.NotNil(t, spec.Heatmap)

	grid := spec.Heatmap
	assert.Equal(t, "YlOrRd", grid.ColorScale)
	assert.Len(t, grid.XLabels, 12)
	assert.Equal(t, "Jan", grid.XLabels[0])
	assert.Equal(t, []int{2019, 2020}, grid.YLabels)
	require.NotNil(t, grid.Z[0][0])
	assert.Equal(t, 15.0, *grid.Z[0][0])
	assert.Nil(t, grid.Z[0][7])
	require.NotNil(t, grid.Z[1][7])
	assert.Equal(t, 7.0, *grid.Z[1][7])
}

func TestMonthlyAverages(t *testing.T) {
	s := fixedRoute(
		rec(2019, 1, 10), rec(2020, 1, 20),
		rec(2019, 6, 100), rec(2020, 6, 200),
		rec(2019, 9, 50),
	)

	spec := MonthlyAverages(s, domain.DefaultPolicy())
	points := spec.Series[0].Points
	require.Len(t, points, 3, "one bar per distinct month")

	assert.Equal(t, "January", points[0].Label)
	assert.Equal(t, 15.0, points[0].Value())
	assert.Equal(t, ColorPrimary, points[0].Color)

	assert.Equal(t, "June", points[1].Label)
	assert.Equal(t, 150.0, points[1].Value())
	assert.Equal(t, ColorSummer, points[1].Color)

	assert.Equal(t, "September", points[2].Label)
	assert.Equal(t, ColorPrimary, points[2].Color)
}

func TestServiceComparison(t *testing.T) {
	fixed := fixedRoute(rec(2019, 1, 10), rec(2020, 1, 20))
	para := domain.RidershipSeries{Name: domain.SeriesParatransit, Label: "Paratransit", Records: []domain.Record{rec(2019, 3, 4)}}
	unc := domain.RidershipSeries{Name: domain.SeriesUniversity}

	spec := ServiceComparison(fixed, para, unc)
	require.Len(t, spec.Series, 2, "empty series are skipped")

	assert.Equal(t, "Fixed Route", spec.Series[0].Name)
	assert.Equal(t, ColorPrimary, spec.Series[0].Color)
	assert.Equal(t, domain.ModeLinesMarkers, spec.Series[0].Mode)
	assert.Len(t, spec.Series[0].Points, 2)

	assert.Equal(t, "Paratransit", spec.Series[1].Name)
	assert.Equal(t, ColorSecondary, spec.Series[1].Color)

	assert.Empty(t, ServiceComparison().Series)
}

func TestServiceLabel(t *testing.T) {
	assert.Equal(t, "Fixed Route", serviceLabel(domain.RidershipSeries{Name: domain.SeriesFixedRoute}))
	assert.Equal(t, "Unc", serviceLabel(domain.RidershipSeries{Name: domain.SeriesUniversity}))
	assert.Equal(t, "UNC", serviceLabel(domain.RidershipSeries{Name: domain.SeriesUniversity, Label: "UNC"}))
	assert.Equal(t, ColorFallback, ServiceColor("ferry"))
}

func TestFactoriesAreDeterministic(t *testing.T) {
	s := fixedRoute(rec(2019, 1, 10), rec(2020, 6, 20), rec(2021, 12, 30))
	p := domain.DefaultPolicy()
	assert.Equal(t, Timeline(s, p), Timeline(s, p))
	assert.Equal(t, AnnualBars(s, p), AnnualBars(s, p))
	assert.Equal(t, SeasonalHeatmap(s), SeasonalHeatmap(s))
	assert.Equal(t, MonthlyAverages(s, p), MonthlyAverages(s, p))
	assert.Equal(t, ServiceComparison(s), ServiceComparison(s))
}
