package analytics

import (
	"sort"
	"time"

	"transitdash/pkg/contracts/domain"
)

// ShortMonthNames labels the columns of a month grid
var ShortMonthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// YearTotal is the summed ridership of one calendar year
type YearTotal struct {
	Year  int     `json:"year"`
	Total float64 `json:"total"`
}

// MonthAverage is the mean ridership of one calendar month across all years
type MonthAverage struct {
	Month   int     `json:"month"`
	Name    string  `json:"name"`
	Average float64 `json:"average"`
	Samples int     `json:"samples"`
}

// MonthGrid is a year by month matrix of summed ridership.
// Cells[i][m-1] belongs to Years[i] and month m; nil means no data.
type MonthGrid struct {
	Years []int        `json:"years"`
	Cells [][]*float64 `json:"cells"`
}

// AnnualTotals sums ridership per distinct year, ascending by year
func AnnualTotals(series domain.RidershipSeries) []YearTotal {
	sums := make(map[int]float64)
	for _, r := range series.Records {
		sums[r.Year] += r.Ridership
	}

	out := make([]YearTotal, 0, len(sums))
	for year, total := range sums {
		out = append(out, YearTotal{Year: year, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// MonthlyAverages averages ridership per distinct calendar month, January first.
// Months without records are omitted.
func MonthlyAverages(series domain.RidershipSeries) []MonthAverage {
	var sums [12]float64
	var counts [12]int
	for _, r := range series.Records {
		if r.Month < 1 || r.Month > 12 {
			continue
		}
		sums[r.Month-1] += r.Ridership
		counts[r.Month-1]++
	}

	var out []MonthAverage
	for i := 0; i < 12; i++ {
		if counts[i] == 0 {
			continue
		}
		out = append(out, MonthAverage{
			Month:   i + 1,
			Name:    time.Month(i + 1).String(),
			Average: sums[i] / float64(counts[i]),
			Samples: counts[i],
		})
	}
	return out
}

// BuildMonthGrid pivots series into a year by month matrix of sums
func BuildMonthGrid(series domain.RidershipSeries) MonthGrid {
	rows := make(map[int][]*float64)
	for _, r := range series.Records {
		if r.Month < 1 || r.Month > 12 {
			continue
		}
		row, ok := rows[r.Year]
		if !ok {
			row = make([]*float64, 12)
			rows[r.Year] = row
		}
		if row[r.Month-1] == nil {
			v := 0.0
			row[r.Month-1] = &v
		}
		*row[r.Month-1] += r.Ridership
	}

	grid := MonthGrid{Years: make([]int, 0, len(rows))}
	for year := range rows {
		grid.Years = append(grid.Years, year)
	}
	sort.Ints(grid.Years)
	grid.Cells = make([][]*float64, len(grid.Years))
	for i, year := range grid.Years {
		grid.Cells[i] = rows[year]
	}
	return grid
}
