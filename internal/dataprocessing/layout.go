package dataprocessing

import (
	"fmt"

	"transitdash/pkg/contracts/domain"
)

// ColumnRange is a half-open [Start, End) pair of zero-based column indexes
// holding the date column followed by the value column.
type ColumnRange struct {
	Start int
	End   int
}

// DateColumn returns the index of the date column
func (c ColumnRange) DateColumn() int { return c.Start }

// ValueColumn returns the index of the ridership column
func (c ColumnRange) ValueColumn() int { return c.Start + 1 }

// SeriesLayout maps a named series to its columns in the tracker sheet
type SeriesLayout struct {
	Name    domain.SeriesName
	Label   string
	Columns ColumnRange
	// Rolling enables the centred rolling mean for this series
	Rolling bool
}

// TrackerLayout is the column layout of the KPI tracker "Ridership" sheet.
// The workbook format is owned upstream; these offsets must not drift.
var TrackerLayout = []SeriesLayout{
	{Name: domain.SeriesFixedRoute, Label: "Fixed Route", Columns: ColumnRange{Start: 0, End: 2}, Rolling: true},
	{Name: domain.SeriesParatransit, Label: "Paratransit", Columns: ColumnRange{Start: 18, End: 20}},
	{Name: domain.SeriesUniversity, Label: "UNC", Columns: ColumnRange{Start: 39, End: 41}},
}

// validateLayout rejects layouts that are not (date, value) pairs
func validateLayout(layout []SeriesLayout) error {
	if len(layout) == 0 {
		return fmt.Errorf("layout has no series")
	}
	seen := make(map[domain.SeriesName]bool, len(layout))
	for _, l := range layout {
		if l.Columns.Start < 0 || l.Columns.End-l.Columns.Start != 2 {
			return fmt.Errorf("series %s: column range [%d,%d) is not a date/value pair",
				l.Name, l.Columns.Start, l.Columns.End)
		}
		if seen[l.Name] {
			return fmt.Errorf("series %s declared twice", l.Name)
		}
		seen[l.Name] = true
	}
	return nil
}
