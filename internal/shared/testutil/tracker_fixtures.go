package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// TrackerRow is one sheet row of the KPI tracker; keys are zero-based column indexes
type TrackerRow map[int]interface{}

// Column offsets of the tracker sheet
const (
	FixedRouteDateCol  = 0
	ParatransitDateCol = 18
	UniversityDateCol  = 39
)

// Month returns the first day of a month at UTC midnight
func Month(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// WriteTracker saves a workbook shaped like the KPI tracker under t.TempDir():
// a title row, a header row, then the given data rows.
func WriteTracker(t *testing.T, sheet string, rows []TrackerRow) string {
	t.Helper()
	return WriteTrackerAt(t, filepath.Join(t.TempDir(), "tracker.xlsx"), sheet, rows)
}

// WriteTrackerAt is WriteTracker with an explicit destination
func WriteTrackerAt(t *testing.T, path, sheet string, rows []TrackerRow) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))

	set := func(col, row int, v interface{}) {
		name, err := excelize.CoordinatesToCellName(col+1, row)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, name, v))
	}

	set(0, 1, "KPI Tracker")
	set(FixedRouteDateCol, 2, "Month")
	set(FixedRouteDateCol+1, 2, "Fixed Route")
	set(ParatransitDateCol, 2, "Month")
	set(ParatransitDateCol+1, 2, "Paratransit")
	set(UniversityDateCol, 2, "Month")
	set(UniversityDateCol+1, 2, "UNC")

	for i, row := range rows {
		for col, v := range row {
			set(col, i+3, v)
		}
	}

	require.NoError(t, f.SaveAs(path))
	return path
}

// FixedRouteRows builds n consecutive monthly fixed route rows from start.
// value receives the zero-based row index.
func FixedRouteRows(start time.Time, n int, value func(i int) float64) []TrackerRow {
	rows := make([]TrackerRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, TrackerRow{
			FixedRouteDateCol:     start.AddDate(0, i, 0),
			FixedRouteDateCol + 1: value(i),
		})
	}
	return rows
}

// SampleTrackerRows covers January 2019 to March 2025 with a 2020 slump,
// a short paratransit history and a single UNC month.
func SampleTrackerRows() []TrackerRow {
	start := Month(2019, time.January)
	rows := FixedRouteRows(start, 75, func(i int) float64 {
		d := start.AddDate(0, i, 0)
		switch d.Year() {
		case 2020:
			return 40000
		case 2025:
			return 80000
		default:
			return 100000
		}
	})
	for i := 0; i < 6; i++ {
		rows[i][ParatransitDateCol] = start.AddDate(0, i, 0)
		rows[i][ParatransitDateCol+1] = 2000 + 10*i
	}
	rows[0][UniversityDateCol] = start
	rows[0][UniversityDateCol+1] = 5000
	return rows
}
