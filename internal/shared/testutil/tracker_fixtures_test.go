package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteTracker(t *testing.T) {
	path := WriteTracker(t, "Ridership", SampleTrackerRows())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Ridership", "A1")
	require.NoError(t, err)
	assert.Equal(t, "KPI Tracker", title)

	header, err := f.GetCellValue("Ridership", "T2")
	require.NoError(t, err)
	assert.Equal(t, "Paratransit", header)

	rows, err := f.GetRows("Ridership")
	require.NoError(t, err)
	assert.Len(t, rows, 2+75)
}

func TestFixedRouteRows(t *testing.T) {
	rows := FixedRouteRows(Month(2024, time.November), 3, func(i int) float64 { return float64(i) })

	require.Len(t, rows, 3)
	assert.Equal(t, Month(2025, time.January), rows[2][FixedRouteDateCol])
	assert.Equal(t, 2.0, rows[2][FixedRouteDateCol+1])
}
