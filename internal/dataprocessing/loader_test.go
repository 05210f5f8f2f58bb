package dataprocessing

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitdash/internal/analytics"
	"transitdash/internal/shared/testutil"
	"transitdash/pkg/contracts/domain"
)

type trackerRow = testutil.TrackerRow

func writeTracker(t *testing.T, sheet string, rows []trackerRow) string {
	t.Helper()
	return testutil.WriteTracker(t, sheet, rows)
}

func monthly(year int, month time.Month) time.Time {
	return testutil.Month(year, month)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestLoader_Load(t *testing.T) {
	var rows []trackerRow
	for i := 0; i < 24; i++ {
		d := monthly(2019, time.January).AddDate(0, i, 0)
		row := trackerRow{0: d, 1: float64(100 * (i + 1))}
		if i < 3 {
			row[18] = d
			row[19] = 10 + i
		}
		rows = append(rows, row)
	}
	path := writeTracker(t, "Ridership", rows)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	loader, err := NewLoader(DefaultOptions(), logger)
	require.NoError(t, err)

	dataset, report, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, dataset)
	require.NotNil(t, report)

	fixed := dataset.FixedRoute()
	require.Equal(t, 24, fixed.Len())
	assert.Equal(t, "Fixed Route", fixed.Label)

	first := fixed.Records[0]
	assert.True(t, monthly(2019, time.January).Equal(first.Date))
	assert.Equal(t, 100.0, first.Ridership)
	assert.Equal(t, 2019, first.Year)
	assert.Equal(t, 1, first.Month)
	assert.Equal(t, 1, first.Quarter)
	assert.Equal(t, "January", first.MonthName)

	last := fixed.Records[23]
	assert.Equal(t, 2020, last.Year)
	assert.Equal(t, 12, last.Month)
	assert.Equal(t, 4, last.Quarter)

	for i, r := range fixed.Records {
		if i < 6 || i >= 18 {
			assert.Nil(t, r.Rolling12, "row %d", i)
		} else {
			assert.NotNil(t, r.Rolling12, "row %d", i)
		}
	}
	require.NotNil(t, fixed.Records[6].Rolling12)
	assert.InDelta(t, 650.0, *fixed.Records[6].Rolling12, 1e-9)

	para, ok := dataset.Get(domain.SeriesParatransit)
	require.True(t, ok)
	assert.Equal(t, 3, para.Len())
	assert.False(t, para.HasRolling())

	unc, ok := dataset.Get(domain.SeriesUniversity)
	require.True(t, ok)
	assert.True(t, unc.Empty())

	require.Len(t, report.Series, 3)
	assert.Equal(t, 24, report.Series[0].Kept)
	assert.Equal(t, 0, report.Series[0].DroppedTotal())
	assert.Equal(t, "Ridership", report.Sheet)

	assert.Contains(t, logs.String(), "Loaded 24 months of data (2019-2020)")
}

func TestLoader_DropsMalformedRows(t *testing.T) {
	rows := []trackerRow{
		{0: monthly(2021, time.January), 1: 500},
		{0: monthly(2021, time.February)},            // missing value
		{0: monthly(2021, time.March), 1: "n/a"},     // text value
		{0: "not a date", 1: 700},                    // bad date
		{0: monthly(2021, time.April), 1: -4},        // negative
		{0: "2021-05-01", 1: "1,250"},                // textual date, formatted number
		{},                                           // blank row
		{0: monthly(2021, time.June), 1: 900},
	}
	path := writeTracker(t, "Ridership", rows)

	dataset, report, err := Load(context.Background(), path, DefaultOptions(), discardLogger())
	require.NoError(t, err)

	fixed := dataset.FixedRoute()
	require.Equal(t, 3, fixed.Len())
	assert.Equal(t, []float64{500, 1250, 900}, []float64{
		fixed.Records[0].Ridership, fixed.Records[1].Ridership, fixed.Records[2].Ridership,
	})

	sr := report.Series[0]
	assert.Equal(t, 7, sr.Rows)
	assert.Equal(t, 3, sr.Kept)
	assert.Equal(t, 1, sr.Dropped[DropMissingValue])
	assert.Equal(t, 2, sr.Dropped[DropInvalidValue])
	assert.Equal(t, 1, sr.Dropped[DropInvalidDate])
	assert.Equal(t, 4, sr.DroppedTotal())
}

func TestLoader_SortsByDate(t *testing.T) {
	rows := []trackerRow{
		{0: monthly(2022, time.March), 1: 3},
		{0: monthly(2022, time.January), 1: 1},
		{0: monthly(2022, time.February), 1: 2},
	}
	path := writeTracker(t, "Ridership", rows)

	dataset, _, err := Load(context.Background(), path, DefaultOptions(), discardLogger())
	require.NoError(t, err)

	fixed := dataset.FixedRoute()
	require.Equal(t, 3, fixed.Len())
	for i, want := range []float64{1, 2, 3} {
		assert.Equal(t, want, fixed.Records[i].Ridership)
	}
}

func TestLoader_LatestRowIsLatestDate(t *testing.T) {
	rows := []trackerRow{
		{0: monthly(2023, time.May), 1: 50},
		{0: monthly(2023, time.July), 1: 70},
		{0: monthly(2023, time.June), 1: 60},
	}
	path := writeTracker(t, "Ridership", rows)

	dataset, _, err := Load(context.Background(), path, DefaultOptions(), discardLogger())
	require.NoError(t, err)

	m := analytics.Compute(dataset.FixedRoute(), 2019)
	assert.Equal(t, 70.0, m.LatestValue, "sheet order does not decide the latest month")
	require.NotNil(t, m.LatestDate)
	assert.Equal(t, time.July, m.LatestDate.Month())
}

func TestLoader_AllRowsInvalid(t *testing.T) {
	rows := []trackerRow{
		{0: "header again", 1: "Fixed Route"},
		{0: "Total", 1: "n/a"},
	}
	path := writeTracker(t, "Ridership", rows)

	dataset, report, err := Load(context.Background(), path, DefaultOptions(), discardLogger())
	require.NoError(t, err)
	assert.True(t, dataset.FixedRoute().Empty())
	assert.Equal(t, 2, report.Series[0].DroppedTotal())
}

func TestLoader_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "New KPI Tracker.xlsx")
		_, _, err := Load(context.Background(), missing, DefaultOptions(), discardLogger())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingFile))

		var mfe *MissingFileError
		require.True(t, errors.As(err, &mfe))
		assert.Equal(t, missing, mfe.Path)
		assert.Contains(t, err.Error(), "New KPI Tracker.xlsx")
	})

	t.Run("missing sheet", func(t *testing.T) {
		path := writeTracker(t, "Other", nil)
		_, _, err := Load(context.Background(), path, DefaultOptions(), discardLogger())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSheetNotFound))
	})

	t.Run("cancelled context", func(t *testing.T) {
		path := writeTracker(t, "Ridership", []trackerRow{{0: monthly(2020, time.January), 1: 1}})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := Load(ctx, path, DefaultOptions(), discardLogger())
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestNewLoader_Validation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "zero options use defaults", opts: Options{}},
		{name: "negative skip rows", opts: Options{SkipRows: -1}, wantErr: true},
		{
			name: "column range too wide",
			opts: Options{Layout: []SeriesLayout{
				{Name: domain.SeriesFixedRoute, Columns: ColumnRange{Start: 0, End: 3}},
			}},
			wantErr: true,
		},
		{
			name: "duplicate series",
			opts: Options{Layout: []SeriesLayout{
				{Name: domain.SeriesFixedRoute, Columns: ColumnRange{Start: 0, End: 2}},
				{Name: domain.SeriesFixedRoute, Columns: ColumnRange{Start: 4, End: 6}},
			}},
			wantErr: true,
		},
		{name: "empty layout", opts: Options{Layout: []SeriesLayout{}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLoader(tt.opts, nil)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, l)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Ridership", l.opts.Sheet)
			assert.Len(t, l.opts.Layout, 3)
		})
	}
}
