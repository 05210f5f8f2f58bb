package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"transitdash/internal/infrastructure"
	"transitdash/pkg/contracts/domain"
)

// Options configures how the tracker workbook is read
type Options struct {
	Sheet string
	// SkipRows is the number of rows above the column header row
	SkipRows      int
	Layout        []SeriesLayout
	RollingWindow int
}

// DefaultOptions returns the layout of the KPI tracker workbook
func DefaultOptions() Options {
	return Options{
		Sheet:         "Ridership",
		SkipRows:      1,
		Layout:        TrackerLayout,
		RollingWindow: DefaultRollingWindow,
	}
}

// SeriesReport counts what happened to the rows of one series
type SeriesReport struct {
	Name    domain.SeriesName  `json:"name"`
	Rows    int                `json:"rows"`
	Kept    int                `json:"kept"`
	Dropped map[DropReason]int `json:"dropped,omitempty"`
}

// DroppedTotal returns the number of rows discarded for any reason
func (r SeriesReport) DroppedTotal() int {
	total := 0
	for _, n := range r.Dropped {
		total += n
	}
	return total
}

// LoadReport summarises one pass over the workbook
type LoadReport struct {
	Source   string         `json:"source"`
	Sheet    string         `json:"sheet"`
	Series   []SeriesReport `json:"series"`
	Duration time.Duration  `json:"duration"`
}

// Loader reads ridership series out of the tracker workbook
type Loader struct {
	opts   Options
	logger *slog.Logger
}

// NewLoader creates a loader. Zero-valued options fall back to DefaultOptions.
func NewLoader(opts Options, logger *slog.Logger) (*Loader, error) {
	def := DefaultOptions()
	if opts.Sheet == "" {
		opts.Sheet = def.Sheet
	}
	if opts.SkipRows < 0 {
		return nil, fmt.Errorf("skip rows must not be negative: %d", opts.SkipRows)
	}
	if opts.Layout == nil {
		opts.Layout = def.Layout
	}
	if opts.RollingWindow == 0 {
		opts.RollingWindow = def.RollingWindow
	}
	if err := validateLayout(opts.Layout); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		opts:   opts,
		logger: infrastructure.WithComponent(logger, "loader"),
	}, nil
}

// Load reads every series of the layout from the workbook at path.
// The workbook is closed before Load returns.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Dataset, *LoadReport, error) {
	start := time.Now()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, &MissingFileError{Path: path}
		}
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}

	l.logger.InfoContext(ctx, "Loading ridership data", slog.String("file", path))

	rows, err := l.readRows(path)
	if err != nil {
		return nil, nil, err
	}

	// One skipped row, then the header row.
	dataStart := l.opts.SkipRows + 1
	var data [][]string
	if len(rows) > dataStart {
		data = rows[dataStart:]
	}

	dataset := &domain.Dataset{
		Source:   path,
		LoadedAt: time.Now(),
	}
	report := &LoadReport{Source: path, Sheet: l.opts.Sheet}

	for _, layout := range l.opts.Layout {
		select {
		case <-ctx.Done():
			return nil, nil, fmt.Errorf("load cancelled: %w", ctx.Err())
		default:
		}

		series, sr := l.extract(data, layout)
		dataset.Series = append(dataset.Series, series)
		report.Series = append(report.Series, sr)

		l.logger.DebugContext(ctx, "Series extracted",
			slog.String("series", string(layout.Name)),
			slog.Int("rows", sr.Rows),
			slog.Int("kept", sr.Kept),
			slog.Int("dropped", sr.DroppedTotal()))
	}
	report.Duration = time.Since(start)

	primary := dataset.Series[0]
	if first, last, ok := primary.Span(); ok {
		l.logger.InfoContext(ctx, fmt.Sprintf("Loaded %d months of data (%d-%d)", primary.Len(), first.Year(), last.Year()),
			slog.String("series", string(primary.Name)),
			slog.Int("months", primary.Len()),
			slog.Duration("duration", report.Duration))
	} else {
		l.logger.WarnContext(ctx, "Loaded workbook but the primary series is empty",
			slog.String("series", string(primary.Name)))
	}

	return dataset, report, nil
}

// readRows returns the raw cell values of the configured sheet
func (l *Loader) readRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(l.opts.Sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q in %s", ErrSheetNotFound, l.opts.Sheet, path)
	}

	rows, err := f.GetRows(l.opts.Sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", l.opts.Sheet, err)
	}
	return rows, nil
}

// extract builds one series from the data rows
func (l *Loader) extract(data [][]string, layout SeriesLayout) (domain.RidershipSeries, SeriesReport) {
	report := SeriesReport{Name: layout.Name, Dropped: make(map[DropReason]int)}
	records := make([]domain.Record, 0, len(data))

	for _, row := range data {
		rawDate := cell(row, layout.Columns.DateColumn())
		rawValue := cell(row, layout.Columns.ValueColumn())
		if rawDate == "" && rawValue == "" {
			continue
		}
		report.Rows++

		value, reason, ok := parseRidership(rawValue)
		if !ok {
			report.Dropped[reason]++
			continue
		}
		date, ok := ParseDate(rawDate)
		if !ok {
			report.Dropped[DropInvalidDate]++
			continue
		}

		records = append(records, domain.Record{
			Date:      date,
			Ridership: value,
			Year:      date.Year(),
			Month:     int(date.Month()),
			Quarter:   quarterOf(date.Month()),
			MonthName: date.Month().String(),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	if layout.Rolling {
		values := make([]float64, len(records))
		for i, r := range records {
			values[i] = r.Ridership
		}
		for i, m := range CenteredRollingMean(values, l.opts.RollingWindow) {
			records[i].Rolling12 = m
		}
	}

	report.Kept = len(records)
	return domain.RidershipSeries{Name: layout.Name, Label: layout.Label, Records: records}, report
}

// parseRidership parses a ridership cell. Empty cells are missing values;
// text, NaN and negative numbers are invalid.
func parseRidership(raw string) (float64, DropReason, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, DropMissingValue, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, DropInvalidValue, false
	}
	if math.IsNaN(v) {
		return 0, DropMissingValue, false
	}
	if math.IsInf(v, 0) || v < 0 {
		return 0, DropInvalidValue, false
	}
	return v, "", true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Load is a shorthand for NewLoader(opts, logger).Load(ctx, path)
func Load(ctx context.Context, path string, opts Options, logger *slog.Logger) (*domain.Dataset, *LoadReport, error) {
	l, err := NewLoader(opts, logger)
	if err != nil {
		return nil, nil, err
	}
	return l.Load(ctx, path)
}
