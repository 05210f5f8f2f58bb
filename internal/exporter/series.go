package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"transitdash/internal/analytics"
	"transitdash/pkg/contracts/domain"
)

// SeriesHeaders are the columns of a series export
var SeriesHeaders = []string{"date", "year", "month", "quarter", "month_name", "ridership", "rolling_12"}

// SummaryFile is the name of the annual totals export
const SummaryFile = "annual_summary.csv"

// SeriesRecords converts a series to CSV rows in date order
func SeriesRecords(series domain.RidershipSeries) [][]string {
	rows := make([][]string, 0, series.Len())
	for _, r := range series.Records {
		rows = append(rows, []string{
			r.Date.Format("2006-01-02"),
			formatInt(r.Year),
			formatInt(r.Month),
			formatInt(r.Quarter),
			r.MonthName,
			formatFloat(r.Ridership),
			formatOptional(r.Rolling12),
		})
	}
	return rows
}

// WriteSeries streams one series as CSV to out
func WriteSeries(out io.Writer, series domain.RidershipSeries) error {
	return Encode(out, WriteOptions{
		Headers:   SeriesHeaders,
		Records:   SeriesRecords(series),
		BOMPrefix: true,
	})
}

// SeriesExporter writes dataset exports under one directory
type SeriesExporter struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewSeriesExporter creates an exporter writing under dir
func NewSeriesExporter(dir string, logger *slog.Logger) *SeriesExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SeriesExporter{
		writer: NewCSVWriter(dir, logger),
		logger: logger.With(slog.String("component", "series_exporter")),
	}
}

// ExportDataset writes <series>.csv for every series plus the annual summary
// and returns the relative file names written.
func (e *SeriesExporter) ExportDataset(ctx context.Context, dataset *domain.Dataset) ([]string, error) {
	var files []string
	for _, series := range dataset.Series {
		if err := ctx.Err(); err != nil {
			return files, fmt.Errorf("export cancelled: %w", err)
		}

		name := string(series.Name) + ".csv"
		if err := e.writer.WriteSimpleCSV(name, SeriesHeaders, SeriesRecords(series)); err != nil {
			return files, fmt.Errorf("export %s: %w", series.Name, err)
		}
		if series.Empty() {
			e.logger.WarnContext(ctx, "Exported empty series", slog.String("series", string(series.Name)))
		}
		files = append(files, name)
	}

	headers, records := AnnualSummary(dataset)
	if err := e.writer.WriteSimpleCSV(SummaryFile, headers, records); err != nil {
		return files, fmt.Errorf("export summary: %w", err)
	}
	files = append(files, SummaryFile)

	e.logger.InfoContext(ctx, "Dataset exported", slog.Int("files", len(files)))
	return files, nil
}

// AnnualSummary builds one row per year with the total of each series.
// Years where a series has no records get an empty cell.
func AnnualSummary(dataset *domain.Dataset) ([]string, [][]string) {
	headers := []string{"year"}
	totals := make([]map[int]float64, 0, len(dataset.Series))
	years := make(map[int]bool)

	for _, series := range dataset.Series {
		headers = append(headers, string(series.Name))
		byYear := make(map[int]float64)
		for _, yt := range analytics.AnnualTotals(series) {
			byYear[yt.Year] = yt.Total
			years[yt.Year] = true
		}
		totals = append(totals, byYear)
	}

	ordered := make([]int, 0, len(years))
	for y := range years {
		ordered = append(ordered, y)
	}
	sort.Ints(ordered)

	records := make([][]string, 0, len(ordered))
	for _, y := range ordered {
		row := []string{formatInt(y)}
		for _, byYear := range totals {
			if v, ok := byYear[y]; ok {
				row = append(row, formatFloat(v))
			} else {
				row = append(row, "")
			}
		}
		records = append(records, row)
	}
	return headers, records
}
