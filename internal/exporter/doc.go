// Package exporter writes ridership series as CSV.
//
// CSVWriter is the low-level file writer with UTF-8 BOM support for Excel.
// SeriesExporter writes one file per series plus an annual summary, and
// WriteSeries streams a single series to any io.Writer, such as an HTTP
// response.
//
//	exp := exporter.NewSeriesExporter("exports", logger)
//	files, err := exp.ExportDataset(ctx, dataset)
package exporter
