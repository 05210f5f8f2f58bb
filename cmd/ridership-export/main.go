package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"transitdash/internal/config"
	"transitdash/internal/dataprocessing"
	"transitdash/internal/exporter"
	"transitdash/internal/infrastructure"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run loads the tracker workbook and writes one CSV per series plus the
// annual summary
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ridership-export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "tracker workbook (defaults to the configured data file)")
	sheet := fs.String("sheet", "", "sheet holding the ridership columns")
	out := fs.String("out", "exports", "output directory")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}
	if *file != "" {
		cfg.Data.File = *file
	}
	if *sheet != "" {
		cfg.Data.Sheet = *sheet
	}

	logger, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	ctx = infrastructure.EnsureTraceID(ctx)

	opts := dataprocessing.DefaultOptions()
	opts.Sheet = cfg.Data.Sheet
	opts.SkipRows = cfg.Data.SkipRows

	dataset, report, err := dataprocessing.Load(ctx, cfg.ResolveDataFile(), opts, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load workbook", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	files, err := exporter.NewSeriesExporter(*out, logger).ExportDataset(ctx, dataset)
	if err != nil {
		logger.ErrorContext(ctx, "Export failed", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	for _, sr := range report.Series {
		fmt.Fprintf(stdout, "%-12s kept %d of %d rows\n", sr.Name, sr.Kept, sr.Rows)
	}
	for _, f := range files {
		fmt.Fprintln(stdout, f)
	}
	return 0
}
