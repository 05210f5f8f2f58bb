package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"transitdash/internal/app"
	"transitdash/internal/config"
	"transitdash/internal/dataprocessing"
	"transitdash/internal/infrastructure"
)

func main() {
	os.Exit(run(context.Background(), os.Stdout, os.Stderr))
}

func run(ctx context.Context, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(loggingConfig(cfg))
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	// Startup logs share one trace id so a run can be followed in the log file.
	ctx = infrastructure.EnsureTraceID(ctx)

	fmt.Fprintln(stdout, "Loading ridership data...")
	application, err := app.NewApplication(ctx, cfg, logger)
	if err != nil {
		reportStartupError(stderr, err)
		logger.ErrorContext(ctx, "Failed to initialize application", slog.String("error", err.Error()))
		return 1
	}

	printBanner(stdout, application)

	if err := application.Run(ctx); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

// loggingConfig resolves the log file against the working directory
func loggingConfig(cfg *config.Config) config.LoggingConfig {
	lc := cfg.Logging
	lc.FilePath = cfg.LogFilePath()
	return lc
}

func reportStartupError(w io.Writer, err error) {
	var missing *dataprocessing.MissingFileError
	if errors.As(err, &missing) {
		fmt.Fprintf(w, "Error: Cannot find data file: %s\n", missing.Path)
		fmt.Fprintf(w, "Please put '%s' in the same folder as this program.\n", config.DefaultDataFile)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func printBanner(w io.Writer, a *app.Application) {
	fixed := a.Dataset.FixedRoute()
	if first, last, ok := fixed.Span(); ok {
		fmt.Fprintf(w, "Loaded %d months of data (%d-%d)\n", fixed.Len(), first.Year(), last.Year())
	} else {
		fmt.Fprintln(w, "Loaded workbook, but it holds no fixed route data")
	}
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "%s Starting...\n", config.AppName)
	fmt.Fprintf(w, "Open your browser to: %s\n", a.Config.Server.URL())
	fmt.Fprintln(w, "Press Ctrl+C to stop")
	fmt.Fprintln(w, "==================================================")
}
