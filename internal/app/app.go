package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"transitdash/internal/analytics"
	"transitdash/internal/config"
	"transitdash/internal/dataprocessing"
	"transitdash/internal/infrastructure"
	"transitdash/internal/services"
	handlers "transitdash/internal/transport/http"
	"transitdash/pkg/contracts/domain"
)

// Application holds the wired dashboard server
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Recorder      *infrastructure.DashboardMetrics

	Dataset    *domain.Dataset
	LoadReport *dataprocessing.LoadReport
	Metrics    domain.DerivedMetrics

	Dashboard *services.DashboardService
	Health    *services.HealthService
	Router    *chi.Mux
	Server    *http.Server
}

// NewApplication loads the workbook and wires the server. A missing
// workbook is returned as *dataprocessing.MissingFileError before any
// listener is opened.
func NewApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	a := &Application{Config: cfg, Logger: logger}

	policy, err := cfg.Policy.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}

	if err := a.initializeTelemetry(); err != nil {
		return nil, err
	}

	if err := a.loadData(ctx); err != nil {
		a.shutdownTelemetry(ctx)
		return nil, err
	}
	a.Metrics = analytics.Compute(a.Dataset.FixedRoute(), policy.BaselineYear)

	if err := a.initializeServices(policy); err != nil {
		a.shutdownTelemetry(ctx)
		return nil, err
	}
	if err := a.setupRouter(); err != nil {
		a.shutdownTelemetry(ctx)
		return nil, err
	}
	a.createServer()
	return a, nil
}

func (a *Application) initializeTelemetry() error {
	providers, err := infrastructure.InitializeOTel(a.Config.Telemetry, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	a.OTelProviders = providers

	recorder, err := infrastructure.NewDashboardMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}
	a.Recorder = recorder
	return nil
}

func (a *Application) loadData(ctx context.Context) error {
	opts := dataprocessing.DefaultOptions()
	opts.Sheet = a.Config.Data.Sheet
	opts.SkipRows = a.Config.Data.SkipRows

	dataset, report, err := dataprocessing.Load(ctx, a.Config.ResolveDataFile(), opts, a.Logger)
	if err != nil {
		return err
	}
	for _, sr := range report.Series {
		a.Recorder.RecordLoad(ctx, string(sr.Name), sr.Kept, sr.DroppedTotal())
	}
	a.Dataset = dataset
	a.LoadReport = report
	return nil
}

func (a *Application) initializeServices(policy domain.Policy) error {
	dashboard, err := services.NewDashboardService(services.DashboardDeps{
		Dataset:  a.Dataset,
		Report:   a.LoadReport,
		Metrics:  a.Metrics,
		Policy:   policy,
		Recorder: a.Recorder,
		Tracer:   a.OTelProviders.Tracer,
		Logger:   a.Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create dashboard service: %w", err)
	}
	a.Dashboard = dashboard
	a.Health = services.NewHealthService(config.AppVersion, a.Dataset, a.LoadReport, a.Logger)
	return nil
}

func (a *Application) setupRouter() error {
	sec := a.Config.Security
	rc := handlers.RouterConfig{
		Dashboard:      a.Dashboard,
		Health:         a.Health,
		Logger:         a.Logger,
		Tracer:         a.OTelProviders.Tracer,
		Metrics:        a.Recorder,
		Prometheus:     a.OTelProviders.PrometheusHTTP,
		AllowedOrigins: sec.AllowedOrigins,
		EnableCORS:     sec.EnableCORS,
		RequestTimeout: a.Config.Server.RequestTimeout,
		IncludeStack:   a.Config.Logging.Development,
	}
	if sec.RateLimit.Enabled {
		rc.RateLimitRPS = sec.RateLimit.RPS
		rc.RateLimitBurst = sec.RateLimit.Burst
	}

	router, err := handlers.NewRouter(rc)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}
	a.Router = router
	return nil
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Serve handles requests on ln until ctx is cancelled, then shuts down
// gracefully
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(ctx, "Dashboard listening",
			slog.String("address", ln.Addr().String()),
			slog.String("version", config.AppVersion))
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(ctx))
	})

	return g.Wait()
}

// Run listens on the configured address until SIGINT or SIGTERM
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		a.shutdownTelemetry(ctx)
		return fmt.Errorf("listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Stop gracefully stops the server and flushes telemetry
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down dashboard")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	a.shutdownTelemetry(shutdownCtx)

	a.Logger.InfoContext(ctx, "Dashboard shutdown complete")
	return nil
}

func (a *Application) shutdownTelemetry(ctx context.Context) {
	if a.OTelProviders == nil {
		return
	}
	if err := a.OTelProviders.Shutdown(ctx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}
}
