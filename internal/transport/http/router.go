package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/otel/trace"

	apierrors "transitdash/internal/errors"
	"transitdash/internal/infrastructure"
	"transitdash/internal/middleware"
)

// RouterConfig wires the handlers and middleware of the dashboard server
type RouterConfig struct {
	Dashboard DashboardServiceInterface
	Health    HealthServiceInterface
	Logger    *slog.Logger

	Tracer  trace.Tracer
	Metrics *infrastructure.DashboardMetrics
	// Prometheus is mounted at /metrics when set
	Prometheus http.Handler

	AllowedOrigins []string
	EnableCORS     bool
	// RateLimitRPS disables the limiter when zero
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
	// IncludeStack adds stack traces to 5xx problem responses
	IncludeStack bool
}

// NewRouter builds the chi router of the dashboard
func NewRouter(cfg RouterConfig) (*chi.Mux, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	errorHandler := apierrors.NewErrorHandler(logger, cfg.IncludeStack)

	dashboard, err := NewDashboardHandler(cfg.Dashboard, logger, errorHandler)
	if err != nil {
		return nil, err
	}
	api := NewAPIHandler(cfg.Dashboard, logger, errorHandler)
	health := NewHealthHandler(cfg.Health, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Tracer != nil {
		r.Use(middleware.NewOTelMiddleware(cfg.Tracer, cfg.Metrics).Handler)
	}
	r.Use(middleware.StructuredLogger(logger))
	r.Use(apierrors.RecoveryMiddleware(errorHandler))
	r.Use(middleware.SecurityHeaders)
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		r.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, burst, logger).Handler)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Get("/", dashboard.Index)
	r.Get("/charts/{chart}.svg", dashboard.ChartSVG)

	if cfg.Prometheus != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Prometheus)
	}

	r.Route("/api", func(r chi.Router) {
		if cfg.EnableCORS {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   cfg.AllowedOrigins,
				AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
				AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
				ExposedHeaders:   []string{middleware.RequestIDHeader},
				AllowCredentials: false,
				MaxAge:           300,
			}))
		}
		if cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(cfg.RequestTimeout, logger))
		}

		r.Get("/health", health.HealthCheck)
		r.Get("/health/live", health.LivenessCheck)
		r.Get("/version", health.Version)
		r.Mount("/", api.Routes())
	})

	return r, nil
}
