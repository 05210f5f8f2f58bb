package http

import (
	"context"
	"io"

	"transitdash/internal/dataprocessing"
	"transitdash/internal/services"
	"transitdash/pkg/contracts/domain"
)

// DashboardServiceInterface is what the handlers need from the dashboard service
type DashboardServiceInterface interface {
	Page(ctx context.Context, tab string) services.PageView
	RenderTab(ctx context.Context, tab string) (*services.TabView, error)
	Chart(ctx context.Context, id string) (domain.ChartSpec, error)
	ChartIDs() []string
	RenderChartSVG(ctx context.Context, id string, width int, w io.Writer) error
	Series(name string) (domain.RidershipSeries, error)
	SeriesNames() []string
	Metrics() domain.DerivedMetrics
	LoadReport() *dataprocessing.LoadReport
}

// HealthServiceInterface is what the health handler needs
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}
