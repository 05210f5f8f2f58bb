package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"transitdash/internal/dataprocessing"
	"transitdash/internal/infrastructure"
	"transitdash/pkg/contracts/domain"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	dataset   *domain.Dataset
	report    *dataprocessing.LoadReport
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                       `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Version   string                       `json:"version"`
	Uptime    string                       `json:"uptime,omitempty"`
	Data      *DataHealth                  `json:"data,omitempty"`
	Runtime   *infrastructure.RuntimeStats `json:"runtime,omitempty"`
}

// DataHealth summarises the loaded workbook
type DataHealth struct {
	Source       string                        `json:"source"`
	Sheet        string                        `json:"sheet,omitempty"`
	LoadedAt     time.Time                     `json:"loaded_at"`
	LoadDuration string                        `json:"load_duration,omitempty"`
	Series       []dataprocessing.SeriesReport `json:"series,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, dataset *domain.Dataset, report *dataprocessing.LoadReport, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		dataset:   dataset,
		report:    report,
		startTime: time.Now(),
		logger:    infrastructure.WithComponent(logger, "health_service"),
	}
}

// HealthCheck reports "ok" when the fixed route series holds data and
// "degraded" otherwise
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
		Uptime:    time.Since(hs.startTime).Round(time.Second).String(),
		Data:      hs.dataHealth(),
	}
	if hs.dataset == nil || hs.dataset.FixedRoute().Empty() {
		status.Status = "degraded"
	}

	hs.logger.DebugContext(ctx, "health check completed",
		slog.String("status", status.Status),
		slog.String("uptime", status.Uptime))
	return status
}

// LivenessCheck reports process statistics without touching the data
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	stats := infrastructure.CollectRuntimeStats(hs.startTime)
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime:   &stats,
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	return map[string]interface{}{
		"version":    hs.version,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"start_time": hs.startTime.Format(time.RFC3339),
	}
}

func (hs *HealthService) dataHealth() *DataHealth {
	if hs.dataset == nil {
		return nil
	}
	dh := &DataHealth{
		Source:   hs.dataset.Source,
		LoadedAt: hs.dataset.LoadedAt,
	}
	if hs.report != nil {
		dh.Sheet = hs.report.Sheet
		dh.LoadDuration = hs.report.Duration.String()
		dh.Series = hs.report.Series
	}
	return dh
}
