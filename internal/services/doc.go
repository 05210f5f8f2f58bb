// Package services turns the loaded ridership dataset into what the
// dashboard shows.
//
// DashboardService builds tab views, KPI cards and chart specs on demand.
// It holds no mutable state: the dataset and derived metrics are computed
// once at startup and shared read-only by every request, so each tab render
// is idempotent. HealthService reports the load outcome and process
// statistics.
//
// Lookups by name return errors wrapping ErrUnknownTab, ErrUnknownSeries or
// ErrUnknownChart; HTTP handlers map these to 404 problems.
package services
