// Package http serves the ridership dashboard over HTTP.
//
// Handlers stay thin: they parse the request, call the dashboard or health
// service and translate service errors into RFC 7807 problem responses
// through internal/errors.
//
// Routes:
//
//	GET /                          dashboard page, ?tab= selects the tab
//	GET /charts/{chart}.svg        chart rendered as SVG, ?width= in pixels
//	GET /metrics                   Prometheus scrape endpoint
//	GET /api/metrics               derived ridership metrics
//	GET /api/load-report           row counts of the last workbook load
//	GET /api/series[/{name}]       ridership series
//	GET /api/series/{name}/export.csv
//	GET /api/charts[/{chart}]      chart specifications
//	GET /api/tabs/{tab}            content of one tab
//	GET /api/health[/live]
//	GET /api/version
package http
