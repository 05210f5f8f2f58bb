// Package app wires the dashboard together and runs its HTTP server.
//
// Startup order:
//
//  1. configuration and logger (done by the caller)
//  2. OpenTelemetry providers and dashboard metrics
//  3. workbook load; a missing file stops startup
//  4. derived metrics, services and the chi router
//  5. http.Server, served until the context ends or a signal arrives
package app
