// Package config loads the dashboard configuration.
//
// # Sources
//
// Values are layered, later sources winning:
//
//	1. Default()
//	2. config.yaml or configs/config.yaml (or the file named by TRANSIT_CONFIG_FILE)
//	3. a .env file in the working directory
//	4. TRANSIT_* environment variables
//
// Environment variable names follow the struct layout:
//
//	TRANSIT_SERVER_PORT=8050
//	TRANSIT_DATA_FILE="New KPI Tracker.xlsx"
//	TRANSIT_POLICY_BASELINE_YEAR=2019
//	TRANSIT_POLICY_SUMMER_MONTHS=6,7,8
//	TRANSIT_TELEMETRY_TRACE_EXPORTER=stdout
//
// The resulting Config is validated with go-playground/validator; the
// highlight policy is additionally parsed by PolicyConfig.ToDomain.
package config
