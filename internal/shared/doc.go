// Package shared holds helpers used by more than one package of the dashboard.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and builders for KPI tracker workbooks:
//
//	path := testutil.WriteTracker(t, "Ridership", testutil.SampleTrackerRows())
//	logger, logs := testutil.NewTestLogger(t)
package shared
