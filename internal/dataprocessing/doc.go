// Package dataprocessing reads the monthly ridership figures out of the KPI
// tracker workbook.
//
// The "Ridership" sheet holds several services side by side, each one a
// (date, value) column pair at a fixed offset. TrackerLayout describes those
// offsets. For every pair the loader drops rows without a usable value or
// date, derives the calendar fields, sorts by date and, for the fixed-route
// service only, attaches a centred 12-month rolling mean.
//
// # Usage
//
//	loader, err := dataprocessing.NewLoader(dataprocessing.DefaultOptions(), logger)
//	if err != nil {
//	    return err
//	}
//	dataset, report, err := loader.Load(ctx, "New KPI Tracker.xlsx")
//	if errors.Is(err, dataprocessing.ErrMissingFile) {
//	    // tell the operator where the workbook is expected
//	}
//
// Malformed rows are never errors. They are counted per series in the
// returned LoadReport.
package dataprocessing
