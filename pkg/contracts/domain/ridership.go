package domain

import (
	"time"
)

// SeriesName identifies one of the ridership series extracted from the tracker workbook
type SeriesName string

const (
	SeriesFixedRoute  SeriesName = "fixed_route"
	SeriesParatransit SeriesName = "paratransit"
	SeriesUniversity  SeriesName = "unc"
)

// Record is one calendar month of ridership for a single service
type Record struct {
	Date      time.Time `json:"date"`
	Ridership float64   `json:"ridership"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Quarter   int       `json:"quarter"`
	MonthName string    `json:"month_name"`
	// Rolling12 is nil where the centred 12-month window does not fit.
	Rolling12 *float64 `json:"rolling_12,omitempty"`
}

// RidershipSeries is an ordered, load-once sequence of monthly records
type RidershipSeries struct {
	Name    SeriesName `json:"name"`
	Label   string     `json:"label"`
	Records []Record   `json:"records"`
}

// Len returns the number of records in the series
func (s RidershipSeries) Len() int {
	return len(s.Records)
}

// Empty reports whether the series holds no records
func (s RidershipSeries) Empty() bool {
	return len(s.Records) == 0
}

// HasRolling reports whether any record carries a rolling average
func (s RidershipSeries) HasRolling() bool {
	for _, r := range s.Records {
		if r.Rolling12 != nil {
			return true
		}
	}
	return false
}

// Span returns the first and last record dates. ok is false for an empty series.
func (s RidershipSeries) Span() (first, last time.Time, ok bool) {
	if len(s.Records) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s.Records[0].Date, s.Records[len(s.Records)-1].Date, true
}

// Dataset holds every series loaded from one workbook snapshot
type Dataset struct {
	Source   string            `json:"source"`
	LoadedAt time.Time         `json:"loaded_at"`
	Series   []RidershipSeries `json:"series"`
}

// Get returns the series with the given name
func (d *Dataset) Get(name SeriesName) (RidershipSeries, bool) {
	if d == nil {
		return RidershipSeries{}, false
	}
	for _, s := range d.Series {
		if s.Name == name {
			return s, true
		}
	}
	return RidershipSeries{}, false
}

// FixedRoute returns the primary series, or an empty one when it is absent
func (d *Dataset) FixedRoute() RidershipSeries {
	s, ok := d.Get(SeriesFixedRoute)
	if !ok {
		return RidershipSeries{Name: SeriesFixedRoute}
	}
	return s
}

// DerivedMetrics are the headline statistics computed from the fixed-route series
type DerivedMetrics struct {
	LatestYear      int        `json:"latest_year"`
	PreviousYear    int        `json:"previous_year"`
	LatestValue     float64    `json:"latest_value"`
	LatestDate      *time.Time `json:"latest_date,omitempty"`
	AnnualTotal     float64    `json:"annual_total"`
	MaxMonthCurrent int        `json:"max_month_current"`
	YTDPrevious     float64    `json:"ytd_previous"`
	YoYChangePct    float64    `json:"yoy_change_pct"`
	BaselineYear    int        `json:"baseline_year"`
	BaselineTotal   float64    `json:"baseline_total"`
	RecoveryPct     float64    `json:"recovery_pct"`
	MonthsLoaded    int        `json:"months_loaded"`
}
