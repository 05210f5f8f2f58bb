package domain

import (
	"time"
)

// YearRange is an inclusive range of calendar years
type YearRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Contains reports whether year falls inside the range
func (r YearRange) Contains(year int) bool {
	return year >= r.From && year <= r.To
}

// Policy holds the fixed highlight rules of the dashboard. None of these
// values are derived from data.
type Policy struct {
	DisruptionStart time.Time    `json:"disruption_start"`
	DisruptionEnd   time.Time    `json:"disruption_end"`
	DisruptionLabel string       `json:"disruption_label"`
	HighlightYears  YearRange    `json:"highlight_years"`
	SummerMonths    []time.Month `json:"summer_months"`
	BaselineYear    int          `json:"baseline_year"`
}

// DefaultPolicy returns the pandemic-era highlight rules
func DefaultPolicy() Policy {
	return Policy{
		DisruptionStart: time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC),
		DisruptionEnd:   time.Date(2021, time.December, 31, 0, 0, 0, 0, time.UTC),
		DisruptionLabel: "COVID-19",
		HighlightYears:  YearRange{From: 2020, To: 2021},
		SummerMonths:    []time.Month{time.June, time.July, time.August},
		BaselineYear:    2019,
	}
}

// IsSummer reports whether month is one of the highlighted summer months
func (p Policy) IsSummer(month int) bool {
	for _, m := range p.SummerMonths {
		if int(m) == month {
			return true
		}
	}
	return false
}
