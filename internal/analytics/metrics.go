// Package analytics derives the headline statistics and group-by views of a
// ridership series. Every function is pure and never fails: degenerate input
// resolves to zero values.
package analytics

import (
	"transitdash/pkg/contracts/domain"
)

// Compute derives the headline metrics of series. The series must be sorted
// by date, which the loader guarantees.
func Compute(series domain.RidershipSeries, baselineYear int) domain.DerivedMetrics {
	m := domain.DerivedMetrics{
		BaselineYear: baselineYear,
		MonthsLoaded: series.Len(),
	}
	if series.Empty() {
		return m
	}

	for _, r := range series.Records {
		if r.Year > m.LatestYear {
			m.LatestYear = r.Year
		}
	}
	m.PreviousYear = m.LatestYear - 1

	for _, r := range series.Records {
		if r.Year == m.LatestYear {
			m.AnnualTotal += r.Ridership
			if r.Month > m.MaxMonthCurrent {
				m.MaxMonthCurrent = r.Month
			}
			// last row of the latest year wins
			m.LatestValue = r.Ridership
			date := r.Date
			m.LatestDate = &date
		}
		if r.Year == baselineYear {
			m.BaselineTotal += r.Ridership
		}
	}

	for _, r := range series.Records {
		if r.Year == m.PreviousYear && r.Month <= m.MaxMonthCurrent {
			m.YTDPrevious += r.Ridership
		}
	}

	m.YoYChangePct = percentChange(m.AnnualTotal, m.YTDPrevious)
	m.RecoveryPct = percentOf(m.AnnualTotal, m.BaselineTotal)
	return m
}

// percentChange returns the change from previous to current in percent,
// or 0 when previous is not positive.
func percentChange(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// percentOf returns part as a percentage of whole, or 0 when whole is not positive.
func percentOf(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}
