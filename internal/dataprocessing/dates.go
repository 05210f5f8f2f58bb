package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Textual layouts accepted for the date column when the cell is not a
// native Excel date.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006",
	"1/2/06",
	"01-02-06",
	"01-02-2006",
	"2-Jan-06",
	"02-Jan-2006",
	"Jan-06",
	"Jan-2006",
	"Jan 2006",
	"January 2006",
	"2006-01",
	"2006/01/02",
}

// maxExcelSerial is 9999-12-31 in the 1900 date system
const maxExcelSerial = 2958465

// ParseDate parses a raw cell value into a calendar date at UTC midnight.
// Excel serial numbers and the layouts above are accepted; anything else
// reports ok=false.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if math.IsNaN(serial) || serial < 1 || serial > maxExcelSerial {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return truncateDay(t), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return truncateDay(t), true
		}
	}
	return time.Time{}, false
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// quarterOf returns the calendar quarter (1-4) of month
func quarterOf(month time.Month) int {
	return (int(month)-1)/3 + 1
}
