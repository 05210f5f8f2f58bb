package config

// Application constants
const (
	AppName    = "Greeley Transit Dashboard"
	AppVersion = "1.0.0"

	// Agency shown in page headings and the footer
	AgencyName = "Greeley Transit"

	DefaultPort     = 8050
	DefaultDataFile = "New KPI Tracker.xlsx"
	DefaultSheet    = "Ridership"

	// DateLayout is the layout of every date in the configuration
	DateLayout = "2006-01-02"
)
