package services

import (
	"transitdash/pkg/contracts/domain"
)

// TabID names one tab of the dashboard
type TabID string

const (
	TabOverview TabID = "overview"
	TabTimeline TabID = "timeline"
	TabSeasonal TabID = "seasonal"
	TabServices TabID = "services"
)

// DefaultTab is shown when the page is opened without a selection
const DefaultTab = TabOverview

// SelectTabMessage replaces the tab body when the selection is unknown
const SelectTabMessage = "Select a tab"

// Tab is one entry of the tab strip
type Tab struct {
	ID     TabID  `json:"id"`
	Label  string `json:"label"`
	Active bool   `json:"active,omitempty"`
}

var tabs = []Tab{
	{ID: TabOverview, Label: "📊 Overview"},
	{ID: TabTimeline, Label: "📈 Timeline"},
	{ID: TabSeasonal, Label: "🗓️ Seasonal"},
	{ID: TabServices, Label: "🚌 Services"},
}

// Span is a run of narrative text
type Span struct {
	Text   string `json:"text"`
	Strong bool   `json:"strong,omitempty"`
}

// Bullet is one list item of a tab. Authored bullets carry figures written
// by hand that are not recomputed from the loaded data.
type Bullet struct {
	Term     string `json:"term,omitempty"`
	Text     string `json:"text"`
	Authored bool   `json:"authored,omitempty"`
}

// PanelWidth controls how much of the row a chart panel takes
type PanelWidth string

const (
	PanelFull PanelWidth = "full"
	PanelHalf PanelWidth = "half"
)

// ChartPanel places one chart on a tab
type ChartPanel struct {
	Width PanelWidth       `json:"width"`
	Chart domain.ChartSpec `json:"chart"`
}

// TabView is the content of one tab, built fresh on every selection
type TabView struct {
	Tab       TabID        `json:"tab"`
	Heading   string       `json:"heading"`
	Narrative []Span       `json:"narrative,omitempty"`
	Charts    []ChartPanel `json:"charts"`
	ListTitle string       `json:"list_title,omitempty"`
	Bullets   []Bullet     `json:"bullets,omitempty"`
}

// Trend colours the caption of a KPI card
type Trend string

const (
	TrendNone Trend = ""
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

// KPICard is one of the headline figures shown above the tabs
type KPICard struct {
	Title   string `json:"title"`
	Value   string `json:"value"`
	Caption string `json:"caption"`
	Trend   Trend  `json:"trend,omitempty"`
}

// Header is the page banner
type Header struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Credit   string `json:"credit"`
}

// PageView is everything the dashboard page shows for one tab selection.
// Content is nil for an unknown tab.
type PageView struct {
	Header  Header    `json:"header"`
	KPIs    []KPICard `json:"kpis"`
	Tabs    []Tab     `json:"tabs"`
	Content *TabView  `json:"content,omitempty"`
	Footer  string    `json:"footer"`
}
