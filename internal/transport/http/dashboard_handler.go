package http

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"transitdash/internal/charts"
	apierrors "transitdash/internal/errors"
	"transitdash/internal/services"
	"transitdash/pkg/contracts/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	minChartWidth = 200
	maxChartWidth = 4000
	halfWidth     = charts.DefaultWidth / 2
)

// placeholderSVG is served for charts without any defined value
const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="120">` +
	`<text x="50%%" y="50%%" text-anchor="middle" font-family="sans-serif" fill="#7f8c8d">No data</text></svg>`

// DashboardHandler serves the HTML dashboard and its SVG charts
type DashboardHandler struct {
	service      DashboardServiceInterface
	tmpl         *template.Template
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler parses the embedded page template
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) (*DashboardHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	return &DashboardHandler{
		service:      service,
		tmpl:         tmpl,
		logger:       logger.With(slog.String("handler", "dashboard")),
		errorHandler: errorHandler,
	}, nil
}

// pageData is the template view of a PageView
type pageData struct {
	services.PageView
	Placeholder string
	Panels      []panelData
}

type panelData struct {
	Half    bool
	ID      domain.ChartID
	Title   string
	Width   int
	Heatmap *heatmapTable
}

type heatmapTable struct {
	Title   string
	Columns []string
	Rows    []heatmapRow
}

type heatmapRow struct {
	Year  int
	Cells []heatmapCell
}

type heatmapCell struct {
	Text  string
	Style template.CSS
}

// Index handles GET /?tab=
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	tab := r.URL.Query().Get("tab")
	if tab == "" {
		tab = string(services.DefaultTab)
	}

	page := h.service.Page(r.Context(), tab)
	data := pageData{PageView: page}
	if page.Content == nil {
		data.Placeholder = services.SelectTabMessage
	} else {
		data.Panels = panels(page.Content)
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		h.errorHandler.HandleError(w, r, fmt.Errorf("render dashboard page: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// ChartSVG handles GET /charts/{chart}.svg
func (h *DashboardHandler) ChartSVG(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(chi.URLParam(r, "chart"), ".svg")

	width, err := parseWidth(r.URL.Query().Get("width"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	err = h.service.RenderChartSVG(r.Context(), id, width, &buf)
	switch {
	case err == nil:
	case errors.Is(err, charts.ErrNothingToDraw):
		buf.Reset()
		fmt.Fprintf(&buf, placeholderSVG, width)
	case errors.Is(err, charts.ErrUnsupportedKind):
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameterError("chart", id, svgChartIDs(h.service.ChartIDs())))
		return
	case errors.Is(err, services.ErrUnknownChart):
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("chart", id))
		return
	default:
		h.errorHandler.HandleError(w, r, apierrors.ChartRenderError(id, err))
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(buf.Bytes())
}

// parseWidth validates the width query parameter. Empty means the default.
func parseWidth(raw string) (int, error) {
	if raw == "" {
		return charts.DefaultWidth, nil
	}
	width, err := strconv.Atoi(raw)
	if err != nil || width < minChartWidth || width > maxChartWidth {
		return 0, apierrors.InvalidParameterError("width", raw,
			[]string{fmt.Sprintf("%d-%d", minChartWidth, maxChartWidth)})
	}
	return width, nil
}

func svgChartIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != string(domain.ChartSeasonalHeatmap) {
			out = append(out, id)
		}
	}
	return out
}

func panels(view *services.TabView) []panelData {
	out := make([]panelData, 0, len(view.Charts))
	for _, p := range view.Charts {
		pd := panelData{
			Half:  p.Width == services.PanelHalf,
			ID:    p.Chart.ID,
			Title: p.Chart.Title,
			Width: charts.DefaultWidth,
		}
		if pd.Half {
			pd.Width = halfWidth
		}
		if p.Chart.Kind == domain.ChartKindHeatmap {
			pd.Heatmap = heatmap(p.Chart)
		}
		out = append(out, pd)
	}
	return out
}

// heatmap lays out a heatmap spec as a coloured table
func heatmap(spec domain.ChartSpec) *heatmapTable {
	table := &heatmapTable{Title: spec.Title}
	grid := spec.Heatmap
	if grid == nil {
		return table
	}
	table.Columns = grid.XLabels

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range grid.Z {
		for _, v := range row {
			if v != nil {
				lo = math.Min(lo, *v)
				hi = math.Max(hi, *v)
			}
		}
	}

	for i, year := range grid.YLabels {
		row := heatmapRow{Year: year}
		var values []*float64
		if i < len(grid.Z) {
			values = grid.Z[i]
		}
		for j := range grid.XLabels {
			var v *float64
			if j < len(values) {
				v = values[j]
			}
			if v == nil {
				row.Cells = append(row.Cells, heatmapCell{})
				continue
			}
			bg := charts.HeatColor(*v, lo, hi)
			row.Cells = append(row.Cells, heatmapCell{
				Text:  humanize.Comma(int64(math.Round(*v))),
				Style: template.CSS(fmt.Sprintf("background-color: %s; color: %s", bg, charts.HeatTextColor(bg))),
			})
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
