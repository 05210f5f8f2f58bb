package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "transitdash/internal/errors"
	"transitdash/internal/exporter"
	"transitdash/internal/services"
)

// APIHandler serves the JSON and CSV views of the dashboard data
type APIHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *APIHandler {
	return &APIHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "api")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes
func (h *APIHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/metrics", h.GetMetrics)
	r.Get("/load-report", h.GetLoadReport)

	r.Get("/series", h.ListSeries)
	r.Get("/series/{name}", h.GetSeries)
	r.Get("/series/{name}/export.csv", h.ExportSeries)

	r.Get("/charts", h.ListCharts)
	r.Get("/charts/{chart}", h.GetChart)

	r.Get("/tabs/{tab}", h.GetTab)
	return r
}

// GetMetrics handles GET /api/metrics
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Metrics())
}

// GetLoadReport handles GET /api/load-report
func (h *APIHandler) GetLoadReport(w http.ResponseWriter, r *http.Request) {
	report := h.service.LoadReport()
	if report == nil {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("load report", "current"))
		return
	}
	render.JSON(w, r, report)
}

// ListSeries handles GET /api/series
func (h *APIHandler) ListSeries(w http.ResponseWriter, r *http.Request) {
	names := h.service.SeriesNames()
	render.JSON(w, r, map[string]interface{}{
		"data":  names,
		"count": len(names),
	})
}

// GetSeries handles GET /api/series/{name}
func (h *APIHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	series, err := h.service.Series(name)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, series)
}

// ExportSeries handles GET /api/series/{name}/export.csv
func (h *APIHandler) ExportSeries(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	series, err := h.service.Series(name)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteSeries(&buf, series); err != nil {
		h.errorHandler.HandleError(w, r, fmt.Errorf("export %s: %w", name, err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
	_, _ = w.Write(buf.Bytes())
}

// ListCharts handles GET /api/charts
func (h *APIHandler) ListCharts(w http.ResponseWriter, r *http.Request) {
	ids := h.service.ChartIDs()
	render.JSON(w, r, map[string]interface{}{
		"data":  ids,
		"count": len(ids),
	})
}

// GetChart handles GET /api/charts/{chart}
func (h *APIHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	spec, err := h.service.Chart(r.Context(), chi.URLParam(r, "chart"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, spec)
}

// GetTab handles GET /api/tabs/{tab}
func (h *APIHandler) GetTab(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.RenderTab(r.Context(), chi.URLParam(r, "tab"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// handleServiceError maps service sentinels to API errors
func (h *APIHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownSeries):
		err = apierrors.NotFoundError("series", chi.URLParam(r, "name"))
	case errors.Is(err, services.ErrUnknownChart):
		err = apierrors.NotFoundError("chart", chi.URLParam(r, "chart"))
	case errors.Is(err, services.ErrUnknownTab):
		err = apierrors.NotFoundError("tab", chi.URLParam(r, "tab"))
	}
	h.errorHandler.HandleError(w, r, err)
}
