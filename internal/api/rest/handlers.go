package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Afrawles/statusreport/internal/report"
)

// ReportBuilder assembles a report context for a configured project.
type ReportBuilder interface {
	BuildReport(ctx context.Context, projectKey, reportType string) (*report.ReportContext, error)
}

// Handler serves assembled report contexts over HTTP
type Handler struct {
	reports ReportBuilder
	logger  *zap.Logger
}

// NewHandler creates a new REST handler
func NewHandler(reports ReportBuilder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		reports: reports,
		logger:  logger,
	}
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetReport handles GET /projects/{key}/reports/{type}
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	reportType := chi.URLParam(r, "type")

	rc, err := h.reports.BuildReport(r.Context(), key, reportType)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rc)
}

// GetTimeline handles GET /projects/{key}/reports/kickoff/timeline
func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	rc, err := h.reports.BuildReport(r.Context(), key, string(report.ReportKickoff))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if rc.Kickoff == nil || len(rc.Kickoff.TimelineImage) == 0 {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "no timeline for project " + key})
		return
	}

	w.Header().Set("Content-Type", rc.Kickoff.TimelineImageType)
	w.WriteHeader(http.StatusOK)
	w.Write(rc.Kickoff.TimelineImage)
}

// RegisterRoutes registers REST API routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/projects/{key}/reports/kickoff/timeline", h.GetTimeline)
	r.Get("/projects/{key}/reports/{type}", h.GetReport)
}

// NewRouter mounts the handler under /api/v1 next to a health probe.
func NewRouter(h *Handler) http.Handler {
	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		h.RegisterRoutes(r)
	})
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return router
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var cfgErr *report.ConfigurationError
	var parseErr *report.ParseError
	var upErr *report.UpstreamError
	switch {
	case errors.As(err, &cfgErr):
		status = http.StatusBadRequest
	case errors.As(err, &parseErr):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &upErr):
		status = http.StatusBadGateway
	}

	h.logger.Error("report request failed", zap.Int("status", status), zap.Error(err))
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
