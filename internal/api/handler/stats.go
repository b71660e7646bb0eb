// internal/api/handler/stats.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medalbank/internal/service"
	"medalbank/internal/util"
)

// StatsHandler handles HTTP requests for the read-only aggregate views.
type StatsHandler struct {
	base
	service service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(svc service.StatsService, logger *slog.Logger, development bool) *StatsHandler {
	return &StatsHandler{
		base:    base{logger: logger, development: development},
		service: svc,
	}
}

// UserStats handles the per-period statistics request.
// GET /api/stats/user/{userID}?period=
func (h *StatsHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	stats, err := h.service.UserStats(r.Context(), userID, r.URL.Query().Get("period"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, stats)
}

// Summary handles the compact main-screen summary request.
// GET /api/stats/summary/{userID}
func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	summary, err := h.service.Summary(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, summary)
}

// Trends handles the day-by-day trend request.
// GET /api/stats/trends/{userID}?days=
func (h *StatsHandler) Trends(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	days, err := queryInt(r, "days", 0)
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	report, err := h.service.Trend(r.Context(), userID, days)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, report)
}
