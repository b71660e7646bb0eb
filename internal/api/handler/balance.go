// internal/api/handler/balance.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medalbank/internal/service"
	"medalbank/internal/util"
)

// BalanceHandler handles HTTP requests for balance reads.
type BalanceHandler struct {
	base
	service service.BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(svc service.BalanceService, logger *slog.Logger, development bool) *BalanceHandler {
	return &BalanceHandler{
		base:    base{logger: logger, development: development},
		service: svc,
	}
}

// GetBalance handles the balance read request.
// GET /api/balance/{userID}?storeId=
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	storeID, err := queryInt64Ptr(r, "storeId")
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	snapshot, err := h.service.GetBalance(r.Context(), userID, storeID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, snapshot)
}
