// internal/api/handler/stores.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medalbank/internal/service"
	"medalbank/internal/util"
)

// StoreHandler handles HTTP requests for the store registry.
type StoreHandler struct {
	base
	service service.StoreService
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(svc service.StoreService, logger *slog.Logger, development bool) *StoreHandler {
	return &StoreHandler{
		base:    base{logger: logger, development: development},
		service: svc,
	}
}

// List handles the store listing request.
// GET /api/stores
func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	stores, err := h.service.ListStores(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"stores": stores,
		"count":  len(stores),
	})
}

// Get handles the single store request.
// GET /api/stores/{id}
func (h *StoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	store, err := h.service.GetStore(r.Context(), id)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, store)
}

// CreateStoreRequest represents the request body for creating a store.
type CreateStoreRequest struct {
	Name               string  `json:"name" validate:"required,max=100"`
	Description        *string `json:"description" validate:"omitempty,max=255"`
	Color              string  `json:"color" validate:"omitempty,hexcolor"`
	InitializeBalances bool    `json:"initialize_balances"`
}

// Create handles the store creation request.
// POST /api/stores
func (h *StoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	if problems := util.ValidateStruct(req); problems != nil {
		h.respondWithFieldProblems(w, problems)
		return
	}

	store, err := h.service.CreateStore(r.Context(), service.CreateStoreInput{
		Name:               req.Name,
		Description:        req.Description,
		Color:              req.Color,
		InitializeBalances: req.InitializeBalances,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Store created",
		"store":   store,
	})
}

// UpdateStoreRequest represents the request body for updating a store.
type UpdateStoreRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	Color       string  `json:"color" validate:"omitempty,hexcolor"`
}

// Update handles the store update request.
// PUT /api/stores/{id}
func (h *StoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	var req UpdateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	if problems := util.ValidateStruct(req); problems != nil {
		h.respondWithFieldProblems(w, problems)
		return
	}

	store, err := h.service.UpdateStore(r.Context(), id, service.UpdateStoreInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Store updated",
		"store":   store,
	})
}

// Delete handles the store deletion request.
// DELETE /api/stores/{id}?forceDelete=true
func (h *StoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	force := r.URL.Query().Get("forceDelete") == "true"
	deletion, err := h.service.DeleteStore(r.Context(), id, force)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Store deleted",
		"deletion": deletion,
	})
}

// Stats handles the store statistics request.
// GET /api/stores/{id}/stats
func (h *StoreHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	stats, err := h.service.StoreStats(r.Context(), id)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, stats)
}
