// internal/api/handler/batch.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"medalbank/internal/domain"
	"medalbank/internal/service"
	"medalbank/internal/util"
)

// BatchHandler handles HTTP requests for batch and bulk operations.
type BatchHandler struct {
	base
	service service.BatchService
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(svc service.BatchService, logger *slog.Logger, development bool) *BatchHandler {
	return &BatchHandler{
		base:    base{logger: logger, development: development},
		service: svc,
	}
}

// BatchOperationRequest is one entry of a batch request body.
type BatchOperationRequest struct {
	Type        string `json:"type" validate:"required,oneof=deposit withdraw"`
	Amount      int64  `json:"amount" validate:"required,gt=0,lte=100000"`
	Description string `json:"description" validate:"max=255"`
}

// BatchRequest represents the request body for a batch of operations.
type BatchRequest struct {
	UserID       int64                   `json:"user_id" validate:"required,gt=0"`
	Operations   []BatchOperationRequest `json:"transactions" validate:"required,min=1,max=50,dive"`
	ValidateOnly bool                    `json:"validate_only"`
}

// ApplyBatch handles the batch transactions request.
// POST /api/batch/transactions
func (h *BatchHandler) ApplyBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	if problems := util.ValidateStruct(req); problems != nil {
		h.respondWithFieldProblems(w, problems)
		return
	}

	operations := make([]service.BatchOperation, len(req.Operations))
	for i, op := range req.Operations {
		operations[i] = service.BatchOperation{
			Type:        domain.TransactionType(op.Type),
			Amount:      op.Amount,
			Description: op.Description,
		}
	}

	result, err := h.service.ApplyBatch(r.Context(), req.UserID, operations, req.ValidateOnly)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	status := http.StatusCreated
	if req.ValidateOnly {
		status = http.StatusOK
	}
	h.respondWithJSON(w, status, result)
}

// BulkRequest represents the request body for count identical operations.
type BulkRequest struct {
	UserID      int64  `json:"user_id" validate:"required,gt=0"`
	Amount      int64  `json:"amount" validate:"required,gt=0,lte=100000"`
	Count       int    `json:"count" validate:"required,gt=0,lte=20"`
	Description string `json:"description" validate:"max=255"`
}

// BulkDeposit handles the bulk deposit request.
// POST /api/batch/bulk-deposit
func (h *BatchHandler) BulkDeposit(w http.ResponseWriter, r *http.Request) {
	h.bulkApply(w, r, domain.TransactionTypeDeposit)
}

// BulkWithdraw handles the bulk withdraw request.
// POST /api/batch/bulk-withdraw
func (h *BatchHandler) BulkWithdraw(w http.ResponseWriter, r *http.Request) {
	h.bulkApply(w, r, domain.TransactionTypeWithdraw)
}

func (h *BatchHandler) bulkApply(w http.ResponseWriter, r *http.Request, opType domain.TransactionType) {
	var req BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	if problems := util.ValidateStruct(req); problems != nil {
		h.respondWithFieldProblems(w, problems)
		return
	}

	result, err := h.service.BulkApply(r.Context(), req.UserID, opType, req.Amount, req.Count, req.Description)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, result)
}

// Validate handles the standalone net-change pre-check.
// GET /api/batch/validate?userId=&netChange=
func (h *BatchHandler) Validate(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64Ptr(r, "userId")
	if err != nil || userID == nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	netChange, err := queryInt64Ptr(r, "netChange")
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	// An absent netChange checks the current balance as-is.
	var delta int64
	if netChange != nil {
		delta = *netChange
	}

	validation, err := h.service.Validate(r.Context(), *userID, delta)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, validation)
}
