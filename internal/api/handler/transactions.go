// internal/api/handler/transactions.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"medalbank/internal/domain"
	"medalbank/internal/service"
	"medalbank/internal/util"
)

// TransactionHandler handles HTTP requests for single transactions and
// history queries.
type TransactionHandler struct {
	base
	balances service.BalanceService
	stats    service.StatsService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(balances service.BalanceService, stats service.StatsService, logger *slog.Logger, development bool) *TransactionHandler {
	return &TransactionHandler{
		base:     base{logger: logger, development: development},
		balances: balances,
		stats:    stats,
	}
}

// CreateTransactionRequest represents the request body for one deposit or
// withdrawal.
type CreateTransactionRequest struct {
	UserID      int64  `json:"user_id" validate:"required,gt=0"`
	StoreID     *int64 `json:"store_id" validate:"omitempty,gt=0"`
	Type        string `json:"type" validate:"required,oneof=deposit withdraw"`
	Amount      int64  `json:"amount" validate:"required,gt=0,lte=100000"`
	Description string `json:"description" validate:"max=255"`
}

// Create handles the single transaction request.
// POST /api/transactions
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	if problems := util.ValidateStruct(req); problems != nil {
		h.respondWithFieldProblems(w, problems)
		return
	}

	transaction, err := h.balances.ApplyTransaction(r.Context(), service.ApplyTransactionInput{
		UserID:      req.UserID,
		StoreID:     req.StoreID,
		Type:        domain.TransactionType(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Transaction recorded",
		"transaction": transaction,
	})
}

// List handles the transaction history request.
// GET /api/transactions?userId=&storeId=&type=&dateFrom=&dateTo=&limit=&offset=&includeStats=
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	userID, err := queryInt64Ptr(r, "userId")
	if err != nil || userID == nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	storeID, err := queryInt64Ptr(r, "storeId")
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	input := service.ListTransactionsInput{
		UserID:       *userID,
		StoreID:      storeID,
		DateFrom:     query.Get("dateFrom"),
		DateTo:       query.Get("dateTo"),
		Limit:        limit,
		Offset:       offset,
		IncludeStats: query.Get("includeStats") == "true",
	}
	if raw := query.Get("type"); raw != "" {
		txType := domain.TransactionType(raw)
		input.Type = &txType
	}

	page, err := h.stats.ListTransactions(r.Context(), input)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, page)
}
