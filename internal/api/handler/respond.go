// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"medalbank/internal/api/types"
	"medalbank/internal/util"
)

// DefaultTimeout bounds request handling across all routes.
const DefaultTimeout = 30 * time.Second

// base carries the pieces every handler shares: the logger and the
// development flag controlling whether internals leak into 500 bodies.
type base struct {
	logger      *slog.Logger
	development bool
}

// Helper function to send JSON responses.
func (b *base) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses.
func (b *base) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	resp := types.ErrorResponse{Error: "Internal server error"}

	var insufficient *util.InsufficientBalanceError
	var batchInvalid *util.BatchValidationError
	var storeHasData *util.StoreHasDataError

	switch {
	case errors.As(err, &insufficient):
		statusCode = http.StatusBadRequest
		resp.Error = "Insufficient balance"
		resp.Details = map[string]interface{}{
			"current_balance":  insufficient.Current,
			"requested_amount": insufficient.Requested,
			"shortage":         insufficient.Shortfall(),
		}
	case errors.As(err, &batchInvalid):
		statusCode = http.StatusBadRequest
		resp.Error = "Batch validation failed"
		resp.Details = map[string]interface{}{
			"validation_errors": batchInvalid.Problems,
		}
	case errors.As(err, &storeHasData):
		statusCode = http.StatusConflict
		resp.Error = "Store has related data"
		resp.Hint = "retry with forceDelete=true to remove the store and its ledger data"
		resp.Details = map[string]interface{}{
			"balance_count":     storeHasData.BalanceCount,
			"transaction_count": storeHasData.TransactionCount,
			"total_balance":     storeHasData.TotalBalance,
		}
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		resp.Error = err.Error()
	case util.IsError(err, util.ErrUserNotFound):
		statusCode = http.StatusNotFound
		resp.Error = "User not found"
	case util.IsError(err, util.ErrStoreNotFound):
		statusCode = http.StatusNotFound
		resp.Error = "Store not found"
	case util.IsError(err, util.ErrNotFound):
		statusCode = http.StatusNotFound
		resp.Error = "Resource not found"
	case util.IsError(err, util.ErrTokenExpired):
		statusCode = http.StatusUnauthorized
		resp.Error = "Token expired"
	case util.IsError(err, util.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		resp.Error = "Authentication required"
	case util.IsError(err, util.ErrDuplicateName):
		statusCode = http.StatusConflict
		resp.Error = "A store with this name already exists"
	default:
		b.logger.Error("Unhandled service error", "error", err)
		if b.development {
			resp.Details = map[string]interface{}{"internal": err.Error()}
		}
	}

	b.respondWithJSON(w, statusCode, resp)
}

// respondWithFieldProblems reports request-body validation failures as one
// 400 carrying every failing field.
func (b *base) respondWithFieldProblems(w http.ResponseWriter, problems []util.FieldProblem) {
	b.respondWithJSON(w, http.StatusBadRequest, types.ErrorResponse{
		Error:   "Validation failed",
		Details: map[string]interface{}{"validation_errors": problems},
	})
}

// pathID parses a positive integer URL parameter.
func pathID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, util.ErrInvalidInput
	}
	return id, nil
}

// queryInt parses an optional integer query parameter, returning fallback
// when absent.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, util.ErrInvalidInput
	}
	return value, nil
}

// queryInt64Ptr parses an optional integer query parameter into a pointer,
// nil when absent.
func queryInt64Ptr(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, util.ErrInvalidInput
	}
	return &value, nil
}
