// internal/api/handler/stores_test.go
package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"medalbank/internal/domain"
	"medalbank/internal/service"
	"medalbank/internal/util"
)

func storeTestRouter(svc service.StoreService) http.Handler {
	h := NewStoreHandler(svc, util.GetLogger(), false)
	r := chi.NewRouter()
	r.Get("/api/stores", h.List)
	r.Post("/api/stores", h.Create)
	r.Get("/api/stores/{id}", h.Get)
	r.Put("/api/stores/{id}", h.Update)
	r.Delete("/api/stores/{id}", h.Delete)
	r.Get("/api/stores/{id}/stats", h.Stats)
	return r
}

func TestStoreHandlers(t *testing.T) {
	t.Run("CreateStore", func(t *testing.T) {
		mockService := new(MockStoreService)
		mockService.On("CreateStore", mock.Anything, service.CreateStoreInput{
			Name: "Game Center Akiba", Color: "#FF0000", InitializeBalances: true,
		}).Return(&domain.Store{ID: 5, Name: "Game Center Akiba", Color: "#FF0000"}, nil).Once()

		body := `{"name":"Game Center Akiba","color":"#FF0000","initialize_balances":true}`
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/stores", strings.NewReader(body))
		storeTestRouter(mockService).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("DuplicateNameIs409", func(t *testing.T) {
		mockService := new(MockStoreService)
		mockService.On("CreateStore", mock.Anything, mock.Anything).Return(nil, util.ErrDuplicateName).Once()

		body := `{"name":"Game Center Akiba"}`
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/stores", strings.NewReader(body))
		storeTestRouter(mockService).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidColorFailsValidation", func(t *testing.T) {
		mockService := new(MockStoreService)

		body := `{"name":"Game Center Akiba","color":"reddish"}`
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/stores", strings.NewReader(body))
		storeTestRouter(mockService).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "CreateStore", mock.Anything, mock.Anything)
	})

	t.Run("DeleteGuardIs409WithCounts", func(t *testing.T) {
		mockService := new(MockStoreService)
		mockService.On("DeleteStore", mock.Anything, int64(5), false).
			Return(nil, &util.StoreHasDataError{BalanceCount: 12, TransactionCount: 80, TotalBalance: 3400}).Once()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/stores/5", nil)
		storeTestRouter(mockService).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		var body struct {
			Hint    string                 `json:"hint"`
			Details map[string]interface{} `json:"details"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body.Hint, "forceDelete")
		assert.Equal(t, float64(80), body.Details["transaction_count"])
		mockService.AssertExpectations(t)
	})

	t.Run("ForceDeleteForwardsFlag", func(t *testing.T) {
		mockService := new(MockStoreService)
		mockService.On("DeleteStore", mock.Anything, int64(5), true).
			Return(&service.StoreDeletion{StoreID: 5, DeletedBalances: 12, DeletedTransactions: 80}, nil).Once()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/stores/5?forceDelete=true", nil)
		storeTestRouter(mockService).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Store deleted")
		mockService.AssertExpectations(t)
	})

	t.Run("UnknownStoreIs404", func(t *testing.T) {
		mockService := new(MockStoreService)
		mockService.On("GetStore", mock.Anything, int64(99)).Return(nil, util.ErrStoreNotFound).Once()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/stores/99", nil)
		storeTestRouter(mockService).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Store not found")
		mockService.AssertExpectations(t)
	})
}
