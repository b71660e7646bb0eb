// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"medalbank/internal/api/handler"
	"medalbank/internal/api/middleware"
)

// Handlers bundles the per-resource handlers the router mounts.
type Handlers struct {
	Balance      *handler.BalanceHandler
	Transactions *handler.TransactionHandler
	Batch        *handler.BatchHandler
	Stats        *handler.StatsHandler
	Stores       *handler.StoreHandler
	Auth         *handler.AuthHandler
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(h Handlers, limiter middleware.Limiter, allowedOrigins []string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(handler.DefaultTimeout))
	r.Use(middleware.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter, logger))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/me", h.Auth.Me)
			r.Get("/login-history/{userID}", h.Auth.LoginHistory)
		})

		r.Get("/balance/{userID}", h.Balance.GetBalance)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.Transactions.List)
			r.Post("/", h.Transactions.Create)
		})

		r.Route("/batch", func(r chi.Router) {
			r.Post("/transactions", h.Batch.ApplyBatch)
			r.Post("/bulk-deposit", h.Batch.BulkDeposit)
			r.Post("/bulk-withdraw", h.Batch.BulkWithdraw)
			r.Get("/validate", h.Batch.Validate)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/user/{userID}", h.Stats.UserStats)
			r.Get("/summary/{userID}", h.Stats.Summary)
			r.Get("/trends/{userID}", h.Stats.Trends)
		})

		r.Route("/stores", func(r chi.Router) {
			r.Get("/", h.Stores.List)
			r.Post("/", h.Stores.Create)
			r.Get("/{id}", h.Stores.Get)
			r.Put("/{id}", h.Stores.Update)
			r.Delete("/{id}", h.Stores.Delete)
			r.Get("/{id}/stats", h.Stores.Stats)
		})
	})

	return r
}
