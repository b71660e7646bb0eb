// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	router "medalbank/internal/api"
	"medalbank/internal/api/handler"
	"medalbank/internal/api/middleware"
	"medalbank/internal/config"
	"medalbank/internal/repository"
	"medalbank/internal/repository/postgres"
	"medalbank/internal/service"
	"medalbank/internal/util"
	"medalbank/pkg/db"
)

// limiterEvictionInterval controls how often the in-memory rate limiter
// sweeps expired client windows.
const limiterEvictionInterval = 5 * time.Minute

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	// Repositories
	UserRepository         repository.UserRepository
	BalanceRepository      repository.BalanceRepository
	TransactionRepository  repository.TransactionRepository
	StoreRepository        repository.StoreRepository
	LoginHistoryRepository repository.LoginHistoryRepository

	// Services
	BalanceService service.BalanceService
	BatchService   service.BatchService
	StatsService   service.StatsService
	StoreService   service.StoreService
	AuthService    service.AuthService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()

	// 2. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	if err := db.EnsureSchema(ctx, app.DB); err != nil {
		return fmt.Errorf("failed to ensure database schema: %w", err)
	}
	app.Logger.Info("Database connection established.")

	// 4. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository(app.DB)
	app.BalanceRepository = postgres.NewBalanceRepository(app.DB)
	app.TransactionRepository = postgres.NewTransactionRepository(app.DB)
	app.StoreRepository = postgres.NewStoreRepository(app.DB)
	app.LoginHistoryRepository = postgres.NewLoginHistoryRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions from pkg/db
	app.BalanceService = service.NewBalanceService(
		app.DB,
		app.DB,
		app.UserRepository,
		app.BalanceRepository,
		app.TransactionRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.BatchService = service.NewBatchService(
		app.DB,
		app.DB,
		app.UserRepository,
		app.BalanceRepository,
		app.TransactionRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.StatsService = service.NewStatsService(app.DB, app.UserRepository, app.TransactionRepository)
	app.StoreService = service.NewStoreService(
		app.DB,
		app.DB,
		app.StoreRepository,
		app.BalanceRepository,
		app.TransactionRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.AuthService = service.NewAuthService(
		app.DB,
		app.UserRepository,
		app.LoginHistoryRepository,
		app.tokenProvider(),
	)
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	dev := app.Config.Development()
	handlers := router.Handlers{
		Balance:      handler.NewBalanceHandler(app.BalanceService, app.Logger, dev),
		Transactions: handler.NewTransactionHandler(app.BalanceService, app.StatsService, app.Logger, dev),
		Batch:        handler.NewBatchHandler(app.BatchService, app.Logger, dev),
		Stats:        handler.NewStatsHandler(app.StatsService, app.Logger, dev),
		Stores:       handler.NewStoreHandler(app.StoreService, app.Logger, dev),
		Auth:         handler.NewAuthHandler(app.AuthService, app.Logger, dev),
	}
	app.HTTPHandler = router.NewRouter(handlers, app.limiter(ctx), app.Config.AllowedOrigins, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// tokenProvider selects the token scheme from configuration.
func (app *Application) tokenProvider() service.TokenProvider {
	if app.Config.Auth.Provider == "jwt" {
		app.Logger.Info("Using JWT token provider.")
		return service.NewJWTTokenProvider(app.Config.Auth.JWTSecret)
	}
	app.Logger.Info("Using stub token provider.")
	return service.NewStubTokenProvider()
}

// limiter builds the rate limiter: Redis-backed when an address is
// configured, in-process otherwise.
func (app *Application) limiter(ctx context.Context) middleware.Limiter {
	limit := app.Config.RateLimit.RequestsPerMinute
	if app.Config.Redis.Addr != "" {
		app.Redis = redis.NewClient(&redis.Options{
			Addr:     app.Config.Redis.Addr,
			Password: app.Config.Redis.Password,
			DB:       app.Config.Redis.DB,
		})
		app.Logger.Info("Using Redis rate limiter.", "addr", app.Config.Redis.Addr)
		return middleware.NewRedisLimiter(app.Redis, limit, time.Minute)
	}
	memLimiter := middleware.NewMemoryLimiter(limit, time.Minute)
	memLimiter.StartEviction(ctx, limiterEvictionInterval)
	app.Logger.Info("Using in-memory rate limiter.")
	return memLimiter
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Failed to close Redis connection", "error", err)
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
