package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	_ "github.com/ascaixa/treasury-backend/cmd/docs"
	"github.com/ascaixa/treasury-backend/internal/adapters/database/pgsql"
	"github.com/ascaixa/treasury-backend/internal/adapters/kvapi"
	memstore "github.com/ascaixa/treasury-backend/internal/adapters/memory"
	portsrepo "github.com/ascaixa/treasury-backend/internal/core/ports/repositories"
	"github.com/ascaixa/treasury-backend/internal/core/services"
	"github.com/ascaixa/treasury-backend/internal/handlers"
	"github.com/ascaixa/treasury-backend/internal/middleware"
	"github.com/ascaixa/treasury-backend/internal/platform/config"
	"github.com/ascaixa/treasury-backend/internal/utils"
	"github.com/ascaixa/treasury-backend/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Treasury Backend API
// @version 1.0
// @description PIN-gated treasury tracking API for entries, exits and monthly summaries.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store, cleanup, err := buildRecordStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize record store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	serviceContainer := services.NewServiceContainer(store)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting, analytics)
	r.Use(middleware.StructuredLogging(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT value", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(limitermem.NewStore(), rate)))

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()
	r.Use(middleware.Posthog(posthogClient))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting",
		slog.String("port", cfg.Port),
		slog.String("store_backend", cfg.StoreBackend))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildRecordStore selects and initializes the configured record store
// backend. The returned cleanup func releases any held connections.
func buildRecordStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RecordStore, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		logger.Warn("Using in-memory record store, data will not survive restarts")
		return memstore.NewStore(), func() {}, nil

	case config.StoreBackendKV:
		logger.Info("Using remote key-value record store", slog.String("base_url", cfg.KVBaseURL))
		return kvapi.NewClient(cfg.KVBaseURL, cfg.KVAPIKey, cfg.KVTimeout), func() {}, nil

	default:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Database connection pool established.")

		if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
			dbPool.Close()
			return nil, nil, err
		}

		return pgsql.NewPgxRecordStore(dbPool), dbPool.Close, nil
	}
}

// runMigrations applies all pending "up" migrations from the migrations
// directory using a temporary database/sql connection.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	if err := migrationDB.Ping(); err != nil {
		_ = migrationDB.Close()
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// corsConfig builds the CORS policy allowing the configured frontend origin.
func corsConfig(cfg *config.Config) cors.Config {
	return cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
}
