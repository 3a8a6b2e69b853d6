package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/poledger/po_settlement_app/internal/adapters/quotes"
	portssvc "github.com/poledger/po_settlement_app/internal/core/ports/services"
	"github.com/poledger/po_settlement_app/internal/core/services"
	"github.com/poledger/po_settlement_app/internal/handlers"
	"github.com/poledger/po_settlement_app/internal/middleware"
	"github.com/poledger/po_settlement_app/internal/platform/config"
	"github.com/poledger/po_settlement_app/internal/repositories/database/pgsql"
	"github.com/poledger/po_settlement_app/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title PO Settlement API
// @version 1.0
// @description Purchase order revision and multi-currency settlement service.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(memory.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire repositories and services
	repos := pgsql.NewRepositoryProvider(dbPool)
	quoteProvider := quotes.NewHTTPProvider(cfg.QuoteProviderURL, cfg.QuoteProviderTimeout)
	serviceContainer := services.NewServiceContainer(repos, quoteProvider, services.ContainerConfig{
		BaseCurrencyCode:  cfg.BaseCurrencyCode,
		TrackedCurrencies: cfg.TrackedCurrencies,
	})

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	if cfg.RateImportInterval > 0 {
		go runRateImporter(context.Background(), logger, serviceContainer.RateImport, cfg.RateImportInterval)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies pending schema migrations over a temporary
// database/sql connection using the pgx stdlib driver.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// runRateImporter runs one import immediately and then every interval. Import
// failures are logged and retried on the next tick; the server keeps serving
// with whatever rates are already stored.
func runRateImporter(ctx context.Context, logger *slog.Logger, importSvc portssvc.RateImportSvc, interval time.Duration) {
	importOnce := func() {
		importCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		count, err := importSvc.ImportLatestRates(importCtx)
		if err != nil {
			logger.Error("Scheduled rate import failed", slog.String("error", err.Error()))
			return
		}
		logger.Info("Scheduled rate import completed", slog.Int("imported", count))
	}

	importOnce()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			importOnce()
		}
	}
}
