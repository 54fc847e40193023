// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/davalosm/papeleria-pos/internal/adapters/memstore"
	redis_a "github.com/davalosm/papeleria-pos/internal/adapters/redis_adapter"
	"github.com/davalosm/papeleria-pos/internal/core/domain"
	"github.com/davalosm/papeleria-pos/internal/core/ports"
	"github.com/davalosm/papeleria-pos/internal/core/services"
	"github.com/davalosm/papeleria-pos/internal/handlers"
	"github.com/davalosm/papeleria-pos/internal/handlers/middleware"
	"github.com/davalosm/papeleria-pos/internal/pkg/config"
	"github.com/davalosm/papeleria-pos/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting papeleria point of sale",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
	)

	slogger.Info("loading configuration")
	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	store            *memstore.Store
	redisClient      *redis.Client
	reportCache      ports.CacheRepository
	saleService      *services.SaleService
	inventoryService *services.InventoryService
	branchService    *services.BranchService
	reportService    *services.ReportService
	authHandler      *handlers.AuthHandler
	branchHandler    *handlers.BranchHandler
	inventoryHandler *handlers.InventoryHandler
	salesHandler     *handlers.SalesHandler
	reportHandler    *handlers.ReportHandler
	healthHandler    *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.redisClient != nil {
		d.redisClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	// Initialize the in-memory store
	store := memstore.New(logger)
	if cfg.Seed.LoadDemoData {
		logger.Info("loading demo dataset")
		if err := store.LoadDemoData(cfg.Security.BcryptCost); err != nil {
			return nil, fmt.Errorf("failed to load demo data: %w", err)
		}
	}
	deps.store = store

	// Initialize the optional Redis report cache
	if cfg.Redis.Enabled {
		logger.Info("connecting to Redis",
			slog.String("host", cfg.Redis.Host),
			slog.String("port", cfg.Redis.Port),
		)

		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddress(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		deps.redisClient = redisClient
		deps.reportCache = redis_a.NewCache(redisClient, cfg.Redis.TTL, logger)
	}

	// Initialize services
	branchService, err := services.NewBranchService(
		store.Branches(),
		cfg.Security.AdminUsername,
		cfg.Security.AdminPassword,
		cfg.Security.BcryptCost,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize branch service: %w", err)
	}
	deps.branchService = branchService
	deps.saleService = services.NewSaleService(store.Sales(), store.Inventory(), store.Branches(), logger)
	deps.inventoryService = services.NewInventoryService(store.Inventory(), logger)
	deps.reportService = services.NewReportService(store.Sales(), logger)

	// Initialize handlers
	deps.authHandler = handlers.NewAuthHandler(
		branchService,
		cfg.Security.JWTSecret,
		cfg.Security.JWTExpiration,
		cfg.Security.SessionCookie,
		logger,
	)
	deps.branchHandler = handlers.NewBranchHandler(branchService, logger)
	deps.inventoryHandler = handlers.NewInventoryHandler(deps.inventoryService, logger)
	deps.salesHandler = handlers.NewSalesHandler(deps.saleService, deps.reportCache, logger)
	deps.reportHandler = handlers.NewReportHandler(deps.reportService, deps.reportCache, cfg.Redis.TTL, logger)
	deps.healthHandler = handlers.NewHealthHandler(store, deps.reportCache, cfg.App.Version, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	// Apply middleware in reverse order (innermost first)
	var handler http.Handler = mux

	if cfg.App.Environment != "test" {
		handler = middleware.Logger(logger)(handler)
		handler = middleware.Recovery(logger)(handler)
		handler = middleware.RequestID(handler)
	}

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	registerRoutes(mux, deps, cfg)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config) {
	apiV1 := "/api/v1"

	session := middleware.Session(cfg.Security.JWTSecret, cfg.Security.SessionCookie)
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return session(middleware.RequireRole(domain.RoleAdmin)(h))
	}
	authenticated := func(h http.HandlerFunc) http.Handler {
		return session(h)
	}

	// Health and readiness endpoints
	if cfg.Server.EnableHealthCheck {
		mux.HandleFunc("GET /health", deps.healthHandler.Health)
		mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
		mux.HandleFunc("GET "+apiV1+"/health", deps.healthHandler.Health)
	}

	// Auth endpoints
	mux.HandleFunc("POST "+apiV1+"/auth/login", deps.authHandler.Login)
	mux.Handle("GET "+apiV1+"/auth/session", authenticated(deps.authHandler.Session))

	// Branch directory; mutations are restricted to the superuser
	mux.Handle("GET "+apiV1+"/branches", authenticated(deps.branchHandler.ListBranches))
	mux.Handle("POST "+apiV1+"/branches", adminOnly(deps.branchHandler.CreateBranch))
	mux.Handle("PUT "+apiV1+"/branches/{id}", adminOnly(deps.branchHandler.UpdateBranch))

	// Inventory endpoints
	mux.Handle("GET "+apiV1+"/inventory", authenticated(deps.inventoryHandler.ListInventory))
	mux.Handle("POST "+apiV1+"/inventory", authenticated(deps.inventoryHandler.CreateProduct))
	mux.Handle("POST "+apiV1+"/inventory/{id}/restock", authenticated(deps.inventoryHandler.Restock))

	// Sales endpoints
	mux.Handle("POST "+apiV1+"/sales", authenticated(deps.salesHandler.RecordSale))
	mux.Handle("GET "+apiV1+"/sales", authenticated(deps.salesHandler.ListSales))

	// Report endpoints
	mux.Handle("GET "+apiV1+"/reports/summary", authenticated(deps.reportHandler.Summary))
	mux.Handle("GET "+apiV1+"/reports/export/excel", authenticated(deps.reportHandler.ExportExcel))
}
