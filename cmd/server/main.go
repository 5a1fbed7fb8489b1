package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appsc "github.com/supplynet/backend/internal/application/supplychain"
	"github.com/supplynet/backend/internal/infrastructure/auth"
	"github.com/supplynet/backend/internal/infrastructure/config"
	"github.com/supplynet/backend/internal/infrastructure/logger"
	"github.com/supplynet/backend/internal/infrastructure/persistence"
	"github.com/supplynet/backend/internal/infrastructure/telemetry"
	"github.com/supplynet/backend/internal/interfaces/http/handler"
	"github.com/supplynet/backend/internal/interfaces/http/middleware"
	"github.com/supplynet/backend/internal/interfaces/http/router"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting supply network backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Telemetry providers install themselves globally; disabled ones are no-ops.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.ConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer shutdownTelemetry(log, cfg, tracerProvider, meterProvider)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))

	db, err := persistence.Open(ctx, &cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfigFrom(cfg.Telemetry, cfg.Database.DBName), log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	meter := meterProvider.Meter("supplynet")
	if meterProvider.IsEnabled() {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to access connection pool", zap.Error(err))
		}
		if _, err := telemetry.RegisterDBMetrics(db.DB, sqlDB, meter, telemetry.DBMetricsConfig{
			SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		}, log); err != nil {
			log.Fatal("Failed to register database metrics", zap.Error(err))
		}
	}
	businessMetrics, err := telemetry.NewSupplyChainMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}

	// Revoked tokens live in redis when it is configured.
	checks := map[string]handler.HealthCheck{"database": db.PingContext}
	var revoked auth.RevocationList = auth.NewInMemoryRevocationList()
	if cfg.Redis.Enabled {
		redisClient, err := auth.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis", zap.Error(err))
			}
		}()
		revoked = auth.NewRedisRevocationList(redisClient, cfg.Redis.KeyPrefix)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		log.Warn("Redis disabled, token revocations are kept in memory")
	}
	authenticator := auth.NewAuthenticator(auth.NewTokenVerifier(cfg.JWT), revoked)

	// Initialize repositories
	contactRepo := persistence.NewGormContactRepository(db.DB)
	networkRepo := persistence.NewGormNetworkRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	networkService := appsc.NewNetworkService(txScope, networkRepo, businessMetrics, log)
	contactService := appsc.NewContactService(txScope, contactRepo, log)
	productService := appsc.NewProductService(txScope, productRepo, networkRepo, log)
	adminQueries := appsc.NewAdminQueryService(networkRepo, contactRepo)
	actions := appsc.NewActionRegistry(networkService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	httpMetrics, err := middleware.HTTPMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. BodyLimit - Limit request body size
	// 6. Tracing and metrics
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(httpMetrics)

	router.SetupRoutes(engine, router.Handlers{
		Networks: handler.NewNetworkHandler(networkService),
		Admin: handler.NewAdminHandler(handler.AdminServices{
			Networks: networkService,
			Contacts: contactService,
			Products: productService,
			Queries:  adminQueries,
			Actions:  actions,
		}),
		System: handler.NewSystemHandler(cfg.App.Name, version, checks),
	}, router.AccessConfig{
		Authenticate: middleware.Authenticate(middleware.AuthConfig{Authenticator: authenticator, Logger: log}),
		StaffOnly:    cfg.Admin.RequireStaff,
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// shutdownTelemetry flushes pending spans and metrics.
func shutdownTelemetry(log *zap.Logger, cfg *config.Config, tp *telemetry.TracerProvider, mp *telemetry.MeterProvider) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := tp.Shutdown(ctx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := mp.Shutdown(ctx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
}
