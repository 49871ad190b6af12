package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"laundryops/internal/caching"
	"laundryops/internal/config"
	_ "laundryops/internal/docs"
	"laundryops/internal/handlers"
	"laundryops/internal/jobs"
	"laundryops/internal/jobs/background"
	"laundryops/internal/middleware"
	"laundryops/internal/repositories"
	"laundryops/internal/services"
	"laundryops/pkg/database"
	"laundryops/pkg/logger"
	"laundryops/pkg/metrics"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// @title Laundry Inventory API
// @version 1.0
// @description Consumable stock tracking with an append-only adjustment ledger.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "laundry-inventory: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logg := logger.New(logger.Options{
		ServiceName: "laundry-inventory",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := database.MigratePostgres(ctx, pool, logg); err != nil {
			return err
		}
	}

	optional := map[string]handlers.Pinger{}

	cacheSvc := caching.NewNoopCacheService()
	if cfg.Redis.Enabled() {
		cacheSvc, err = caching.NewRedisCacheService(cfg.Redis)
		if err != nil {
			// The cache only speeds up reads.
			logg.Error(ctx, "redis unavailable, item cache disabled", err)
			cacheSvc = caching.NewNoopCacheService()
		} else {
			optional["cache"] = cacheSvc
		}
	}
	defer cacheSvc.Close()

	var store services.ObjectStore
	if cfg.Storage.Enabled() {
		store, err = services.NewMinioStore(cfg.Storage)
		if err != nil {
			return fmt.Errorf("object storage: %w", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	inventoryMetrics := metrics.NewInventoryMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	jobMetrics := metrics.NewJobMetrics(registry)

	inventoryRepo := repositories.NewInventoryRepo(pool)
	inventoryService := services.NewInventoryService(inventoryRepo, cacheSvc, inventoryMetrics, logg)
	exportService := services.NewExportService(inventoryRepo, store, logg)

	var scheduler *background.JobScheduler
	if cfg.Jobs.Enabled {
		alerts := jobs.NewInventoryAlertService(inventoryService, cacheSvc, cfg.Jobs.AlertCooldown, logg)
		var snapshots services.ExportService
		if store != nil {
			snapshots = exportService
		}
		scheduler, err = background.NewJobScheduler(cfg.Jobs, alerts, snapshots, jobMetrics, logg)
		if err != nil {
			return err
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewRequestValidator()
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(middleware.RequestContext(logg))
	e.Use(middleware.AuditRequests(logg, httpMetrics))

	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	healthHandlers := handlers.NewHealthHandlers(handlers.PingFunc(pool.Ping), optional)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/api", versionMiddleware.Versions)

	v1 := e.Group("/api/v1")
	v1.Use(versionMiddleware.VersionHeader("v1"))

	if cfg.Auth.Enabled() {
		auth, err := middleware.NewAuthenticator(cfg.Auth, logg)
		if err != nil {
			return err
		}
		defer auth.Close()
		v1.Use(auth.Middleware())
	} else {
		logg.Warn(ctx, "no JWT secret or JWKS URL configured, API is unauthenticated")
	}

	handlers.NewInventoryHandlers(inventoryService, exportService).Register(v1)
	if scheduler != nil {
		handlers.NewJobHandlers(scheduler).Register(v1)
		scheduler.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		logg.Info(logg.WithField(ctx, "addr", addr), "inventory API listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	logg.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if scheduler != nil {
		if err := scheduler.Stop(); err != nil {
			logg.Error(shutdownCtx, "stopping scheduler", err)
		}
	}
	return e.Shutdown(shutdownCtx)
}
