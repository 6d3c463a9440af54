package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/octane-erp/octane-erp/internal/app"
	"github.com/octane-erp/octane-erp/internal/ledger/accounts"
	"github.com/octane-erp/octane-erp/internal/ledger/integration"
	"github.com/octane-erp/octane-erp/internal/ledger/integrity"
	"github.com/octane-erp/octane-erp/internal/ledger/reports"
	"github.com/octane-erp/octane-erp/internal/ledger/settings"
	"github.com/octane-erp/octane-erp/internal/ledger/vouchers"
	"github.com/octane-erp/octane-erp/internal/observability"
	"github.com/octane-erp/octane-erp/internal/platform/cache"
	"github.com/octane-erp/octane-erp/internal/platform/db"
	"github.com/octane-erp/octane-erp/internal/shared"
	"github.com/octane-erp/octane-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pools, err := db.NewRouter(ctx, cfg.PGDSN, cfg.TenantDSNs)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pools.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, report caching disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(pools)

	accountsRepo := accounts.NewRepository(pools)
	accountsService := accounts.NewService(accountsRepo, auditLogger, logger)
	accountsHandler := accounts.NewHandler(logger, accountsService)

	vouchersRepo := vouchers.NewRepository(pools)
	vouchersService := vouchers.NewService(vouchersRepo, auditLogger, logger)
	vouchersHandler := vouchers.NewHandler(logger, vouchersService)

	settingsRepo := settings.NewRepository(pools)

	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL, logger)
	vouchersService.SetReportCache(reportCache)
	reportsRepo := reports.NewRepository(pools)
	reportsService := reports.NewService(logger, reportsRepo, settingsRepo, reportCache)
	reportsHandler := reports.NewHandler(logger, reportsService)

	adapter := integration.NewAdapter(vouchersService, accountsService, settingsRepo, logger)
	integrationHandler := integration.NewHandler(logger, adapter)

	integrityRepo := integrity.NewRepository(pools)
	integrityService := integrity.NewService(logger, integrityRepo)
	integrityHandler := integrity.NewHandler(logger, integrityService)

	metrics := observability.NewMetrics()
	vouchersHandler.SetPostCounter(metrics)
	adapter.SetPostCounter(metrics)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("connect job queue", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		AccountsHandler:    accountsHandler,
		VouchersHandler:    vouchersHandler,
		ReportsHandler:     reportsHandler,
		IntegrationHandler: integrationHandler,
		IntegrityHandler:   integrityHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		logger.Error("http server", slog.Any("error", err))
		os.Exit(1)
	}
}
