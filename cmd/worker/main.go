package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/octane-erp/octane-erp/internal/app"
	jobmetrics "github.com/octane-erp/octane-erp/internal/jobs"
	"github.com/octane-erp/octane-erp/internal/ledger/integrity"
	"github.com/octane-erp/octane-erp/internal/platform/db"
	"github.com/octane-erp/octane-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	metrics := jobmetrics.NewMetrics(nil)
	integrityRepo := integrity.NewRepository(pools)
	integrityService := integrity.NewService(logger, integrityRepo)
	sweeper := jobs.NewIntegritySweeper(logger, integrityService, metrics)

	// One scheduled sweep per ledger store, default store included.
	tenants := append([]string{""}, pools.Tenants()...)
	cron := make([]jobs.CronRegistration, 0, len(tenants))
	for _, tenant := range tenants {
		task, err := jobs.NewIntegritySweepTask(jobs.IntegritySweepPayload{Tenant: tenant})
		if err != nil {
			logger.Error("build sweep task", slog.Any("error", err))
			os.Exit(1)
		}
		cron = append(cron, jobs.CronRegistration{
			Spec:    cfg.IntegritySweepCron,
			Task:    task,
			Options: []asynq.Option{asynq.MaxRetry(3)},
		})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskIntegritySweep, Handler: sweeper.Handle},
		},
		Cron: cron,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
