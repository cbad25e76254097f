package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/jhoicas/lot-costing-api/internal/bootstrap"
	"github.com/jhoicas/lot-costing-api/internal/jobs"
	"github.com/jhoicas/lot-costing-api/pkg/config"
	"github.com/jhoicas/lot-costing-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("worker")

	if !cfg.Redis.Enabled() {
		log.Fatal().Err(bootstrap.ErrNoQueue).Msg("configuración del worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar dependencias")
	}
	defer container.Close()

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   bootstrap.RedisOpts(cfg.Redis),
		Concurrency: cfg.Costing.WorkerConcurrency,
		SyncCron:    cfg.Costing.SyncCron,
		SyncLimit:   cfg.Costing.SyncBatchLimit,
		Handlers:    container.Handlers,
		Logger:      log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar worker")
	}

	log.Info().Str("sync_cron", cfg.Costing.SyncCron).Msg("worker listo")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("worker finalizado con error")
	}
}
