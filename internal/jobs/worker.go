package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/lot-costing-api/pkg/logger"
)

// Worker servidor Asynq más el scheduler opcional.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

// WorkerConfig dependencias del worker. SyncCron vacío desactiva la sincronización programada.
type WorkerConfig struct {
	RedisOpts   asynq.RedisClientOpt
	Concurrency int
	SyncCron    string
	SyncLimit   int
	Handlers    *Handlers
	Logger      *logger.Logger
}

// NewWorker registra los handlers de costeo y, si aplica, la sincronización periódica.
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	log := cfg.Logger
	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues:      map[string]int{QueueDefault: 3, QueueLow: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Error().Err(err).Str("task", task.Type()).Msg("tarea fallida")
		}),
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskPropagateCost, cfg.Handlers.HandlePropagateCost)
	mux.HandleFunc(TaskSyncManufacturing, cfg.Handlers.HandleSyncManufacturing)

	var scheduler *asynq.Scheduler
	if cfg.SyncCron != "" {
		task, err := NewSyncTask(SyncPayload{Limit: cfg.SyncLimit})
		if err != nil {
			return nil, err
		}
		scheduler = asynq.NewScheduler(cfg.RedisOpts, &asynq.SchedulerOpts{Location: time.UTC})
		if _, err := scheduler.Register(cfg.SyncCron, task, asynq.Unique(time.Hour)); err != nil {
			return nil, err
		}
	}
	return &Worker{server: srv, mux: mux, scheduler: scheduler, log: log}, nil
}

// Run procesa tareas hasta que se cancele el contexto.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("worker: no configurado")
	}
	if w.scheduler != nil {
		if err := w.scheduler.Start(); err != nil {
			return err
		}
		defer w.scheduler.Shutdown()
	}
	errCh := make(chan error, 1)
	go func() { errCh <- w.server.Run(w.mux) }()

	w.log.Info().Msg("worker de costeo iniciado")
	select {
	case <-ctx.Done():
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
