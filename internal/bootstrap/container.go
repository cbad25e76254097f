// Package bootstrap arma repositorios, infraestructura opcional (Redis, cola) y casos de uso
// a partir de la configuración. Lo comparten cmd/api y cmd/worker.
package bootstrap

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/lot-costing-api/internal/application/inventory"
	"github.com/jhoicas/lot-costing-api/internal/infrastructure/cache"
	"github.com/jhoicas/lot-costing-api/internal/infrastructure/lock"
	"github.com/jhoicas/lot-costing-api/internal/infrastructure/memory"
	"github.com/jhoicas/lot-costing-api/internal/infrastructure/pdf"
	"github.com/jhoicas/lot-costing-api/internal/infrastructure/postgres"
	"github.com/jhoicas/lot-costing-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/lot-costing-api/internal/interfaces/http"
	"github.com/jhoicas/lot-costing-api/internal/jobs"
	"github.com/jhoicas/lot-costing-api/pkg/config"
	"github.com/jhoicas/lot-costing-api/pkg/logger"
)

// Container dependencias construidas. Redis y Queue son nil cuando no hay REDIS_ADDR.
type Container struct {
	Costing  httpRouter.CostingDeps
	Handlers *jobs.Handlers
	Queue    *jobs.Client
	Redis    *redis.Client

	closers []func()
}

// Close libera conexiones en orden inverso.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// RedisOpts opciones Asynq con la misma conexión que go-redis.
func RedisOpts(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
}

// Build sin DB configurada usa el store en memoria (modo demo).
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{}

	var (
		repos inventory.Repositories
		tx    inventory.TxRunner
	)
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, pool.Close)
		repos = postgres.NewRepositories(pool)
		tx = postgres.NewTxRunner(pool)
	} else {
		log.Warn().Msg("sin base de datos configurada: se usa el store en memoria")
		store := memory.New()
		repos = memoryRepositories(store)
		tx = store
	}

	var (
		locker    inventory.Locker
		publisher inventory.CostEventPublisher
	)
	if cfg.Redis.Enabled() {
		c.Redis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		c.closers = append(c.closers, func() { _ = c.Redis.Close() })
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis no responde; la caché cae a la base")
		}
		repos.Settings = cache.NewSettingsCache(repos.Settings, c.Redis, cfg.Costing.SettingsTTL, log.Component("settings-cache"))
		locker = lock.NewRedisLocker(c.Redis)

		c.Queue = jobs.NewClient(RedisOpts(cfg.Redis))
		c.closers = append(c.closers, func() { _ = c.Queue.Close() })
		// el worker arma su propio store en memoria: sin base compartida la propagación va en línea
		if cfg.Costing.PropagationAsync && cfg.DB.Enabled() {
			publisher = c.Queue
		}
	}

	opts := inventory.Options{
		PriceFallback:  cfg.Costing.PriceFallback,
		SyncBatchLimit: cfg.Costing.SyncBatchLimit,
		LockTTL:        cfg.Costing.LockTTL,
	}
	resolver := inventory.NewResolverUseCase(repos, opts)
	jobCost := inventory.NewJobCostUseCase(repos, resolver)
	propagation := inventory.NewPropagationUseCase(tx, publisher, locker, opts, log.Component("propagation"))
	sync := inventory.NewSyncUseCase(repos, locker, opts, log.Component("sync"))

	c.Costing = httpRouter.CostingDeps{
		Resolver:    resolver,
		JobCost:     jobCost,
		Lots:        inventory.NewLotBalanceUseCase(repos),
		Ledger:      inventory.NewLedgerUseCase(repos, resolver, jobCost),
		Tiers:       inventory.NewTieringUseCase(repos),
		Propagation: propagation,
		Openings:    inventory.NewOpeningBalanceUseCase(repos.OpeningBalances, propagation),
		Sync:        sync,
		Renderers:   []inventory.LedgerRenderer{pdf.NewLedgerPDF(), xlsx.NewLedgerXLSX()},
	}
	c.Handlers = jobs.NewHandlers(propagation, sync, c.Queue, log.Component("jobs"))
	return c, nil
}

// ErrNoQueue el worker necesita Redis.
var ErrNoQueue = errors.New("REDIS_ADDR requerido para el worker")

func memoryRepositories(s *memory.Store) inventory.Repositories {
	return inventory.Repositories{
		SKUs:            s.SKUs(),
		OpeningBalances: s.OpeningBalances(),
		PurchaseOrders:  s.PurchaseOrders(),
		Manufacturing:   s.Manufacturing(),
		Audits:          s.AuditAdjustments(),
		SaleOrders:      s.SaleOrders(),
		WebOrders:       s.WebOrders(),
		Settings:        s.Settings(),
	}
}
