package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/lot-costing-api/internal/application/dto"
	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	domaininv "github.com/jhoicas/lot-costing-api/internal/domain/inventory"
	"github.com/jhoicas/lot-costing-api/internal/domain/repository"
	"github.com/jhoicas/lot-costing-api/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// SyncUseCase recalcula en lote el costo de las órdenes de manufactura.
// Resuelve ingredientes con el índice Saldo inicial → Compra → Auditoría (sin recursión en
// manufactura) e ignora los overrides de línea, de modo que una segunda corrida no escribe nada.
type SyncUseCase struct {
	repos         Repositories
	locker        Locker
	priceFallback bool
	batchLimit    int
	opts          Options
	log           *logger.Logger
}

// NewSyncUseCase construye el caso de uso. locker puede ser nil.
func NewSyncUseCase(repos Repositories, locker Locker, opts Options, log *logger.Logger) *SyncUseCase {
	opts = opts.withDefaults()
	return &SyncUseCase{
		repos:         repos,
		locker:        locker,
		priceFallback: opts.PriceFallback,
		batchLimit:    opts.SyncBatchLimit,
		opts:          opts,
		log:           log,
	}
}

// SyncManufacturingCostsBatch procesa una página de órdenes. Con error de escritura el resultado
// sigue siendo válido: Requested != Updated y el error agrega los fallos.
func (uc *SyncUseCase) SyncManufacturingCostsBatch(ctx context.Context, req dto.SyncRequest) (*dto.SyncResult, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = uc.batchLimit
	}
	if uc.locker != nil {
		lock, err := uc.locker.Obtain(ctx, SyncLockKey, uc.opts.LockTTL)
		if err != nil {
			return nil, err
		}
		defer func() { _ = lock.Release(context.WithoutCancel(ctx)) }()
	}

	jobs, err := uc.repos.Manufacturing.ListBatch(ctx, req.Skip, limit, req.OrderIDs)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	result := &dto.SyncResult{
		BatchSize: len(jobs),
		Breakdown: make(map[string]int),
		NextSkip:  req.Skip + len(jobs),
		HasMore:   len(req.OrderIDs) == 0 && len(jobs) == limit,
	}
	if len(jobs) == 0 {
		return result, nil
	}

	pairs := domaininv.IngredientLots(jobs)
	ix, categories, err := uc.index(ctx, pairs)
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		result.Breakdown[string(ix.Lookup(p.Key()).Tier)]++
	}

	in := domaininv.CostInputs{
		UnitCost:        ix.UnitCost,
		Category:        func(id string) string { return categories[id] },
		IgnoreOverrides: true,
	}
	pending := make([]entity.ManufacturingJob, 0)
	for i := range jobs {
		job := &jobs[i]
		b := domaininv.ComputeJobCost(job, in)
		result.LineItemsTouched += len(b.Lines)
		if b.TotalCost.IsPositive() {
			result.JobsWithCost++
		}
		if !domaininv.NeedsUpdate(job, b) {
			continue
		}
		domaininv.ApplyBreakdown(job, b)
		pending = append(pending, *job)
	}

	result.Requested = len(pending)
	if len(pending) > 0 {
		result.Updated, err = uc.repos.Manufacturing.UpdateCosts(ctx, pending)
	}

	ev := uc.log.Info()
	if err != nil {
		ev = uc.log.Error().Err(err)
	}
	ev.Int("skip", req.Skip).
		Int("batch_size", result.BatchSize).
		Int("requested", result.Requested).
		Int("updated", result.Updated).
		Msg("sincronización de costos de manufactura")
	return result, err
}

// index resuelve en bloque los lotes de ingredientes y las categorías de sus SKUs.
func (uc *SyncUseCase) index(ctx context.Context, pairs []domaininv.LotPair) (domaininv.CostIndex, map[string]string, error) {
	lots := make([]repository.LotRef, 0, len(pairs))
	skuIDs := make([]string, 0, len(pairs))
	for _, p := range pairs {
		lots = append(lots, repository.LotRef{SKU: p.SKU, LotNumber: p.LotNumber})
		skuIDs = append(skuIDs, p.SKU)
	}

	var (
		openings []entity.OpeningBalance
		orders   []entity.PurchaseOrder
		audits   []entity.AuditAdjustment
		skus     []entity.SKU
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		openings, err = uc.repos.OpeningBalances.ListByLots(gctx, lots)
		return wrap("opening balances", err)
	})
	g.Go(func() (err error) {
		orders, err = uc.repos.PurchaseOrders.ListByLots(gctx, lots)
		return wrap("purchase orders", err)
	})
	g.Go(func() (err error) {
		audits, err = uc.repos.Audits.ListByLots(gctx, lots)
		return wrap("audits", err)
	})
	g.Go(func() (err error) {
		skus, err = uc.repos.SKUs.ListByIDs(gctx, distinct(skuIDs))
		return wrap("skus", err)
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	categories := make(map[string]string, len(skus))
	for _, s := range skus {
		categories[s.ID] = s.Category
	}
	return domaininv.BuildCostIndex(openings, orders, audits, uc.priceFallback), categories, nil
}
