package inventory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/lot-costing-api/internal/application/dto"
	"github.com/jhoicas/lot-costing-api/internal/domain"
	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	domaininv "github.com/jhoicas/lot-costing-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// resolveConcurrency máximo de resoluciones de ingredientes en vuelo por orden.
const resolveConcurrency = 8

// JobCostUseCase calcula el costo de una orden de manufactura a partir de sus ingredientes y mano de obra.
type JobCostUseCase struct {
	repos    Repositories
	resolver *ResolverUseCase
}

// NewJobCostUseCase construye el caso de uso.
func NewJobCostUseCase(repos Repositories, resolver *ResolverUseCase) *JobCostUseCase {
	return &JobCostUseCase{repos: repos, resolver: resolver}
}

// ComputeJobCost costea la orden. Los ingredientes sin override se resuelven por lote.
func (uc *JobCostUseCase) ComputeJobCost(ctx context.Context, job *entity.ManufacturingJob) (domaininv.CostBreakdown, error) {
	categories, err := uc.categories(ctx, job)
	if err != nil {
		return domaininv.CostBreakdown{}, err
	}
	costs, err := uc.ingredientCosts(ctx, job)
	if err != nil {
		return domaininv.CostBreakdown{}, err
	}
	return domaininv.ComputeJobCost(job, domaininv.CostInputs{
		UnitCost: func(skuID, lot string) decimal.Decimal { return costs[domaininv.NewLotKey(skuID, lot)] },
		Category: func(skuID string) string { return categories[skuID] },
	}), nil
}

// ComputeJobCostByID carga la orden y devuelve su desglose.
func (uc *JobCostUseCase) ComputeJobCostByID(ctx context.Context, jobID string) (*dto.JobCostResponse, error) {
	job, err := uc.repos.Manufacturing.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job == nil {
		return nil, domain.ErrJobNotFound
	}
	b, err := uc.ComputeJobCost(ctx, job)
	if err != nil {
		return nil, err
	}
	return toJobCostResponse(job, b), nil
}

// UnitCost costo unitario de la orden: el persistido si existe, si no el recalculado.
func (uc *JobCostUseCase) UnitCost(ctx context.Context, job *entity.ManufacturingJob) (decimal.Decimal, error) {
	if job.HasKnownCost() {
		return domaininv.PerUnit(job.TotalCost, job.Qty), nil
	}
	b, err := uc.ComputeJobCost(ctx, job)
	if err != nil {
		return decimal.Zero, err
	}
	return b.PerUnitCost, nil
}

// categories usa el SKU poblado en la línea cuando viene, y consulta el catálogo para el resto.
func (uc *JobCostUseCase) categories(ctx context.Context, job *entity.ManufacturingJob) (map[string]string, error) {
	out := make(map[string]string, len(job.LineItems))
	missing := make([]string, 0)
	for _, line := range job.LineItems {
		id := line.SKU.ID()
		if _, ok := out[id]; ok || id == "" {
			continue
		}
		if sku, ok := line.SKU.Populated(); ok {
			out[id] = sku.Category
			continue
		}
		out[id] = ""
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}
	skus, err := uc.repos.SKUs.ListByIDs(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("list skus: %w", err)
	}
	for _, s := range skus {
		out[s.ID] = s.Category
	}
	return out, nil
}

func (uc *JobCostUseCase) ingredientCosts(ctx context.Context, job *entity.ManufacturingJob) (map[domaininv.LotKey]decimal.Decimal, error) {
	var mu sync.Mutex
	out := make(map[domaininv.LotKey]decimal.Decimal)
	seen := make(map[domaininv.LotKey]struct{})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)
	for _, line := range job.LineItems {
		if line.Cost != nil {
			continue
		}
		skuID, lot := line.SKU.ID(), line.LotNumber
		key := domaininv.NewLotKey(skuID, lot)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		g.Go(func() error {
			cost, err := uc.resolver.ResolveLotCost(gctx, skuID, lot)
			if err != nil {
				return err
			}
			mu.Lock()
			out[key] = cost
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func toJobCostResponse(job *entity.ManufacturingJob, b domaininv.CostBreakdown) *dto.JobCostResponse {
	lines := make([]dto.JobCostLineDTO, 0, len(b.Lines))
	for _, lc := range b.Lines {
		lines = append(lines, dto.JobCostLineDTO{
			SKU:       lc.SKU,
			LotNumber: lc.LotNumber,
			Quantity:  lc.Quantity,
			UnitCost:  lc.UnitCost,
			Total:     lc.Total,
			Packaging: lc.Packaging,
			Override:  lc.Override,
		})
	}
	return &dto.JobCostResponse{
		JobID:         job.ID,
		Reference:     job.Reference(),
		Qty:           job.Qty,
		MaterialCost:  b.MaterialCost,
		PackagingCost: b.PackagingCost,
		LaborCost:     b.LaborCost,
		TotalCost:     b.TotalCost,
		PerUnitCost:   b.PerUnitCost,
		Lines:         lines,
	}
}
