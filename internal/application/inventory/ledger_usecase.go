package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/lot-costing-api/internal/application/dto"
	"github.com/jhoicas/lot-costing-api/internal/domain"
	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	domaininv "github.com/jhoicas/lot-costing-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// LedgerUseCase arma el kardex de un SKU con todas las fuentes de movimiento.
type LedgerUseCase struct {
	repos    Repositories
	resolver *ResolverUseCase
	jobCost  *JobCostUseCase
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(repos Repositories, resolver *ResolverUseCase, jobCost *JobCostUseCase) *LedgerUseCase {
	return &LedgerUseCase{repos: repos, resolver: resolver, jobCost: jobCost}
}

// BuildSkuLedger devuelve las transacciones del SKU ordenadas con saldo acumulado.
// startDate se combina con el ajuste global; gana la fecha más reciente.
func (uc *LedgerUseCase) BuildSkuLedger(ctx context.Context, skuID string, startDate *time.Time) (*dto.LedgerResult, error) {
	sku, err := uc.repos.SKUs.GetByID(ctx, skuID)
	if err != nil {
		return nil, fmt.Errorf("get sku: %w", err)
	}
	if sku == nil {
		return nil, domain.ErrSKUNotFound
	}
	matcher := domaininv.MatcherFor(sku, skuID)

	since, err := effectiveSince(ctx, uc.repos, startDate)
	if err != nil {
		return nil, err
	}
	src, err := fetchSources(ctx, uc.repos, []string{sku.ID}, webRefs(matcher), since)
	if err != nil {
		return nil, err
	}

	produced, err := uc.producedCosts(ctx, sku.ID, src.Jobs)
	if err != nil {
		return nil, err
	}
	consumed, err := uc.consumedCosts(ctx, sku.ID, src.Jobs)
	if err != nil {
		return nil, err
	}

	txs := domaininv.BuildLedger(matcher, sku.UOM, src, since, domaininv.LedgerCosts{
		Produced: func(job *entity.ManufacturingJob) decimal.Decimal { return produced[job.ID] },
		Consumed: func(_, lot string) decimal.Decimal { return consumed[lot] },
	})
	return &dto.LedgerResult{Transactions: txs, SKU: *sku, Since: since}, nil
}

// producedCosts costo unitario de cada orden que produce el SKU.
func (uc *LedgerUseCase) producedCosts(ctx context.Context, skuID string, jobs []entity.ManufacturingJob) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for i := range jobs {
		job := &jobs[i]
		if !job.SKU.Matches(skuID) {
			continue
		}
		cost, err := uc.jobCost.UnitCost(ctx, job)
		if err != nil {
			return nil, fmt.Errorf("cost job %s: %w", job.ID, err)
		}
		out[job.ID] = cost
	}
	return out, nil
}

// consumedCosts resuelve una sola vez cada lote del SKU consumido en manufactura.
func (uc *LedgerUseCase) consumedCosts(ctx context.Context, skuID string, jobs []entity.ManufacturingJob) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for i := range jobs {
		for _, ev := range jobs[i].AsConsumptionEvents(skuID) {
			lot := ev.Line.LotNumber
			if _, ok := out[lot]; ok {
				continue
			}
			cost, err := uc.resolver.ResolveLotCost(ctx, skuID, lot)
			if err != nil {
				return nil, err
			}
			out[lot] = cost
		}
	}
	return out, nil
}
