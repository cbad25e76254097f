package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/lot-costing-api/internal/application/dto"
	"github.com/jhoicas/lot-costing-api/internal/domain"
	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	domaininv "github.com/jhoicas/lot-costing-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

var _ domaininv.LotCostSource = (*ResolverUseCase)(nil)

// ResolverUseCase resuelve el costo unitario de un lote consultando cada fuente en orden.
// No guarda nada entre peticiones.
type ResolverUseCase struct {
	repos         Repositories
	priceFallback bool
}

// NewResolverUseCase construye el resolvedor.
func NewResolverUseCase(repos Repositories, opts Options) *ResolverUseCase {
	return &ResolverUseCase{repos: repos, priceFallback: opts.PriceFallback}
}

// ResolveLotCost costo unitario de (sku, lote); 0 si ninguna fuente lo conoce.
func (uc *ResolverUseCase) ResolveLotCost(ctx context.Context, skuID, lot string) (decimal.Decimal, error) {
	res, err := uc.Resolve(ctx, skuID, lot)
	if err != nil {
		return decimal.Zero, err
	}
	return res.Cost, nil
}

// Resolve igual que ResolveLotCost pero informa la fuente.
func (uc *ResolverUseCase) Resolve(ctx context.Context, skuID, lot string) (domaininv.Resolution, error) {
	return domaininv.NewResolver(uc).Resolve(ctx, skuID, lot)
}

// LotCost respuesta HTTP de la resolución.
func (uc *ResolverUseCase) LotCost(ctx context.Context, skuID, lot string) (*dto.LotCostResponse, error) {
	if skuID == "" || lot == "" {
		return nil, domain.ErrInvalidInput
	}
	res, err := uc.Resolve(ctx, skuID, lot)
	if err != nil {
		return nil, err
	}
	return &dto.LotCostResponse{SKU: skuID, LotNumber: lot, Cost: res.Cost, Source: string(res.Tier)}, nil
}

func (uc *ResolverUseCase) OpeningBalanceCost(ctx context.Context, skuID, lot string) (decimal.Decimal, bool, error) {
	ob, err := uc.repos.OpeningBalances.FindByLot(ctx, skuID, lot)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("opening balance %s:%s: %w", skuID, lot, err)
	}
	if ob == nil {
		return decimal.Zero, false, nil
	}
	return ob.Cost, true, nil
}

func (uc *ResolverUseCase) PurchaseOrderCost(ctx context.Context, skuID, lot string) (decimal.Decimal, bool, error) {
	line, err := uc.repos.PurchaseOrders.FindLineByLot(ctx, skuID, lot)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("purchase order %s:%s: %w", skuID, lot, err)
	}
	if line == nil {
		return decimal.Zero, false, nil
	}
	return domaininv.PurchaseLineCost(*line, uc.priceFallback), true, nil
}

func (uc *ResolverUseCase) ProducingJob(ctx context.Context, skuID, lot string) (*entity.ManufacturingJob, error) {
	job, err := uc.repos.Manufacturing.FindByOutputLot(ctx, skuID, lot)
	if err != nil {
		return nil, fmt.Errorf("manufacturing %s:%s: %w", skuID, lot, err)
	}
	return job, nil
}

func (uc *ResolverUseCase) AuditCost(ctx context.Context, skuID, lot string) (decimal.Decimal, bool, error) {
	adj, err := uc.repos.Audits.FindByLot(ctx, skuID, lot)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("audit %s:%s: %w", skuID, lot, err)
	}
	if adj == nil {
		return decimal.Zero, false, nil
	}
	return adj.Cost, true, nil
}
