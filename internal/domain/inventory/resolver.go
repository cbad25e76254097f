package inventory

import (
	"context"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LotCostSource acceso puntual por (sku, lote) a cada fuente de costo.
// found=false significa que la fuente no tiene registro para ese lote.
type LotCostSource interface {
	OpeningBalanceCost(ctx context.Context, skuID, lot string) (cost decimal.Decimal, found bool, err error)
	PurchaseOrderCost(ctx context.Context, skuID, lot string) (cost decimal.Decimal, found bool, err error)
	ProducingJob(ctx context.Context, skuID, lot string) (*entity.ManufacturingJob, error)
	AuditCost(ctx context.Context, skuID, lot string) (cost decimal.Decimal, found bool, err error)
}

// Resolver resuelve el costo unitario de un lote con la prioridad
// Saldo inicial → Compra → Manufactura → Auditoría → 0. Cada fuente solo se consulta
// si las anteriores no tienen registro.
type Resolver struct {
	src LotCostSource
}

// NewResolver construye el resolvedor sobre la fuente dada.
func NewResolver(src LotCostSource) *Resolver {
	return &Resolver{src: src}
}

// Resolve devuelve el costo y la fuente que lo aportó. Un lote sin registro no es error.
func (r *Resolver) Resolve(ctx context.Context, skuID, lot string) (Resolution, error) {
	return r.resolve(ctx, skuID, lot, make(map[LotKey]struct{}))
}

func (r *Resolver) resolve(ctx context.Context, skuID, lot string, visiting map[LotKey]struct{}) (Resolution, error) {
	if skuID == "" || lot == "" {
		return Unresolved(), nil
	}
	key := NewLotKey(skuID, lot)
	if _, ok := visiting[key]; ok {
		// ciclo en la receta: el lote se consume a sí mismo
		return Unresolved(), nil
	}
	visiting[key] = struct{}{}
	defer delete(visiting, key)

	if cost, ok, err := r.src.OpeningBalanceCost(ctx, skuID, lot); err != nil || ok {
		return Resolution{Cost: cost, Tier: TierOpeningBalance}, err
	}
	if cost, ok, err := r.src.PurchaseOrderCost(ctx, skuID, lot); err != nil || ok {
		return Resolution{Cost: cost, Tier: TierPurchaseOrder}, err
	}

	job, err := r.src.ProducingJob(ctx, skuID, lot)
	if err != nil {
		return Unresolved(), err
	}
	if job != nil {
		cost, err := r.jobUnitCost(ctx, job, visiting)
		if err != nil {
			return Unresolved(), err
		}
		return Resolution{Cost: cost, Tier: TierManufacturing}, nil
	}

	if cost, ok, err := r.src.AuditCost(ctx, skuID, lot); err != nil || ok {
		return Resolution{Cost: cost, Tier: TierAudit}, err
	}
	return Unresolved(), nil
}

// jobUnitCost usa totalCost/qty persistidos cuando ambos existen; si no, recalcula la orden
// resolviendo cada ingrediente sin override de forma recursiva.
func (r *Resolver) jobUnitCost(ctx context.Context, job *entity.ManufacturingJob, visiting map[LotKey]struct{}) (decimal.Decimal, error) {
	if job.HasKnownCost() {
		return PerUnit(job.TotalCost, job.Qty), nil
	}
	costs := make(map[LotKey]decimal.Decimal)
	for _, line := range job.LineItems {
		if line.Cost != nil {
			continue
		}
		k := NewLotKey(line.SKU.ID(), line.LotNumber)
		if _, ok := costs[k]; ok {
			continue
		}
		res, err := r.resolve(ctx, line.SKU.ID(), line.LotNumber, visiting)
		if err != nil {
			return decimal.Zero, err
		}
		costs[k] = res.Cost
	}
	b := ComputeJobCost(job, CostInputs{UnitCost: func(skuID, lot string) decimal.Decimal {
		return costs[NewLotKey(skuID, lot)]
	}})
	return b.PerUnitCost, nil
}
