package inventory

import (
	"strings"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Tolerancias para decidir si un recálculo amerita escritura.
var (
	TotalCostTolerance = decimal.NewFromFloat(0.01)
	UnitCostTolerance  = decimal.NewFromFloat(0.0001)
)

// CostLookup resuelve el costo unitario de un (sku, lote).
type CostLookup func(skuID, lotNumber string) decimal.Decimal

// CategoryLookup devuelve la categoría del SKU ("" si no se conoce).
type CategoryLookup func(skuID string) string

// CostInputs colaboradores del cálculo de costo de una orden.
// IgnoreOverrides descarta el costo explícito de las líneas (lo usa la sincronización masiva).
type CostInputs struct {
	UnitCost        CostLookup
	Category        CategoryLookup
	IgnoreOverrides bool
}

// LineCost costo calculado de un ingrediente.
type LineCost struct {
	Index     int
	SKU       string
	LotNumber string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	Total     decimal.Decimal
	Packaging bool
	Override  bool
}

// CostBreakdown resultado del costeo de una orden de manufactura.
type CostBreakdown struct {
	MaterialCost  decimal.Decimal
	PackagingCost decimal.Decimal
	LaborCost     decimal.Decimal
	TotalCost     decimal.Decimal
	PerUnitCost   decimal.Decimal
	Lines         []LineCost
}

// IsPackaging clasifica la categoría como empaque si contiene "pack" (sin distinguir mayúsculas).
func IsPackaging(category string) bool {
	return strings.Contains(strings.ToLower(category), "pack")
}

// ComputeJobCost costo = mano de obra + Σ(cantidad consumida × costo unitario del lote).
// El override de la línea tiene precedencia sobre el resolvedor salvo IgnoreOverrides.
func ComputeJobCost(job *entity.ManufacturingJob, in CostInputs) CostBreakdown {
	out := CostBreakdown{
		MaterialCost:  decimal.Zero,
		PackagingCost: decimal.Zero,
		LaborCost:     LaborCost(job.Labor),
		Lines:         make([]LineCost, 0, len(job.LineItems)),
	}
	for i, line := range job.LineItems {
		skuID := line.SKU.ID()
		lc := LineCost{
			Index:     i,
			SKU:       skuID,
			LotNumber: line.LotNumber,
			Quantity:  ConsumedQuantity(line, job.Qty).TotalQty,
		}
		switch {
		case line.Cost != nil && !in.IgnoreOverrides:
			lc.UnitCost = *line.Cost
			lc.Override = true
		case in.UnitCost != nil:
			lc.UnitCost = in.UnitCost(skuID, line.LotNumber)
		default:
			lc.UnitCost = decimal.Zero
		}
		lc.Total = lc.Quantity.Mul(lc.UnitCost)
		if in.Category != nil {
			lc.Packaging = IsPackaging(in.Category(skuID))
		}
		if lc.Packaging {
			out.PackagingCost = out.PackagingCost.Add(lc.Total)
		} else {
			out.MaterialCost = out.MaterialCost.Add(lc.Total)
		}
		out.Lines = append(out.Lines, lc)
	}
	out.TotalCost = out.LaborCost.Add(out.MaterialCost).Add(out.PackagingCost)
	out.PerUnitCost = PerUnit(out.TotalCost, job.Qty)
	return out
}

// PerUnit total / qty, 0 si qty no es positiva.
func PerUnit(total, qty decimal.Decimal) decimal.Decimal {
	if !qty.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return total.Div(qty)
}

// Changed indica si |a-b| supera la tolerancia.
func Changed(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().GreaterThan(tolerance)
}

// NeedsUpdate compara el costo persistido de la orden contra el recalculado.
func NeedsUpdate(job *entity.ManufacturingJob, b CostBreakdown) bool {
	if Changed(job.TotalCost, b.TotalCost, TotalCostTolerance) {
		return true
	}
	for _, lc := range b.Lines {
		if lc.Index >= len(job.LineItems) {
			continue
		}
		current := decimal.Zero
		if c := job.LineItems[lc.Index].Cost; c != nil {
			current = *c
		} else if !lc.UnitCost.IsZero() {
			return true
		}
		if Changed(current, lc.UnitCost, UnitCostTolerance) {
			return true
		}
	}
	return false
}

// ApplyBreakdown vuelca el costeo en la orden (totales y costo unitario por línea).
func ApplyBreakdown(job *entity.ManufacturingJob, b CostBreakdown) {
	job.MaterialCost = b.MaterialCost
	job.PackagingCost = b.PackagingCost
	job.LaborCost = b.LaborCost
	job.TotalCost = b.TotalCost
	for _, lc := range b.Lines {
		if lc.Index >= len(job.LineItems) {
			continue
		}
		cost := lc.UnitCost
		job.LineItems[lc.Index].Cost = &cost
	}
}
