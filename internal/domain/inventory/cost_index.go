package inventory

import (
	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CostTier fuente que resolvió el costo de un lote, en orden de prioridad.
type CostTier string

const (
	TierOpeningBalance CostTier = "opening_balance"
	TierPurchaseOrder  CostTier = "purchase_order"
	TierManufacturing  CostTier = "manufacturing"
	TierAudit          CostTier = "audit"
	TierUnresolved     CostTier = "unresolved"
)

// Resolution costo resuelto y la fuente que lo aportó.
type Resolution struct {
	Cost decimal.Decimal
	Tier CostTier
}

// Unresolved caso terminal válido: costo 0.
func Unresolved() Resolution {
	return Resolution{Cost: decimal.Zero, Tier: TierUnresolved}
}

// PurchaseLineCost costo de una línea de compra. Con priceFallback, una línea sin cost usa price.
func PurchaseLineCost(line entity.PurchaseOrderLine, priceFallback bool) decimal.Decimal {
	if priceFallback && line.Cost.IsZero() && line.Price != nil {
		return *line.Price
	}
	return line.Cost
}

// CostIndex mapa en memoria (sku:lote → costo) para resoluciones masivas dentro de una petición.
type CostIndex map[LotKey]Resolution

// BuildCostIndex aplica la prioridad Saldo inicial → Compra → Auditoría sin entrar a manufactura.
// Para cada clave gana el primer registro encontrado; nunca se promedian fuentes.
func BuildCostIndex(
	openings []entity.OpeningBalance,
	orders []entity.PurchaseOrder,
	audits []entity.AuditAdjustment,
	priceFallback bool,
) CostIndex {
	ix := make(CostIndex)
	for _, ob := range openings {
		ix.offer(ob.SKU.ID(), ob.LotNumber, Resolution{Cost: ob.Cost, Tier: TierOpeningBalance})
	}
	for _, po := range orders {
		for _, line := range po.LineItems {
			ix.offer(line.SKU.ID(), line.LotNumber, Resolution{
				Cost: PurchaseLineCost(line, priceFallback),
				Tier: TierPurchaseOrder,
			})
		}
	}
	for _, adj := range audits {
		ix.offer(adj.SKU.ID(), adj.LotNumber, Resolution{Cost: adj.Cost, Tier: TierAudit})
	}
	return ix
}

func (ix CostIndex) offer(skuID, lot string, r Resolution) {
	if skuID == "" || lot == "" {
		return
	}
	key := NewLotKey(skuID, lot)
	if _, ok := ix[key]; ok {
		return
	}
	ix[key] = r
}

// Lookup devuelve la resolución o Unresolved.
func (ix CostIndex) Lookup(key LotKey) Resolution {
	if r, ok := ix[key]; ok {
		return r
	}
	return Unresolved()
}

// UnitCost adapta el índice a CostLookup.
func (ix CostIndex) UnitCost(skuID, lotNumber string) decimal.Decimal {
	return ix.Lookup(NewLotKey(skuID, lotNumber)).Cost
}

// IngredientLots pares distintos de ingredientes de un lote de órdenes, en orden de aparición.
func IngredientLots(jobs []entity.ManufacturingJob) []LotPair {
	seen := make(map[LotPair]struct{})
	pairs := make([]LotPair, 0)
	for _, job := range jobs {
		for _, line := range job.LineItems {
			p := LotPair{SKU: line.SKU.ID(), LotNumber: line.LotNumber}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			pairs = append(pairs, p)
		}
	}
	return pairs
}
