package inventory

import (
	"time"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Tier rol del SKU según dónde aparece.
type Tier int

const (
	TierNone         Tier = 0 // no se vende ni se consume
	TierSoldOnly     Tier = 1 // se vende, nunca se consume
	TierSoldConsumed Tier = 2 // se vende y se consume
	TierConsumedOnly Tier = 3 // solo se consume en manufactura
)

// Label nombre legible del tier.
func (t Tier) Label() string {
	switch t {
	case TierSoldOnly:
		return "Tier 1"
	case TierSoldConsumed:
		return "Tier 2"
	case TierConsumedOnly:
		return "Tier 3"
	default:
		return "Tier 0"
	}
}

// TierFor combina las dos señales.
func TierFor(sold, consumed bool) Tier {
	switch {
	case sold && consumed:
		return TierSoldConsumed
	case sold:
		return TierSoldOnly
	case consumed:
		return TierConsumedOnly
	default:
		return TierNone
	}
}

// ClassifySKUs clasifica cada SKU del catálogo dado. Vendido = línea de pedido despachada o
// línea web (por SKU o variante); consumido = ingrediente con cantidad consumida positiva.
func ClassifySKUs(skus []entity.SKU, src Sources, since *time.Time) map[string]Tier {
	byVariance := make(map[string]string)
	for _, s := range skus {
		for _, v := range s.Variances {
			byVariance[v] = s.ID
		}
	}

	sold := make(map[string]bool)
	consumed := make(map[string]bool)

	for _, so := range src.SaleOrders {
		if !included(since, so.MovementDate()) {
			continue
		}
		for _, line := range so.LineItems {
			if line.QtyShipped.GreaterThan(decimal.Zero) {
				sold[line.SKU.ID()] = true
			}
		}
	}
	for _, wo := range src.WebOrders {
		if !included(since, wo.OrderDate) {
			continue
		}
		for _, line := range wo.LineItems {
			if !line.Qty.GreaterThan(decimal.Zero) {
				continue
			}
			if id := line.SKU.ID(); id != "" {
				sold[id] = true
			}
			if id, ok := byVariance[line.VarianceID]; ok {
				sold[id] = true
			}
		}
	}
	for i := range src.Jobs {
		job := &src.Jobs[i]
		if !included(since, job.Date) {
			continue
		}
		for _, line := range job.LineItems {
			if ConsumedQuantity(line, job.Qty).TotalQty.GreaterThan(decimal.Zero) {
				consumed[line.SKU.ID()] = true
			}
		}
	}

	out := make(map[string]Tier, len(skus))
	for _, s := range skus {
		out[s.ID] = TierFor(sold[s.ID], consumed[s.ID])
	}
	return out
}
