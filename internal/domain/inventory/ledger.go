package inventory

import (
	"sort"
	"time"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LedgerCosts colaboradores de costeo del kardex.
// Produced usa el costo unitario derivado de la orden; Consumed resuelve el lote consumido por su cuenta.
type LedgerCosts struct {
	Produced func(job *entity.ManufacturingJob) decimal.Decimal
	Consumed CostLookup
}

// typeRank desempate estable entre transacciones con la misma fecha.
var typeRank = map[string]int{
	entity.TxTypeOpening:       0,
	entity.TxTypePurchaseOrder: 1,
	entity.TxTypeProduced:      2,
	entity.TxTypeAudit:         3,
	entity.TxTypeConsumption:   4,
	entity.TxTypeOrders:        5,
	entity.TxTypeWebOrder:      6,
}

// BuildLedger une todas las fuentes de un SKU en una lista cronológica con saldo acumulado.
// Genera una transacción por línea coincidente (no por documento).
func BuildLedger(sku SkuMatcher, uom string, src Sources, since *time.Time, costs LedgerCosts) []entity.Transaction {
	txs := make([]entity.Transaction, 0)
	add := func(t entity.Transaction) {
		if t.UOM == "" {
			t.UOM = uom
		}
		txs = append(txs, t)
	}

	for _, ob := range src.Openings {
		if !sku.Matches(ob.SKU) || !included(since, ob.CreatedAt) {
			continue
		}
		add(entity.Transaction{
			Date: ob.CreatedAt, Type: entity.TxTypeOpening, Reference: entity.LotSourceOpening,
			LotNumber: ob.LotNumber, Quantity: ob.Qty, UOM: ob.UOM, Cost: ob.Cost,
			DocID: ob.ID, Link: "/opening-balances/" + ob.ID,
		})
	}
	for _, po := range src.PurchaseOrders {
		if !po.IsReceived() || !included(since, po.MovementDate()) {
			continue
		}
		for _, line := range po.LineItems {
			if !sku.Matches(line.SKU) || !line.QtyReceived.GreaterThan(decimal.Zero) {
				continue
			}
			add(entity.Transaction{
				Date: po.MovementDate(), Type: entity.TxTypePurchaseOrder, Reference: po.Reference(),
				LotNumber: line.LotNumber, Quantity: line.QtyReceived, Cost: line.Cost,
				DocID: po.ID, Link: "/purchase-orders/" + po.ID,
			})
		}
	}
	for i := range src.Jobs {
		job := &src.Jobs[i]
		if !included(since, job.Date) {
			continue
		}
		if sku.Matches(job.SKU) {
			p := job.AsProduction()
			cost := decimal.Zero
			if costs.Produced != nil {
				cost = costs.Produced(job)
			}
			add(entity.Transaction{
				Date: p.Date, Type: entity.TxTypeProduced, Reference: p.Reference,
				LotNumber: p.LotNumber, Quantity: p.Qty, Cost: cost,
				DocID: job.ID, Link: "/manufacturing/" + job.ID,
			})
		}
		for _, ev := range job.AsConsumptionEvents(sku.ID) {
			cost := decimal.Zero
			if costs.Consumed != nil {
				cost = costs.Consumed(sku.ID, ev.Line.LotNumber)
			}
			add(entity.Transaction{
				Date: ev.Date, Type: entity.TxTypeConsumption, Reference: ev.Reference,
				LotNumber: ev.Line.LotNumber, Quantity: ConsumedQuantity(ev.Line, ev.JobQty).TotalQty.Neg(),
				Cost: cost, DocID: job.ID, Link: "/manufacturing/" + job.ID,
			})
		}
	}
	for _, so := range src.SaleOrders {
		if !included(since, so.MovementDate()) {
			continue
		}
		for _, line := range so.LineItems {
			if !sku.Matches(line.SKU) || !line.QtyShipped.GreaterThan(decimal.Zero) {
				continue
			}
			add(entity.Transaction{
				Date: so.MovementDate(), Type: entity.TxTypeOrders, Reference: so.Reference(),
				LotNumber: line.LotNumber, Quantity: line.QtyShipped.Neg(), Cost: line.Cost,
				DocID: so.ID, Link: "/sale-orders/" + so.ID,
			})
		}
	}
	for _, adj := range src.Audits {
		if !sku.Matches(adj.SKU) || !included(since, adj.CreatedAt) {
			continue
		}
		ref := "Audit"
		if adj.Reason != "" {
			ref = "Audit: " + adj.Reason
		}
		add(entity.Transaction{
			Date: adj.CreatedAt, Type: entity.TxTypeAudit, Reference: ref,
			LotNumber: adj.LotNumber, Quantity: adj.Qty, Cost: adj.Cost,
			DocID: adj.ID, Link: "/audits/" + adj.ID,
		})
	}
	for _, wo := range src.WebOrders {
		if !included(since, wo.OrderDate) {
			continue
		}
		for _, line := range wo.LineItems {
			if !sku.MatchesWeb(line) {
				continue
			}
			add(entity.Transaction{
				Date: wo.OrderDate, Type: entity.TxTypeWebOrder, Reference: wo.Reference(),
				LotNumber: line.LotNumber, Quantity: line.Qty.Neg(), Cost: line.Cost,
				DocID: wo.ID, Link: "/web-orders/" + wo.ID,
			})
		}
	}

	SortTransactions(txs)
	RunningBalance(txs)
	return txs
}

// SortTransactions orden ascendente por fecha con desempate total (tipo, documento, lote, cantidad),
// de modo que el orden de entrada de los documentos no altera el resultado.
func SortTransactions(txs []entity.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		a, b := txs[i], txs[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if typeRank[a.Type] != typeRank[b.Type] {
			return typeRank[a.Type] < typeRank[b.Type]
		}
		if a.DocID != b.DocID {
			return a.DocID < b.DocID
		}
		if a.LotNumber != b.LotNumber {
			return a.LotNumber < b.LotNumber
		}
		return a.Quantity.LessThan(b.Quantity)
	})
}

// RunningBalance balance[i] = balance[i-1] + quantity[i].
func RunningBalance(txs []entity.Transaction) {
	running := decimal.Zero
	for i := range txs {
		running = running.Add(txs[i].Quantity)
		txs[i].Balance = running
	}
}
