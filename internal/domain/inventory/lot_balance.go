package inventory

import (
	"sort"
	"time"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Orden de salida del saldo por lote. Son dos usos distintos y no se mezclan.
const (
	LotOrderFIFO    = "fifo"    // sugerencia de consumo: fecha de primera aparición ascendente
	LotOrderBalance = "balance" // visualización: saldo descendente
)

// Sources documentos de todas las fuentes de movimiento para uno o varios SKUs.
type Sources struct {
	Openings       []entity.OpeningBalance
	PurchaseOrders []entity.PurchaseOrder
	Jobs           []entity.ManufacturingJob
	SaleOrders     []entity.SaleOrder
	Audits         []entity.AuditAdjustment
	WebOrders      []entity.WebOrder
}

type lotAccumulator struct {
	order    []string
	balances map[string]*entity.LotBalance
	seq      map[string]int
}

func newLotAccumulator() *lotAccumulator {
	return &lotAccumulator{balances: make(map[string]*entity.LotBalance), seq: make(map[string]int)}
}

// move aplica un movimiento. Solo el primer movimiento con fuente fija source/date del lote.
func (a *lotAccumulator) move(lot string, qty decimal.Decimal, source string, date time.Time) {
	b, ok := a.balances[lot]
	if !ok {
		b = &entity.LotBalance{LotNumber: lot, Balance: decimal.Zero}
		a.balances[lot] = b
		a.seq[lot] = len(a.order)
		a.order = append(a.order, lot)
	}
	b.Balance = b.Balance.Add(qty)
	if source != "" && b.Source == "" {
		b.Source = source
		b.Date = date
	}
}

// AggregateLotBalances recorre las fuentes en orden fijo (saldo inicial, compras, producción,
// consumo, pedidos, auditorías, web) y devuelve los lotes con saldo positivo en el orden pedido.
func AggregateLotBalances(sku SkuMatcher, src Sources, since *time.Time, order string) []entity.LotBalance {
	acc := newLotAccumulator()

	for _, ob := range src.Openings {
		if sku.Matches(ob.SKU) && included(since, ob.CreatedAt) {
			acc.move(ob.LotNumber, ob.Qty, entity.LotSourceOpening, ob.CreatedAt)
		}
	}
	for _, po := range src.PurchaseOrders {
		if !po.IsReceived() || !included(since, po.MovementDate()) {
			continue
		}
		for _, line := range po.LineItems {
			if sku.Matches(line.SKU) && line.QtyReceived.GreaterThan(decimal.Zero) {
				acc.move(line.LotNumber, line.QtyReceived, po.Reference(), po.MovementDate())
			}
		}
	}
	for i := range src.Jobs {
		job := &src.Jobs[i]
		if !included(since, job.Date) || !sku.Matches(job.SKU) {
			continue
		}
		p := job.AsProduction()
		acc.move(p.LotNumber, p.Qty, entity.LotSourceManufacturing, p.Date)
	}
	for i := range src.Jobs {
		job := &src.Jobs[i]
		if !included(since, job.Date) {
			continue
		}
		for _, ev := range job.AsConsumptionEvents(sku.ID) {
			acc.move(ev.Line.LotNumber, BalanceConsumption(ev.Line).Neg(), "", ev.Date)
		}
	}
	for _, so := range src.SaleOrders {
		if !included(since, so.MovementDate()) {
			continue
		}
		for _, line := range so.LineItems {
			if sku.Matches(line.SKU) && line.QtyShipped.GreaterThan(decimal.Zero) {
				acc.move(line.LotNumber, line.QtyShipped.Neg(), "", so.MovementDate())
			}
		}
	}
	for _, adj := range src.Audits {
		if !sku.Matches(adj.SKU) || !included(since, adj.CreatedAt) {
			continue
		}
		source := ""
		if adj.Qty.GreaterThan(decimal.Zero) {
			source = entity.LotSourceAudit
		}
		acc.move(adj.LotNumber, adj.Qty, source, adj.CreatedAt)
	}
	for _, wo := range src.WebOrders {
		if !included(since, wo.OrderDate) {
			continue
		}
		for _, line := range wo.LineItems {
			if sku.MatchesWeb(line) {
				acc.move(line.LotNumber, line.Qty.Neg(), "", wo.OrderDate)
			}
		}
	}

	out := make([]entity.LotBalance, 0, len(acc.order))
	for _, lot := range acc.order {
		b := acc.balances[lot]
		if b.Balance.GreaterThan(decimal.Zero) {
			out = append(out, *b)
		}
	}
	SortLotBalances(out, order, acc.seq)
	return out
}

// SortLotBalances ordena según el uso. seq desempata por orden de registro (puede ser nil).
func SortLotBalances(lots []entity.LotBalance, order string, seq map[string]int) {
	tie := func(i, j int) bool {
		if seq != nil {
			return seq[lots[i].LotNumber] < seq[lots[j].LotNumber]
		}
		return lots[i].LotNumber < lots[j].LotNumber
	}
	switch order {
	case LotOrderBalance:
		sort.SliceStable(lots, func(i, j int) bool {
			if !lots[i].Balance.Equal(lots[j].Balance) {
				return lots[i].Balance.GreaterThan(lots[j].Balance)
			}
			return tie(i, j)
		})
	default:
		sort.SliceStable(lots, func(i, j int) bool {
			if !lots[i].Date.Equal(lots[j].Date) {
				return lots[i].Date.Before(lots[j].Date)
			}
			return tie(i, j)
		})
	}
}
