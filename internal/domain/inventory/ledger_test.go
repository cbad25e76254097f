package inventory_test

import (
	"testing"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/jhoicas/lot-costing-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerCosts() inventory.LedgerCosts {
	return inventory.LedgerCosts{
		Produced: func(job *entity.ManufacturingJob) decimal.Decimal { return dec("4") },
		Consumed: func(string, string) decimal.Decimal { return dec("1") },
	}
}

func reversed(src inventory.Sources) inventory.Sources {
	rev := func(n int, swap func(i, j int)) {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			swap(i, j)
		}
	}
	rev(len(src.Openings), func(i, j int) { src.Openings[i], src.Openings[j] = src.Openings[j], src.Openings[i] })
	rev(len(src.PurchaseOrders), func(i, j int) {
		src.PurchaseOrders[i], src.PurchaseOrders[j] = src.PurchaseOrders[j], src.PurchaseOrders[i]
	})
	rev(len(src.Audits), func(i, j int) { src.Audits[i], src.Audits[j] = src.Audits[j], src.Audits[i] })
	return src
}

func TestBuildLedger_SaldoFinalYConsumoCanonico(t *testing.T) {
	matcher := inventory.SkuMatcher{ID: "A", Variances: []string{"A-RED"}}
	txs := inventory.BuildLedger(matcher, "kg", sampleSources(), nil, ledgerCosts())

	// 50 + 30 - (10×5 + 4) - 30 + 4 - 8 - 1
	require.Len(t, txs, 7)
	assert.True(t, txs[len(txs)-1].Balance.Equal(dec("-9")), "got %s", txs[len(txs)-1].Balance)

	assert.Equal(t, entity.TxTypeOpening, txs[0].Type)
	assert.Equal(t, "kg", txs[0].UOM)
	assert.Equal(t, "/opening-balances/ob1", txs[0].Link)

	assert.Equal(t, entity.TxTypePurchaseOrder, txs[1].Type)
	assert.Equal(t, "PO #100", txs[1].Reference)

	assert.Equal(t, entity.TxTypeConsumption, txs[2].Type)
	assert.True(t, txs[2].Quantity.Equal(dec("-54")))
	assert.True(t, txs[2].Cost.Equal(dec("1")))
	assert.Equal(t, "MO #7", txs[2].Reference)

	last := txs[len(txs)-1]
	assert.Equal(t, entity.TxTypeWebOrder, last.Type, "la línea web coincide por variante")
}

func TestBuildLedger_IndependienteDelOrdenDeEntrada(t *testing.T) {
	src := sampleSources()
	src.Openings = append(src.Openings, entity.OpeningBalance{
		ID: "ob0", SKU: entity.RefID("A"), LotNumber: "SAME-DAY", Qty: dec("3"), CreatedAt: day(1),
	})
	src.Audits = append(src.Audits, entity.AuditAdjustment{
		ID: "au3", SKU: entity.RefID("A"), LotNumber: "OLD", Qty: dec("2"), CreatedAt: day(1),
	})
	matcher := inventory.SkuMatcher{ID: "A", Variances: []string{"A-RED"}}

	a := inventory.BuildLedger(matcher, "", src, nil, ledgerCosts())
	b := inventory.BuildLedger(matcher, "", reversed(sampleSourcesWith(src)), nil, ledgerCosts())

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].DocID, b[i].DocID, "fila %d", i)
		assert.True(t, a[i].Balance.Equal(b[i].Balance), "fila %d", i)
	}
}

// sampleSourcesWith copia los slices para que invertirlos no altere el original.
func sampleSourcesWith(src inventory.Sources) inventory.Sources {
	out := src
	out.Openings = append([]entity.OpeningBalance(nil), src.Openings...)
	out.PurchaseOrders = append([]entity.PurchaseOrder(nil), src.PurchaseOrders...)
	out.Audits = append([]entity.AuditAdjustment(nil), src.Audits...)
	return out
}

func TestBuildLedger_ProduccionConCostoDeLaOrden(t *testing.T) {
	txs := inventory.BuildLedger(inventory.SkuMatcher{ID: "B"}, "", sampleSources(), nil, ledgerCosts())

	var produced []entity.Transaction
	for _, tx := range txs {
		if tx.Type == entity.TxTypeProduced {
			produced = append(produced, tx)
		}
	}
	require.Len(t, produced, 1)
	assert.Equal(t, "7", produced[0].LotNumber)
	assert.True(t, produced[0].Quantity.Equal(dec("5")))
	assert.True(t, produced[0].Cost.Equal(dec("4")))
	assert.Equal(t, "/manufacturing/mo1", produced[0].Link)
}

func TestBuildLedger_SinMovimientos(t *testing.T) {
	txs := inventory.BuildLedger(inventory.SkuMatcher{ID: "Z"}, "", sampleSources(), nil, inventory.LedgerCosts{})
	assert.NotNil(t, txs)
	assert.Empty(t, txs)
}
