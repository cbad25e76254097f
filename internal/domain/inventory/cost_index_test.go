package inventory_test

import (
	"testing"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/jhoicas/lot-costing-api/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
)

func TestBuildCostIndex_PrioridadSaldoInicialSobreCompra(t *testing.T) {
	ix := inventory.BuildCostIndex(
		[]entity.OpeningBalance{{SKU: entity.RefID("A"), LotNumber: "L1", Cost: dec("1.5")}},
		[]entity.PurchaseOrder{{ID: "po", LineItems: []entity.PurchaseOrderLine{
			{SKU: entity.RefID("A"), LotNumber: "L1", Cost: dec("9")},
			{SKU: entity.RefID("A"), LotNumber: "L2", Cost: dec("4")},
		}}},
		[]entity.AuditAdjustment{
			{SKU: entity.RefID("A"), LotNumber: "L2", Cost: dec("7")},
			{SKU: entity.RefID("A"), LotNumber: "L3", Cost: dec("8")},
		},
		false,
	)

	r := ix.Lookup(inventory.NewLotKey("A", "L1"))
	assert.Equal(t, inventory.TierOpeningBalance, r.Tier)
	assert.True(t, r.Cost.Equal(dec("1.5")))

	r = ix.Lookup(inventory.NewLotKey("A", "L2"))
	assert.Equal(t, inventory.TierPurchaseOrder, r.Tier)
	assert.True(t, r.Cost.Equal(dec("4")))

	r = ix.Lookup(inventory.NewLotKey("A", "L3"))
	assert.Equal(t, inventory.TierAudit, r.Tier)

	r = ix.Lookup(inventory.NewLotKey("A", "L4"))
	assert.Equal(t, inventory.TierUnresolved, r.Tier)
	assert.True(t, r.Cost.IsZero())
}

func TestPurchaseLineCost_RespaldoPrecioExplicito(t *testing.T) {
	price := dec("3.25")
	line := entity.PurchaseOrderLine{Price: &price}

	assert.True(t, inventory.PurchaseLineCost(line, false).IsZero())
	assert.True(t, inventory.PurchaseLineCost(line, true).Equal(price))

	line.Cost = dec("2")
	assert.True(t, inventory.PurchaseLineCost(line, true).Equal(dec("2")), "cost tiene prioridad sobre price")
}

func TestBuildCostIndex_SkuConDosPuntos(t *testing.T) {
	ix := inventory.BuildCostIndex(
		[]entity.OpeningBalance{{SKU: entity.RefID("RM:01"), LotNumber: "L1", Cost: dec("2")}},
		nil, nil, false,
	)
	r := ix.Lookup(inventory.LotPair{SKU: "RM:01", LotNumber: "L1"}.Key())
	assert.Equal(t, inventory.TierOpeningBalance, r.Tier)
	assert.True(t, r.Cost.Equal(dec("2")))
}

func TestIngredientLots_Distintas(t *testing.T) {
	jobs := []entity.ManufacturingJob{
		{LineItems: []entity.ManufacturingLine{{SKU: entity.RefID("A"), LotNumber: "1"}, {SKU: entity.RefID("RM:01"), LotNumber: "L1"}}},
		{LineItems: []entity.ManufacturingLine{{SKU: entity.RefID("A"), LotNumber: "1"}}},
	}
	assert.Equal(t, []inventory.LotPair{{SKU: "A", LotNumber: "1"}, {SKU: "RM:01", LotNumber: "L1"}}, inventory.IngredientLots(jobs))
}
