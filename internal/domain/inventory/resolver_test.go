package inventory_test

import (
	"context"
	"testing"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/jhoicas/lot-costing-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource fuentes en memoria indexadas por "sku:lote"; calls registra el orden de consulta.
type fakeSource struct {
	openings map[inventory.LotKey]decimal.Decimal
	pos      map[inventory.LotKey]decimal.Decimal
	jobs     map[inventory.LotKey]*entity.ManufacturingJob
	audits   map[inventory.LotKey]decimal.Decimal
	calls    []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		openings: map[inventory.LotKey]decimal.Decimal{},
		pos:      map[inventory.LotKey]decimal.Decimal{},
		jobs:     map[inventory.LotKey]*entity.ManufacturingJob{},
		audits:   map[inventory.LotKey]decimal.Decimal{},
	}
}

func (f *fakeSource) OpeningBalanceCost(_ context.Context, sku, lot string) (decimal.Decimal, bool, error) {
	f.calls = append(f.calls, "opening")
	c, ok := f.openings[inventory.NewLotKey(sku, lot)]
	return c, ok, nil
}

func (f *fakeSource) PurchaseOrderCost(_ context.Context, sku, lot string) (decimal.Decimal, bool, error) {
	f.calls = append(f.calls, "po")
	c, ok := f.pos[inventory.NewLotKey(sku, lot)]
	return c, ok, nil
}

func (f *fakeSource) ProducingJob(_ context.Context, sku, lot string) (*entity.ManufacturingJob, error) {
	f.calls = append(f.calls, "job")
	return f.jobs[inventory.NewLotKey(sku, lot)], nil
}

func (f *fakeSource) AuditCost(_ context.Context, sku, lot string) (decimal.Decimal, bool, error) {
	f.calls = append(f.calls, "audit")
	c, ok := f.audits[inventory.NewLotKey(sku, lot)]
	return c, ok, nil
}

func TestResolver_PrimeraFuenteGana(t *testing.T) {
	src := newFakeSource()
	k := inventory.NewLotKey("A", "L1")
	src.openings[k] = dec("1.25")
	src.pos[k] = dec("9")
	src.audits[k] = dec("7")

	res, err := inventory.NewResolver(src).Resolve(context.Background(), "A", "L1")
	require.NoError(t, err)
	assert.Equal(t, inventory.TierOpeningBalance, res.Tier)
	assert.True(t, res.Cost.Equal(dec("1.25")))
	assert.Equal(t, []string{"opening"}, src.calls, "no consulta fuentes de menor prioridad")
}

func TestResolver_CompraAntesQueAuditoria(t *testing.T) {
	src := newFakeSource()
	k := inventory.NewLotKey("A", "L1")
	src.pos[k] = decimal.Zero // registro con costo 0 también gana
	src.audits[k] = dec("7")

	res, err := inventory.NewResolver(src).Resolve(context.Background(), "A", "L1")
	require.NoError(t, err)
	assert.Equal(t, inventory.TierPurchaseOrder, res.Tier)
	assert.True(t, res.Cost.IsZero())
}

func TestResolver_SinRegistroEsCero(t *testing.T) {
	src := newFakeSource()
	res, err := inventory.NewResolver(src).Resolve(context.Background(), "A", "NOPE")
	require.NoError(t, err)
	assert.Equal(t, inventory.TierUnresolved, res.Tier)
	assert.True(t, res.Cost.IsZero())
	assert.Equal(t, []string{"opening", "po", "job", "audit"}, src.calls)
}

func TestResolver_ManufacturaConCostoPersistido(t *testing.T) {
	src := newFakeSource()
	src.jobs[inventory.NewLotKey("GADGET", "G1")] = &entity.ManufacturingJob{
		SKU: entity.RefID("GADGET"), LotNumber: "G1", Qty: dec("10"), TotalCost: dec("35"),
	}
	res, err := inventory.NewResolver(src).Resolve(context.Background(), "GADGET", "G1")
	require.NoError(t, err)
	assert.Equal(t, inventory.TierManufacturing, res.Tier)
	assert.True(t, res.Cost.Equal(dec("3.5")))
}

func TestResolver_ManufacturaRecalculaRecursivo(t *testing.T) {
	src := newFakeSource()
	src.openings[inventory.NewLotKey("WIDGET", "LOT-A")] = dec("2")
	job := widgetJob()
	job.LotNumber = "G1"
	src.jobs[inventory.NewLotKey("GADGET", "G1")] = job

	res, err := inventory.NewResolver(src).Resolve(context.Background(), "GADGET", "G1")
	require.NoError(t, err)
	assert.True(t, res.Cost.Equal(dec("3.5")), "got %s", res.Cost)
}

func TestResolver_CicloNoSeCuelga(t *testing.T) {
	src := newFakeSource()
	src.jobs[inventory.NewLotKey("P", "X")] = &entity.ManufacturingJob{
		SKU: entity.RefID("P"), LotNumber: "X", Qty: dec("1"),
		LineItems: []entity.ManufacturingLine{{SKU: entity.RefID("P"), LotNumber: "X", RecipeQty: dec("1")}},
	}
	res, err := inventory.NewResolver(src).Resolve(context.Background(), "P", "X")
	require.NoError(t, err)
	assert.True(t, res.Cost.IsZero())
}

func TestResolver_CompraAntesQueManufactura(t *testing.T) {
	src := newFakeSource()
	k := inventory.NewLotKey("GADGET", "G1")
	src.pos[k] = dec("4")
	src.jobs[k] = &entity.ManufacturingJob{
		SKU: entity.RefID("GADGET"), LotNumber: "G1", Qty: dec("10"), TotalCost: dec("35"),
	}

	res, err := inventory.NewResolver(src).Resolve(context.Background(), "GADGET", "G1")
	require.NoError(t, err)
	assert.Equal(t, inventory.TierPurchaseOrder, res.Tier)
	assert.True(t, res.Cost.Equal(dec("4")))
	assert.Equal(t, []string{"opening", "po"}, src.calls)
}

func TestResolver_ManufacturaAntesQueAuditoria(t *testing.T) {
	src := newFakeSource()
	k := inventory.NewLotKey("GADGET", "G1")
	src.jobs[k] = &entity.ManufacturingJob{
		SKU: entity.RefID("GADGET"), LotNumber: "G1", Qty: dec("10"), TotalCost: dec("35"),
	}
	src.audits[k] = dec("7")

	res, err := inventory.NewResolver(src).Resolve(context.Background(), "GADGET", "G1")
	require.NoError(t, err)
	assert.Equal(t, inventory.TierManufacturing, res.Tier)
	assert.True(t, res.Cost.Equal(dec("3.5")))
	assert.NotContains(t, src.calls, "audit")
}
