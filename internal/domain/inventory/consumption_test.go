package inventory_test

import (
	"testing"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/jhoicas/lot-costing-api/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
)

func TestConsumedQuantity_ConRendimiento(t *testing.T) {
	line := entity.ManufacturingLine{RecipeQty: dec("2"), SA: dec("80"), QtyScrapped: dec("1")}
	c := inventory.ConsumedQuantity(line, dec("10"))

	assert.True(t, c.BOMQty.Equal(dec("20")), "bom %s", c.BOMQty)
	assert.True(t, c.QtyExtra.Equal(dec("5")), "extra %s", c.QtyExtra)
	assert.True(t, c.TotalQty.Equal(dec("26")), "total %s", c.TotalQty)
}

func TestConsumedQuantity_SinRendimientoIgnoraExtraEnTotal(t *testing.T) {
	line := entity.ManufacturingLine{RecipeQty: dec("2"), QtyExtra: dec("3"), QtyScrapped: dec("1")}
	c := inventory.ConsumedQuantity(line, dec("10"))

	assert.True(t, c.QtyExtra.Equal(dec("3")), "se conserva el extra almacenado")
	assert.True(t, c.TotalQty.Equal(dec("21")), "total %s", c.TotalQty)
}

func TestBalanceConsumption_NoIncluyeMerma(t *testing.T) {
	line := entity.ManufacturingLine{RecipeQty: dec("4"), QtyExtra: dec("1"), QtyScrapped: dec("9")}
	assert.True(t, inventory.BalanceConsumption(line).Equal(dec("5")))
}
