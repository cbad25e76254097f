package inventory

import (
	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Consumption desglose de la cantidad consumida de un ingrediente.
type Consumption struct {
	BOMQty      decimal.Decimal
	QtyExtra    decimal.Decimal
	QtyScrapped decimal.Decimal
	TotalQty    decimal.Decimal
}

// ConsumedQuantity fórmula canónica de consumo (costeo, kardex y clasificación por tiers):
//
//	bomQty      = recipeQty * job.qty
//	sa          = line.sa / 100
//	qtyExtra    = sa > 0 ? bomQty/sa - bomQty : line.qtyExtra
//	totalQty    = sa > 0 ? bomQty + qtyScrapped + qtyExtra : bomQty + qtyScrapped
func ConsumedQuantity(line entity.ManufacturingLine, jobQty decimal.Decimal) Consumption {
	bom := line.RecipeQty.Mul(jobQty)
	sa := line.SA.Div(hundred)
	c := Consumption{BOMQty: bom, QtyScrapped: line.QtyScrapped}
	if sa.GreaterThan(decimal.Zero) {
		c.QtyExtra = bom.Div(sa).Sub(bom)
		c.TotalQty = bom.Add(c.QtyScrapped).Add(c.QtyExtra)
		return c
	}
	c.QtyExtra = line.QtyExtra
	c.TotalQty = bom.Add(c.QtyScrapped)
	return c
}

// BalanceConsumption débito que registra el saldo por lote: recipeQty + qtyExtra almacenados,
// sin merma. Es distinto de ConsumedQuantity y no se unifica con ella.
func BalanceConsumption(line entity.ManufacturingLine) decimal.Decimal {
	return line.RecipeQty.Add(line.QtyExtra)
}
