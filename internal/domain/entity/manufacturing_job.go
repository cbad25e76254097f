package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de manufactura.
const (
	ManufacturingStatusDraft      = "Draft"
	ManufacturingStatusInProgress = "In Progress"
	ManufacturingStatusCompleted  = "Completed"
)

// ManufacturingJob es a la vez productor de su SKU+lote de salida y consumidor de cada
// ingrediente de LineItems. Se modela como un solo agregado con dos vistas derivadas
// (AsProduction / AsConsumptionEvents) para no romper el vínculo producción-consumo.
type ManufacturingJob struct {
	ID            string              `json:"_id"`
	Label         string              `json:"label"`
	SKU           SkuRef              `json:"sku"`
	LotNumber     string              `json:"lotNumber"`
	Qty           decimal.Decimal     `json:"qty"`
	QtyDifference decimal.Decimal     `json:"qtyDifference"`
	Status        string              `json:"status"`
	Date          time.Time           `json:"date"`
	LineItems     []ManufacturingLine `json:"lineItems"`
	Labor         []LaborEntry        `json:"labor"`
	MaterialCost  decimal.Decimal     `json:"materialCost"`
	PackagingCost decimal.Decimal     `json:"packagingCost"`
	LaborCost     decimal.Decimal     `json:"laborCost"`
	TotalCost     decimal.Decimal     `json:"totalCost"`
}

// ManufacturingLine ingrediente consumido. SA es el porcentaje de rendimiento ajustado por merma.
// Cost, si viene informado, es un override local que tiene precedencia sobre el resolvedor.
type ManufacturingLine struct {
	SKU         SkuRef           `json:"sku"`
	LotNumber   string           `json:"lotNumber"`
	RecipeQty   decimal.Decimal  `json:"recipeQty"`
	SA          decimal.Decimal  `json:"sa"`
	QtyExtra    decimal.Decimal  `json:"qtyExtra"`
	QtyScrapped decimal.Decimal  `json:"qtyScrapped"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
}

// LaborEntry mano de obra: Duration en formato HH:MM:SS.
type LaborEntry struct {
	Duration   string          `json:"duration"`
	HourlyRate decimal.Decimal `json:"hourlyRate"`
}

// ProductionEvent vista de salida de la orden (lo que produce).
type ProductionEvent struct {
	JobID     string
	Reference string
	SKU       string
	LotNumber string
	Qty       decimal.Decimal
	Date      time.Time
}

// ConsumptionEvent vista de entrada de la orden (un ingrediente consumido).
type ConsumptionEvent struct {
	JobID     string
	Reference string
	JobQty    decimal.Decimal
	LineIndex int
	Line      ManufacturingLine
	Date      time.Time
}

// OutputLot identificador del lote producido: LotNumber o Label como respaldo.
func (j *ManufacturingJob) OutputLot() string {
	if j.LotNumber != "" {
		return j.LotNumber
	}
	return j.Label
}

// Reference etiqueta visible de la orden.
func (j *ManufacturingJob) Reference() string {
	if j.Label != "" {
		return "MO #" + j.Label
	}
	return "MO #" + j.ID
}

// ProducesLot indica si la orden produce el lote (skuID, lot), buscando por LotNumber o Label.
func (j *ManufacturingJob) ProducesLot(skuID, lot string) bool {
	if !j.SKU.Matches(skuID) || lot == "" {
		return false
	}
	return j.LotNumber == lot || j.Label == lot
}

// AsProduction devuelve la vista productora de la orden.
func (j *ManufacturingJob) AsProduction() ProductionEvent {
	return ProductionEvent{
		JobID:     j.ID,
		Reference: j.Reference(),
		SKU:       j.SKU.ID(),
		LotNumber: j.OutputLot(),
		Qty:       j.Qty,
		Date:      j.Date,
	}
}

// AsConsumptionEvents devuelve un evento por ingrediente. Si skuID no es vacío filtra por ese SKU.
func (j *ManufacturingJob) AsConsumptionEvents(skuID string) []ConsumptionEvent {
	events := make([]ConsumptionEvent, 0, len(j.LineItems))
	for i, line := range j.LineItems {
		if skuID != "" && !line.SKU.Matches(skuID) {
			continue
		}
		events = append(events, ConsumptionEvent{
			JobID:     j.ID,
			Reference: j.Reference(),
			JobQty:    j.Qty,
			LineIndex: i,
			Line:      line,
			Date:      j.Date,
		})
	}
	return events
}

// HasKnownCost indica si la orden ya tiene costo total y cantidad persistidos.
func (j *ManufacturingJob) HasKnownCost() bool {
	return j.TotalCost.GreaterThan(decimal.Zero) && j.Qty.GreaterThan(decimal.Zero)
}
