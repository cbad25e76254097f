package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpeningBalance inyección inicial/manual de stock para un lote.
// Inmutable una vez registrado salvo corrección de precio (que debe propagarse).
type OpeningBalance struct {
	ID        string          `json:"_id"`
	SKU       SkuRef          `json:"sku"`
	LotNumber string          `json:"lotNumber"`
	Qty       decimal.Decimal `json:"qty"`
	Cost      decimal.Decimal `json:"cost"`
	UOM       string          `json:"uom"`
	CreatedAt time.Time       `json:"createdAt"`
	CreatedBy string          `json:"createdBy"`
}
