package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditAdjustment corrección manual de inventario. Qty positivo suma, negativo resta.
// Es la fuente de menor prioridad al resolver costos.
type AuditAdjustment struct {
	ID        string          `json:"_id"`
	SKU       SkuRef          `json:"sku"`
	LotNumber string          `json:"lotNumber"`
	Qty       decimal.Decimal `json:"qty"`
	Cost      decimal.Decimal `json:"cost"`
	Reason    string          `json:"reason"`
	CreatedAt time.Time       `json:"createdAt"`
	CreatedBy string          `json:"createdBy"`
}
