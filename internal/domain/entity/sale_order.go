package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleOrder pedido mayorista.
type SaleOrder struct {
	ID        string          `json:"_id"`
	Label     string          `json:"label"`
	Customer  string          `json:"customer"`
	Status    string          `json:"status"`
	OrderDate time.Time       `json:"orderDate"`
	ShippedAt *time.Time      `json:"shippedAt,omitempty"`
	LineItems []SaleOrderLine `json:"lineItems"`
}

// SaleOrderLine línea del pedido. Cost es una foto del costo al momento de resolverlo;
// no se recalcula al leer, por eso existe la propagación.
type SaleOrderLine struct {
	SKU        SkuRef          `json:"sku"`
	LotNumber  string          `json:"lotNumber"`
	QtyOrdered decimal.Decimal `json:"qtyOrdered"`
	QtyShipped decimal.Decimal `json:"qtyShipped"`
	Cost       decimal.Decimal `json:"cost"`
}

// Reference etiqueta visible del pedido.
func (o *SaleOrder) Reference() string {
	if o.Label != "" {
		return "SO #" + o.Label
	}
	return "SO #" + o.ID
}

// MovementDate fecha de despacho si existe, si no la fecha del pedido.
func (o *SaleOrder) MovementDate() time.Time {
	if o.ShippedAt != nil && !o.ShippedAt.IsZero() {
		return *o.ShippedAt
	}
	return o.OrderDate
}
