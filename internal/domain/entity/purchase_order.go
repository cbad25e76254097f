package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de orden de compra.
const (
	PurchaseOrderStatusDraft    = "Draft"
	PurchaseOrderStatusOrdered  = "Ordered"
	PurchaseOrderStatusReceived = "Received"
)

// PurchaseOrder orden de compra con líneas embebidas.
// Solo una orden en estado Received aporta inventario por lote.
type PurchaseOrder struct {
	ID         string              `json:"_id"`
	Label      string              `json:"label"`
	Status     string              `json:"status"`
	OrderDate  time.Time           `json:"orderDate"`
	ReceivedAt *time.Time          `json:"receivedAt,omitempty"`
	LineItems  []PurchaseOrderLine `json:"lineItems"`
}

// PurchaseOrderLine línea de la orden. LotNumber se asigna al recibir (MM/DD/YYYY-.N).
type PurchaseOrderLine struct {
	SKU         SkuRef           `json:"sku"`
	LotNumber   string           `json:"lotNumber"`
	QtyOrdered  decimal.Decimal  `json:"qtyOrdered"`
	QtyReceived decimal.Decimal  `json:"qtyReceived"`
	Cost        decimal.Decimal  `json:"cost"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

// IsReceived indica si la orden ya fue recibida.
func (po *PurchaseOrder) IsReceived() bool {
	return po.Status == PurchaseOrderStatusReceived
}

// Reference devuelve la etiqueta visible de la orden ("PO #<label o id>").
func (po *PurchaseOrder) Reference() string {
	if po.Label != "" {
		return "PO #" + po.Label
	}
	return "PO #" + po.ID
}

// MovementDate fecha con la que la orden entra al kardex: recepción si existe, si no la fecha de orden.
func (po *PurchaseOrder) MovementDate() time.Time {
	if po.ReceivedAt != nil && !po.ReceivedAt.IsZero() {
		return *po.ReceivedAt
	}
	return po.OrderDate
}
