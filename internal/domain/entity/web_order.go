package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// WebOrder pedido del canal retail/web.
type WebOrder struct {
	ID        string         `json:"_id"`
	OrderNo   string         `json:"orderNo"`
	OrderDate time.Time      `json:"orderDate"`
	LineItems []WebOrderLine `json:"lineItems"`
}

// WebOrderLine puede referenciar el SKU canónico o una de sus variantes (VarianceID).
type WebOrderLine struct {
	SKU        SkuRef          `json:"sku"`
	VarianceID string          `json:"varianceId,omitempty"`
	LotNumber  string          `json:"lotNumber"`
	Qty        decimal.Decimal `json:"qty"`
	Cost       decimal.Decimal `json:"cost"`
}

// UnmarshalJSON normaliza el nombre del campo de cantidad ("qty" o "quantity").
func (l *WebOrderLine) UnmarshalJSON(data []byte) error {
	type plain WebOrderLine
	var aux struct {
		plain
		Quantity *decimal.Decimal `json:"quantity"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*l = WebOrderLine(aux.plain)
	if l.Qty.IsZero() && aux.Quantity != nil {
		l.Qty = *aux.Quantity
	}
	return nil
}

// Reference etiqueta visible del pedido web.
func (o *WebOrder) Reference() string {
	if o.OrderNo != "" {
		return "WEB #" + o.OrderNo
	}
	return "WEB #" + o.ID
}
