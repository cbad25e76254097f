package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del kardex por SKU.
const (
	TxTypeOpening       = "Opening"
	TxTypePurchaseOrder = "Purchase Order"
	TxTypeProduced      = "Produced"
	TxTypeConsumption   = "Consumption"
	TxTypeOrders        = "Orders"
	TxTypeAudit         = "Audit"
	TxTypeWebOrder      = "Web Order"
)

// Etiquetas de origen de un lote (saldo por lote).
const (
	LotSourceOpening       = "Opening Balance"
	LotSourceManufacturing = "Manufacturing"
	LotSourceAudit         = "Audit Adjustment"
)

// Transaction una fila del kardex. Balance es solo de presentación: se recalcula en cada lectura.
type Transaction struct {
	Date      time.Time       `json:"date"`
	Type      string          `json:"type"`
	Reference string          `json:"reference"`
	LotNumber string          `json:"lot_number"`
	Quantity  decimal.Decimal `json:"quantity"`
	UOM       string          `json:"uom"`
	Cost      decimal.Decimal `json:"cost"`
	DocID     string          `json:"doc_id"`
	Link      string          `json:"link"`
	Balance   decimal.Decimal `json:"balance"`
}

// LotBalance saldo derivado de un lote. Nunca se persiste.
type LotBalance struct {
	LotNumber string          `json:"lot_number"`
	Balance   decimal.Decimal `json:"balance"`
	Source    string          `json:"source"`
	Date      time.Time       `json:"date"`
}
