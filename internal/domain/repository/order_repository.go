package repository

import (
	"context"
	"time"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SaleOrderRepository puerto de pedidos mayoristas.
type SaleOrderRepository interface {
	ListBySKUs(ctx context.Context, skuIDs []string, since *time.Time) ([]entity.SaleOrder, error)
	// UpdateLineCost reescribe la foto de costo de las líneas (sku, lote). Devuelve las líneas tocadas.
	UpdateLineCost(ctx context.Context, skuID, lot string, cost decimal.Decimal) (int64, error)
}

// WebOrderRepository puerto de pedidos web. refs incluye IDs de SKU y de variantes.
type WebOrderRepository interface {
	ListBySKUs(ctx context.Context, refs []string, since *time.Time) ([]entity.WebOrder, error)
}

// SettingsRepository ajustes globales de la aplicación.
type SettingsRepository interface {
	// FilterDataFrom fecha desde la cual se consideran transacciones; nil = sin filtro.
	FilterDataFrom(ctx context.Context) (*time.Time, error)
}
