package repository

import (
	"context"
	"time"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ManufacturingRepository puerto de persistencia de órdenes de manufactura.
type ManufacturingRepository interface {
	GetByID(ctx context.Context, id string) (*entity.ManufacturingJob, error)
	// FindByOutputLot orden que produce (sku, lote), buscando por lotNumber y luego por label.
	FindByOutputLot(ctx context.Context, skuID, lot string) (*entity.ManufacturingJob, error)
	// ListBySKUs órdenes que producen o consumen alguno de los SKUs.
	ListBySKUs(ctx context.Context, skuIDs []string, since *time.Time) ([]entity.ManufacturingJob, error)
	// ListBatch página estable ordenada por id. ids, si no es vacío, restringe la página.
	ListBatch(ctx context.Context, skip, limit int, ids []string) ([]entity.ManufacturingJob, error)
	// UpdateCosts persiste totales y líneas de cada orden de forma independiente;
	// devuelve cuántas se escribieron y el error agregado de las que fallaron.
	UpdateCosts(ctx context.Context, jobs []entity.ManufacturingJob) (int, error)
	// UpdateIngredientCost reescribe el override de las líneas (sku, lote) que ya tienen costo explícito.
	UpdateIngredientCost(ctx context.Context, skuID, lot string, cost decimal.Decimal) (int64, error)
}
