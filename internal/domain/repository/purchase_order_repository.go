package repository

import (
	"context"
	"time"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
)

// PurchaseOrderRepository puerto de lectura de órdenes de compra (líneas embebidas).
type PurchaseOrderRepository interface {
	// FindLineByLot busca la línea (sku, lote) sin importar el estado de la orden.
	FindLineByLot(ctx context.Context, skuID, lot string) (*entity.PurchaseOrderLine, error)
	// ListByLots órdenes con al menos una línea en lots, cualquier estado.
	ListByLots(ctx context.Context, lots []LotRef) ([]entity.PurchaseOrder, error)
	// ListBySKUs órdenes con líneas de los SKUs dados; since filtra por fecha de movimiento.
	ListBySKUs(ctx context.Context, skuIDs []string, since *time.Time) ([]entity.PurchaseOrder, error)
}
