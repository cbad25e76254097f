package repository

import (
	"context"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
)

// SKURepository puerto de lectura del catálogo. GetByID devuelve (nil, nil) si no existe.
type SKURepository interface {
	GetByID(ctx context.Context, id string) (*entity.SKU, error)
	ListByIDs(ctx context.Context, ids []string) ([]entity.SKU, error)
	List(ctx context.Context) ([]entity.SKU, error)
}
