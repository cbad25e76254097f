package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/jhoicas/lot-costing-api/internal/domain/repository"
)

var _ repository.SKURepository = (*SKURepo)(nil)

const skuColumns = `id, name, uom, category, sub_category, material_type, reorder_point, reorder_qty, variances, is_lot_applied`

// SKURepo catálogo de SKUs sobre PostgreSQL.
type SKURepo struct {
	q Querier
}

// NewSKURepository construye el adaptador. Pasar pool o tx (Querier).
func NewSKURepository(q Querier) *SKURepo {
	return &SKURepo{q: q}
}

func scanSKU(row pgx.Row) (entity.SKU, error) {
	var s entity.SKU
	err := row.Scan(&s.ID, &s.Name, &s.UOM, &s.Category, &s.SubCategory, &s.MaterialType,
		&s.ReorderPoint, &s.ReorderQty, &s.Variances, &s.IsLotApplied)
	return s, err
}

// GetByID obtiene un SKU por su código.
func (r *SKURepo) GetByID(ctx context.Context, id string) (*entity.SKU, error) {
	s, err := scanSKU(r.q.QueryRow(ctx, `SELECT `+skuColumns+` FROM skus WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sku: %w", err)
	}
	return &s, nil
}

// ListByIDs lista los SKUs existentes entre los IDs dados.
func (r *SKURepo) ListByIDs(ctx context.Context, ids []string) ([]entity.SKU, error) {
	if len(ids) == 0 {
		return []entity.SKU{}, nil
	}
	return r.list(ctx, `SELECT `+skuColumns+` FROM skus WHERE id = ANY($1) ORDER BY id`, ids)
}

// List todo el catálogo.
func (r *SKURepo) List(ctx context.Context) ([]entity.SKU, error) {
	return r.list(ctx, `SELECT `+skuColumns+` FROM skus ORDER BY id`)
}

func (r *SKURepo) list(ctx context.Context, query string, args ...any) ([]entity.SKU, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list skus: %w", err)
	}
	defer rows.Close()
	out := make([]entity.SKU, 0)
	for rows.Next() {
		s, err := scanSKU(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sku: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
