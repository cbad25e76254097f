package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/jhoicas/lot-costing-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.SaleOrderRepository = (*SaleOrderRepo)(nil)
	_ repository.WebOrderRepository  = (*WebOrderRepo)(nil)
)

// SaleOrderRepo pedidos mayoristas con líneas en JSONB.
type SaleOrderRepo struct {
	q Querier
}

// NewSaleOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleOrderRepository(q Querier) *SaleOrderRepo {
	return &SaleOrderRepo{q: q}
}

func (r *SaleOrderRepo) ListBySKUs(ctx context.Context, skuIDs []string, since *time.Time) ([]entity.SaleOrder, error) {
	query := `
		SELECT id, label, customer, status, order_date, shipped_at, line_items FROM sale_orders so
		WHERE EXISTS (SELECT 1 FROM jsonb_array_elements(so.line_items) li WHERE li->>'sku' = ANY($1))
		  AND ($2::timestamptz IS NULL OR COALESCE(shipped_at, order_date) >= $2)
		ORDER BY order_date, id`
	rows, err := r.q.Query(ctx, query, skuIDs, sinceArg(since))
	if err != nil {
		return nil, fmt.Errorf("list sale orders: %w", err)
	}
	defer rows.Close()
	out := make([]entity.SaleOrder, 0)
	for rows.Next() {
		var so entity.SaleOrder
		if err := rows.Scan(&so.ID, &so.Label, &so.Customer, &so.Status, &so.OrderDate, &so.ShippedAt, &so.LineItems); err != nil {
			return nil, fmt.Errorf("scan sale order: %w", err)
		}
		out = append(out, so)
	}
	return out, rows.Err()
}

// UpdateLineCost reescribe la foto de costo de todas las líneas (sku, lote).
func (r *SaleOrderRepo) UpdateLineCost(ctx context.Context, skuID, lot string, cost decimal.Decimal) (int64, error) {
	const match = `li->>'sku' = $1 AND li->>'lotNumber' = $2`
	query := `
		UPDATE sale_orders so SET line_items = (
			SELECT jsonb_agg(CASE WHEN ` + match + ` THEN jsonb_set(li, '{cost}', to_jsonb($3::text)) ELSE li END ORDER BY ord)
			FROM jsonb_array_elements(so.line_items) WITH ORDINALITY AS t(li, ord))
		WHERE EXISTS (SELECT 1 FROM jsonb_array_elements(so.line_items) li WHERE ` + match + `)
		RETURNING (SELECT count(*) FROM jsonb_array_elements(so.line_items) li WHERE ` + match + `)`
	return sumReturning(ctx, r.q, query, skuID, lot, cost.String())
}

// WebOrderRepo pedidos web; las líneas pueden referenciar el SKU o una variante.
type WebOrderRepo struct {
	q Querier
}

// NewWebOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWebOrderRepository(q Querier) *WebOrderRepo {
	return &WebOrderRepo{q: q}
}

func (r *WebOrderRepo) ListBySKUs(ctx context.Context, refs []string, since *time.Time) ([]entity.WebOrder, error) {
	query := `
		SELECT id, order_no, order_date, line_items FROM web_orders wo
		WHERE EXISTS (SELECT 1 FROM jsonb_array_elements(wo.line_items) li
		              WHERE li->>'sku' = ANY($1) OR li->>'varianceId' = ANY($1))
		  AND ($2::timestamptz IS NULL OR order_date >= $2)
		ORDER BY order_date, id`
	rows, err := r.q.Query(ctx, query, refs, sinceArg(since))
	if err != nil {
		return nil, fmt.Errorf("list web orders: %w", err)
	}
	defer rows.Close()
	out := make([]entity.WebOrder, 0)
	for rows.Next() {
		var wo entity.WebOrder
		if err := rows.Scan(&wo.ID, &wo.OrderNo, &wo.OrderDate, &wo.LineItems); err != nil {
			return nil, fmt.Errorf("scan web order: %w", err)
		}
		out = append(out, wo)
	}
	return out, rows.Err()
}
