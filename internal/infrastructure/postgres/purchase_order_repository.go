package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/jhoicas/lot-costing-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const purchaseColumns = `id, label, status, order_date, received_at, line_items`

// PurchaseOrderRepo órdenes de compra con líneas en JSONB.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

func scanPurchaseOrder(row pgx.Row) (entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := row.Scan(&po.ID, &po.Label, &po.Status, &po.OrderDate, &po.ReceivedAt, &po.LineItems)
	return po, err
}

// FindLineByLot primera línea (sku, lote) sin importar el estado de la orden.
func (r *PurchaseOrderRepo) FindLineByLot(ctx context.Context, skuID, lot string) (*entity.PurchaseOrderLine, error) {
	query := `
		SELECT li FROM purchase_orders po, jsonb_array_elements(po.line_items) li
		WHERE li->>'sku' = $1 AND li->>'lotNumber' = $2
		ORDER BY po.order_date, po.id LIMIT 1`
	var line entity.PurchaseOrderLine
	if err := r.q.QueryRow(ctx, query, skuID, lot).Scan(&line); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find purchase order line: %w", err)
	}
	return &line, nil
}

func (r *PurchaseOrderRepo) ListByLots(ctx context.Context, lots []repository.LotRef) ([]entity.PurchaseOrder, error) {
	if len(lots) == 0 {
		return []entity.PurchaseOrder{}, nil
	}
	skus, numbers := lotArrays(lots)
	query := `SELECT ` + purchaseColumns + ` FROM purchase_orders po
		WHERE EXISTS (
			SELECT 1 FROM jsonb_array_elements(po.line_items) li
			WHERE (li->>'sku', li->>'lotNumber') IN (SELECT * FROM unnest($1::text[], $2::text[])))
		ORDER BY order_date, id`
	return r.list(ctx, query, skus, numbers)
}

func (r *PurchaseOrderRepo) ListBySKUs(ctx context.Context, skuIDs []string, since *time.Time) ([]entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchase_orders po
		WHERE EXISTS (SELECT 1 FROM jsonb_array_elements(po.line_items) li WHERE li->>'sku' = ANY($1))
		  AND ($2::timestamptz IS NULL OR COALESCE(received_at, order_date) >= $2)
		ORDER BY order_date, id`
	return r.list(ctx, query, skuIDs, sinceArg(since))
}

func (r *PurchaseOrderRepo) list(ctx context.Context, query string, args ...any) ([]entity.PurchaseOrder, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	out := make([]entity.PurchaseOrder, 0)
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		out = append(out, po)
	}
	return out, rows.Err()
}
