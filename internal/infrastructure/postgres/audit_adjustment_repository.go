package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/jhoicas/lot-costing-api/internal/domain/repository"
)

var _ repository.AuditAdjustmentRepository = (*AuditAdjustmentRepo)(nil)

const auditColumns = `id, sku_id, lot_number, qty, cost, reason, created_at, created_by`

// AuditAdjustmentRepo ajustes de auditoría sobre PostgreSQL.
type AuditAdjustmentRepo struct {
	q Querier
}

// NewAuditAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditAdjustmentRepository(q Querier) *AuditAdjustmentRepo {
	return &AuditAdjustmentRepo{q: q}
}

func scanAudit(row pgx.Row) (entity.AuditAdjustment, error) {
	var a entity.AuditAdjustment
	var skuID string
	var createdBy *string
	err := row.Scan(&a.ID, &skuID, &a.LotNumber, &a.Qty, &a.Cost, &a.Reason, &a.CreatedAt, &createdBy)
	a.SKU = entity.RefID(skuID)
	a.CreatedBy = deref(createdBy)
	return a, err
}

func (r *AuditAdjustmentRepo) FindByLot(ctx context.Context, skuID, lot string) (*entity.AuditAdjustment, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_adjustments
		WHERE sku_id = $1 AND lot_number = $2 ORDER BY created_at, id LIMIT 1`
	a, err := scanAudit(r.q.QueryRow(ctx, query, skuID, lot))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find audit adjustment: %w", err)
	}
	return &a, nil
}

func (r *AuditAdjustmentRepo) ListByLots(ctx context.Context, lots []repository.LotRef) ([]entity.AuditAdjustment, error) {
	if len(lots) == 0 {
		return []entity.AuditAdjustment{}, nil
	}
	skus, numbers := lotArrays(lots)
	query := `SELECT ` + auditColumns + ` FROM audit_adjustments
		WHERE (sku_id, lot_number) IN (SELECT * FROM unnest($1::text[], $2::text[]))
		ORDER BY created_at, id`
	return r.list(ctx, query, skus, numbers)
}

func (r *AuditAdjustmentRepo) ListBySKUs(ctx context.Context, skuIDs []string, since *time.Time) ([]entity.AuditAdjustment, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_adjustments
		WHERE sku_id = ANY($1) AND ($2::timestamptz IS NULL OR created_at >= $2)
		ORDER BY created_at, id`
	return r.list(ctx, query, skuIDs, sinceArg(since))
}

func (r *AuditAdjustmentRepo) list(ctx context.Context, query string, args ...any) ([]entity.AuditAdjustment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit adjustments: %w", err)
	}
	defer rows.Close()
	out := make([]entity.AuditAdjustment, 0)
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit adjustment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
