package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/lot-costing-api/internal/domain"
	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/jhoicas/lot-costing-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.OpeningBalanceRepository = (*OpeningBalanceRepo)(nil)

const openingColumns = `id, sku_id, lot_number, qty, cost, uom, created_at, created_by`

// OpeningBalanceRepo saldos iniciales sobre PostgreSQL.
type OpeningBalanceRepo struct {
	q Querier
}

// NewOpeningBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOpeningBalanceRepository(q Querier) *OpeningBalanceRepo {
	return &OpeningBalanceRepo{q: q}
}

func scanOpening(row pgx.Row) (entity.OpeningBalance, error) {
	var ob entity.OpeningBalance
	var skuID string
	var createdBy *string
	err := row.Scan(&ob.ID, &skuID, &ob.LotNumber, &ob.Qty, &ob.Cost, &ob.UOM, &ob.CreatedAt, &createdBy)
	ob.SKU = entity.RefID(skuID)
	ob.CreatedBy = deref(createdBy)
	return ob, err
}

func (r *OpeningBalanceRepo) GetByID(ctx context.Context, id string) (*entity.OpeningBalance, error) {
	ob, err := scanOpening(r.q.QueryRow(ctx, `SELECT `+openingColumns+` FROM opening_balances WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get opening balance: %w", err)
	}
	return &ob, nil
}

// FindByLot primer saldo inicial registrado para el lote.
func (r *OpeningBalanceRepo) FindByLot(ctx context.Context, skuID, lot string) (*entity.OpeningBalance, error) {
	query := `SELECT ` + openingColumns + ` FROM opening_balances
		WHERE sku_id = $1 AND lot_number = $2 ORDER BY created_at, id LIMIT 1`
	ob, err := scanOpening(r.q.QueryRow(ctx, query, skuID, lot))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find opening balance: %w", err)
	}
	return &ob, nil
}

func (r *OpeningBalanceRepo) ListByLots(ctx context.Context, lots []repository.LotRef) ([]entity.OpeningBalance, error) {
	if len(lots) == 0 {
		return []entity.OpeningBalance{}, nil
	}
	skus, numbers := lotArrays(lots)
	query := `SELECT ` + openingColumns + ` FROM opening_balances
		WHERE (sku_id, lot_number) IN (SELECT * FROM unnest($1::text[], $2::text[]))
		ORDER BY created_at, id`
	return r.list(ctx, query, skus, numbers)
}

func (r *OpeningBalanceRepo) ListBySKUs(ctx context.Context, skuIDs []string, since *time.Time) ([]entity.OpeningBalance, error) {
	query := `SELECT ` + openingColumns + ` FROM opening_balances
		WHERE sku_id = ANY($1) AND ($2::timestamptz IS NULL OR created_at >= $2)
		ORDER BY created_at, id`
	return r.list(ctx, query, skuIDs, sinceArg(since))
}

func (r *OpeningBalanceRepo) UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE opening_balances SET cost = $2 WHERE id = $1`, id, cost)
	if err != nil {
		return fmt.Errorf("update opening balance cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OpeningBalanceRepo) list(ctx context.Context, query string, args ...any) ([]entity.OpeningBalance, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list opening balances: %w", err)
	}
	defer rows.Close()
	out := make([]entity.OpeningBalance, 0)
	for rows.Next() {
		ob, err := scanOpening(rows)
		if err != nil {
			return nil, fmt.Errorf("scan opening balance: %w", err)
		}
		out = append(out, ob)
	}
	return out, rows.Err()
}
