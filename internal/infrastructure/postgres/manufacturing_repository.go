package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/jhoicas/lot-costing-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var _ repository.ManufacturingRepository = (*ManufacturingRepo)(nil)

const jobColumns = `id, label, sku_id, lot_number, qty, qty_difference, status, date, line_items, labor,
	material_cost, packaging_cost, labor_cost, total_cost`

// writeConcurrency escrituras simultáneas de UpdateCosts cuando el Querier es el pool.
const writeConcurrency = 8

// ManufacturingRepo órdenes de manufactura con ingredientes y mano de obra en JSONB.
type ManufacturingRepo struct {
	q Querier
}

// NewManufacturingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewManufacturingRepository(q Querier) *ManufacturingRepo {
	return &ManufacturingRepo{q: q}
}

func scanJob(row pgx.Row) (entity.ManufacturingJob, error) {
	var j entity.ManufacturingJob
	var skuID string
	err := row.Scan(&j.ID, &j.Label, &skuID, &j.LotNumber, &j.Qty, &j.QtyDifference, &j.Status, &j.Date,
		&j.LineItems, &j.Labor, &j.MaterialCost, &j.PackagingCost, &j.LaborCost, &j.TotalCost)
	j.SKU = entity.RefID(skuID)
	return j, err
}

func (r *ManufacturingRepo) GetByID(ctx context.Context, id string) (*entity.ManufacturingJob, error) {
	j, err := scanJob(r.q.QueryRow(ctx, `SELECT `+jobColumns+` FROM manufacturing_jobs WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get manufacturing job: %w", err)
	}
	return &j, nil
}

// FindByOutputLot prioriza coincidencia por lot_number sobre la de label.
func (r *ManufacturingRepo) FindByOutputLot(ctx context.Context, skuID, lot string) (*entity.ManufacturingJob, error) {
	query := `SELECT ` + jobColumns + ` FROM manufacturing_jobs
		WHERE sku_id = $1 AND (lot_number = $2 OR label = $2)
		ORDER BY (lot_number = $2) DESC, date, id LIMIT 1`
	j, err := scanJob(r.q.QueryRow(ctx, query, skuID, lot))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find job by output lot: %w", err)
	}
	return &j, nil
}

func (r *ManufacturingRepo) ListBySKUs(ctx context.Context, skuIDs []string, since *time.Time) ([]entity.ManufacturingJob, error) {
	query := `SELECT ` + jobColumns + ` FROM manufacturing_jobs mj
		WHERE (sku_id = ANY($1)
		       OR EXISTS (SELECT 1 FROM jsonb_array_elements(mj.line_items) li WHERE li->>'sku' = ANY($1)))
		  AND ($2::timestamptz IS NULL OR date >= $2)
		ORDER BY date, id`
	return r.list(ctx, query, skuIDs, sinceArg(since))
}

func (r *ManufacturingRepo) ListBatch(ctx context.Context, skip, limit int, ids []string) ([]entity.ManufacturingJob, error) {
	query := `SELECT ` + jobColumns + ` FROM manufacturing_jobs
		WHERE (cardinality($1::text[]) = 0 OR id = ANY($1))
		ORDER BY id OFFSET $2 LIMIT $3`
	if ids == nil {
		ids = []string{}
	}
	return r.list(ctx, query, ids, skip, limit)
}

// UpdateCosts escribe cada orden en su propia sentencia; un fallo no afecta a las demás.
// Sobre el pool las sentencias van en paralelo; dentro de una tx, en serie.
func (r *ManufacturingRepo) UpdateCosts(ctx context.Context, jobs []entity.ManufacturingJob) (int, error) {
	const query = `UPDATE manufacturing_jobs
		SET material_cost = $2, packaging_cost = $3, labor_cost = $4, total_cost = $5, line_items = $6
		WHERE id = $1`

	var written atomic.Int64
	errs := make([]error, len(jobs))
	update := func(i int) {
		j := jobs[i]
		tag, err := r.q.Exec(ctx, query, j.ID, j.MaterialCost, j.PackagingCost, j.LaborCost, j.TotalCost, j.LineItems)
		switch {
		case err != nil:
			errs[i] = fmt.Errorf("update job %s: %w", j.ID, err)
		case tag.RowsAffected() == 0:
			errs[i] = fmt.Errorf("update job %s: no existe", j.ID)
		default:
			written.Add(1)
		}
	}

	if _, ok := r.q.(*pgxpool.Pool); ok {
		var g errgroup.Group
		g.SetLimit(writeConcurrency)
		for i := range jobs {
			g.Go(func() error { update(i); return nil })
		}
		_ = g.Wait()
	} else {
		for i := range jobs {
			update(i)
		}
	}
	return int(written.Load()), errors.Join(errs...)
}

// UpdateIngredientCost reescribe "cost" solo en líneas que ya lo traen (override explícito).
func (r *ManufacturingRepo) UpdateIngredientCost(ctx context.Context, skuID, lot string, cost decimal.Decimal) (int64, error) {
	const match = `li->>'sku' = $1 AND li->>'lotNumber' = $2 AND li->'cost' IS NOT NULL AND li->'cost' <> 'null'::jsonb`
	query := `
		UPDATE manufacturing_jobs mj SET line_items = (
			SELECT jsonb_agg(CASE WHEN ` + match + ` THEN jsonb_set(li, '{cost}', to_jsonb($3::text)) ELSE li END ORDER BY ord)
			FROM jsonb_array_elements(mj.line_items) WITH ORDINALITY AS t(li, ord))
		WHERE EXISTS (SELECT 1 FROM jsonb_array_elements(mj.line_items) li WHERE ` + match + `)
		RETURNING (SELECT count(*) FROM jsonb_array_elements(mj.line_items) li WHERE ` + match + `)`
	return sumReturning(ctx, r.q, query, skuID, lot, cost.String())
}

func (r *ManufacturingRepo) list(ctx context.Context, query string, args ...any) ([]entity.ManufacturingJob, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list manufacturing jobs: %w", err)
	}
	defer rows.Close()
	out := make([]entity.ManufacturingJob, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan manufacturing job: %w", err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// sumReturning ejecuta un UPDATE ... RETURNING count y suma las líneas tocadas.
func sumReturning(ctx context.Context, q Querier, query string, args ...any) (int64, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update line cost: %w", err)
	}
	defer rows.Close()
	var total int64
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("scan touched lines: %w", err)
		}
		total += n
	}
	return total, rows.Err()
}
