package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/jhoicas/lot-costing-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ── Órdenes de compra ────────────────────────────────────────────────────────

type purchaseRepo struct{ s *Store }

func (r purchaseRepo) FindLineByLot(_ context.Context, skuID, lot string) (*entity.PurchaseOrderLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, po := range r.s.orders {
		for _, line := range po.LineItems {
			if line.SKU.Matches(skuID) && line.LotNumber == lot {
				if line.Price != nil {
					p := *line.Price
					line.Price = &p
				}
				return &line, nil
			}
		}
	}
	return nil, nil
}

func (r purchaseRepo) ListByLots(_ context.Context, lots []repository.LotRef) ([]entity.PurchaseOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	set := lotSet(lots)
	out := make([]entity.PurchaseOrder, 0)
	for _, po := range r.s.orders {
		for _, line := range po.LineItems {
			if has(set, repository.LotRef{SKU: line.SKU.ID(), LotNumber: line.LotNumber}) {
				out = append(out, clonePurchase(po))
				break
			}
		}
	}
	return out, nil
}

func (r purchaseRepo) ListBySKUs(_ context.Context, skuIDs []string, since *time.Time) ([]entity.PurchaseOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	set := idSet(skuIDs)
	out := make([]entity.PurchaseOrder, 0)
	for _, po := range r.s.orders {
		if !after(since, po.MovementDate()) {
			continue
		}
		for _, line := range po.LineItems {
			if has(set, line.SKU.ID()) {
				out = append(out, clonePurchase(po))
				break
			}
		}
	}
	return out, nil
}

// ── Manufactura ──────────────────────────────────────────────────────────────

type jobRepo struct{ s *Store }

func (r jobRepo) GetByID(_ context.Context, id string) (*entity.ManufacturingJob, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, job := range r.s.jobs {
		if job.ID == id {
			c := cloneJob(job)
			return &c, nil
		}
	}
	return nil, nil
}

func (r jobRepo) FindByOutputLot(_ context.Context, skuID, lot string) (*entity.ManufacturingJob, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, job := range r.s.jobs {
		if job.SKU.Matches(skuID) && job.LotNumber == lot {
			c := cloneJob(job)
			return &c, nil
		}
	}
	for _, job := range r.s.jobs {
		if job.ProducesLot(skuID, lot) {
			c := cloneJob(job)
			return &c, nil
		}
	}
	return nil, nil
}

func (r jobRepo) ListBySKUs(_ context.Context, skuIDs []string, since *time.Time) ([]entity.ManufacturingJob, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	set := idSet(skuIDs)
	out := make([]entity.ManufacturingJob, 0)
	for _, job := range r.s.jobs {
		if !after(since, job.Date) {
			continue
		}
		match := has(set, job.SKU.ID())
		for _, line := range job.LineItems {
			match = match || has(set, line.SKU.ID())
		}
		if match {
			out = append(out, cloneJob(job))
		}
	}
	return out, nil
}

func (r jobRepo) ListBatch(_ context.Context, skip, limit int, ids []string) ([]entity.ManufacturingJob, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	set := idSet(ids)
	all := make([]entity.ManufacturingJob, 0, len(r.s.jobs))
	for _, job := range r.s.jobs {
		if len(ids) == 0 || has(set, job.ID) {
			all = append(all, cloneJob(job))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if skip >= len(all) {
		return []entity.ManufacturingJob{}, nil
	}
	end := len(all)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return all[skip:end], nil
}

func (r jobRepo) UpdateCosts(_ context.Context, jobs []entity.ManufacturingJob) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var errs []error
	written := 0
	for _, upd := range jobs {
		if err := r.s.FailJobUpdates[upd.ID]; err != nil {
			errs = append(errs, fmt.Errorf("update job %s: %w", upd.ID, err))
			continue
		}
		for i := range r.s.jobs {
			if r.s.jobs[i].ID != upd.ID {
				continue
			}
			c := cloneJob(upd)
			job := &r.s.jobs[i]
			job.MaterialCost, job.PackagingCost = c.MaterialCost, c.PackagingCost
			job.LaborCost, job.TotalCost = c.LaborCost, c.TotalCost
			job.LineItems = c.LineItems
			written++
			break
		}
	}
	return written, errors.Join(errs...)
}

func (r jobRepo) UpdateIngredientCost(_ context.Context, skuID, lot string, cost decimal.Decimal) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for i := range r.s.jobs {
		for j := range r.s.jobs[i].LineItems {
			line := &r.s.jobs[i].LineItems[j]
			if line.Cost != nil && line.SKU.Matches(skuID) && line.LotNumber == lot {
				c := cost
				line.Cost = &c
				n++
			}
		}
	}
	return n, nil
}

// ── Auditorías ───────────────────────────────────────────────────────────────

type auditRepo struct{ s *Store }

func (r auditRepo) FindByLot(_ context.Context, skuID, lot string) (*entity.AuditAdjustment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, adj := range r.s.audits {
		if adj.SKU.Matches(skuID) && adj.LotNumber == lot {
			return &adj, nil
		}
	}
	return nil, nil
}

func (r auditRepo) ListByLots(_ context.Context, lots []repository.LotRef) ([]entity.AuditAdjustment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	set := lotSet(lots)
	out := make([]entity.AuditAdjustment, 0)
	for _, adj := range r.s.audits {
		if has(set, repository.LotRef{SKU: adj.SKU.ID(), LotNumber: adj.LotNumber}) {
			out = append(out, adj)
		}
	}
	return out, nil
}

func (r auditRepo) ListBySKUs(_ context.Context, skuIDs []string, since *time.Time) ([]entity.AuditAdjustment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	set := idSet(skuIDs)
	out := make([]entity.AuditAdjustment, 0)
	for _, adj := range r.s.audits {
		if has(set, adj.SKU.ID()) && after(since, adj.CreatedAt) {
			out = append(out, adj)
		}
	}
	return out, nil
}

// ── Pedidos ──────────────────────────────────────────────────────────────────

type saleRepo struct{ s *Store }

func (r saleRepo) ListBySKUs(_ context.Context, skuIDs []string, since *time.Time) ([]entity.SaleOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	set := idSet(skuIDs)
	out := make([]entity.SaleOrder, 0)
	for _, so := range r.s.sales {
		if !after(since, so.MovementDate()) {
			continue
		}
		for _, line := range so.LineItems {
			if has(set, line.SKU.ID()) {
				out = append(out, cloneSale(so))
				break
			}
		}
	}
	return out, nil
}

func (r saleRepo) UpdateLineCost(_ context.Context, skuID, lot string, cost decimal.Decimal) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for i := range r.s.sales {
		for j := range r.s.sales[i].LineItems {
			line := &r.s.sales[i].LineItems[j]
			if line.SKU.Matches(skuID) && line.LotNumber == lot {
				line.Cost = cost
				n++
			}
		}
	}
	return n, nil
}

type webRepo struct{ s *Store }

func (r webRepo) ListBySKUs(_ context.Context, refs []string, since *time.Time) ([]entity.WebOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	set := idSet(refs)
	out := make([]entity.WebOrder, 0)
	for _, wo := range r.s.web {
		if !after(since, wo.OrderDate) {
			continue
		}
		for _, line := range wo.LineItems {
			if has(set, line.SKU.ID()) || (line.VarianceID != "" && has(set, line.VarianceID)) {
				out = append(out, cloneWeb(wo))
				break
			}
		}
	}
	return out, nil
}

// ── Ajustes ──────────────────────────────────────────────────────────────────

type settingsRepo struct{ s *Store }

func (r settingsRepo) FilterDataFrom(_ context.Context) (*time.Time, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.since == nil {
		return nil, nil
	}
	t := *r.s.since
	return &t, nil
}
