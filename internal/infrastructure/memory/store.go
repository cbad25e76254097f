// Package memory implementa los repositorios de costeo sobre mapas en memoria.
// Se usa en pruebas y en modo demo cuando no hay DATABASE_URL.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/lot-costing-api/internal/domain"
	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/jhoicas/lot-costing-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Store guarda cada colección en orden de inserción.
type Store struct {
	mu       sync.RWMutex
	skus     map[string]entity.SKU
	openings []entity.OpeningBalance
	orders   []entity.PurchaseOrder
	jobs     []entity.ManufacturingJob
	audits   []entity.AuditAdjustment
	sales    []entity.SaleOrder
	web      []entity.WebOrder
	since    *time.Time

	// FailJobUpdates simula fallos de escritura para esos IDs de orden.
	FailJobUpdates map[string]error
}

// New crea un store vacío.
func New() *Store {
	return &Store{skus: make(map[string]entity.SKU)}
}

// ── Carga ────────────────────────────────────────────────────────────────────

func (s *Store) PutSKU(v ...entity.SKU) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sku := range v {
		s.skus[sku.ID] = sku
	}
}

func (s *Store) PutOpeningBalance(v ...entity.OpeningBalance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openings = append(s.openings, v...)
}

func (s *Store) PutPurchaseOrder(v ...entity.PurchaseOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, po := range v {
		s.orders = append(s.orders, clonePurchase(po))
	}
}

func (s *Store) PutManufacturingJob(v ...entity.ManufacturingJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range v {
		s.jobs = append(s.jobs, cloneJob(job))
	}
}

func (s *Store) PutAuditAdjustment(v ...entity.AuditAdjustment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits = append(s.audits, v...)
}

func (s *Store) PutSaleOrder(v ...entity.SaleOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, so := range v {
		s.sales = append(s.sales, cloneSale(so))
	}
}

func (s *Store) PutWebOrder(v ...entity.WebOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, wo := range v {
		s.web = append(s.web, cloneWeb(wo))
	}
}

// SetFilterDataFrom fija el ajuste global "filtrar datos desde".
func (s *Store) SetFilterDataFrom(t *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.since = t
}

// ── Vistas por repositorio ───────────────────────────────────────────────────

func (s *Store) SKUs() repository.SKURepository                         { return skuRepo{s} }
func (s *Store) OpeningBalances() repository.OpeningBalanceRepository   { return openingRepo{s} }
func (s *Store) PurchaseOrders() repository.PurchaseOrderRepository     { return purchaseRepo{s} }
func (s *Store) Manufacturing() repository.ManufacturingRepository      { return jobRepo{s} }
func (s *Store) AuditAdjustments() repository.AuditAdjustmentRepository { return auditRepo{s} }
func (s *Store) SaleOrders() repository.SaleOrderRepository             { return saleRepo{s} }
func (s *Store) WebOrders() repository.WebOrderRepository               { return webRepo{s} }
func (s *Store) Settings() repository.SettingsRepository                { return settingsRepo{s} }

// Run ejecuta fn con los repositorios de escritura. En memoria no hay rollback.
func (s *Store) Run(ctx context.Context, fn func(sales repository.SaleOrderRepository, jobs repository.ManufacturingRepository) error) error {
	return fn(saleRepo{s}, jobRepo{s})
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func cloneJob(job entity.ManufacturingJob) entity.ManufacturingJob {
	lines := make([]entity.ManufacturingLine, len(job.LineItems))
	for i, l := range job.LineItems {
		if l.Cost != nil {
			c := *l.Cost
			l.Cost = &c
		}
		lines[i] = l
	}
	job.LineItems = lines
	job.Labor = slices.Clone(job.Labor)
	return job
}

// Los documentos salen del store con sus propias líneas: UpdateLineCost escribe
// sobre las del store bajo el candado de escritura.
func clonePurchase(po entity.PurchaseOrder) entity.PurchaseOrder {
	lines := make([]entity.PurchaseOrderLine, len(po.LineItems))
	for i, l := range po.LineItems {
		if l.Price != nil {
			p := *l.Price
			l.Price = &p
		}
		lines[i] = l
	}
	po.LineItems = lines
	return po
}

func cloneSale(so entity.SaleOrder) entity.SaleOrder {
	so.LineItems = slices.Clone(so.LineItems)
	return so
}

func cloneWeb(wo entity.WebOrder) entity.WebOrder {
	wo.LineItems = slices.Clone(wo.LineItems)
	return wo
}

func after(since *time.Time, date time.Time) bool {
	return since == nil || !date.Before(*since)
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func lotSet(lots []repository.LotRef) map[repository.LotRef]struct{} {
	set := make(map[repository.LotRef]struct{}, len(lots))
	for _, l := range lots {
		set[l] = struct{}{}
	}
	return set
}

func has[K comparable](set map[K]struct{}, k K) bool {
	_, ok := set[k]
	return ok
}

// ── SKUs ─────────────────────────────────────────────────────────────────────

type skuRepo struct{ s *Store }

func (r skuRepo) GetByID(_ context.Context, id string) (*entity.SKU, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sku, ok := r.s.skus[id]
	if !ok {
		return nil, nil
	}
	return &sku, nil
}

func (r skuRepo) ListByIDs(_ context.Context, ids []string) ([]entity.SKU, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.SKU, 0, len(ids))
	for _, id := range ids {
		if sku, ok := r.s.skus[id]; ok {
			out = append(out, sku)
		}
	}
	return out, nil
}

func (r skuRepo) List(_ context.Context) ([]entity.SKU, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.SKU, 0, len(r.s.skus))
	for _, sku := range r.s.skus {
		out = append(out, sku)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── Saldos iniciales ─────────────────────────────────────────────────────────

type openingRepo struct{ s *Store }

func (r openingRepo) GetByID(_ context.Context, id string) (*entity.OpeningBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, ob := range r.s.openings {
		if ob.ID == id {
			return &ob, nil
		}
	}
	return nil, nil
}

func (r openingRepo) FindByLot(_ context.Context, skuID, lot string) (*entity.OpeningBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, ob := range r.s.openings {
		if ob.SKU.Matches(skuID) && ob.LotNumber == lot {
			return &ob, nil
		}
	}
	return nil, nil
}

func (r openingRepo) ListByLots(_ context.Context, lots []repository.LotRef) ([]entity.OpeningBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	set := lotSet(lots)
	out := make([]entity.OpeningBalance, 0)
	for _, ob := range r.s.openings {
		if has(set, repository.LotRef{SKU: ob.SKU.ID(), LotNumber: ob.LotNumber}) {
			out = append(out, ob)
		}
	}
	return out, nil
}

func (r openingRepo) ListBySKUs(_ context.Context, skuIDs []string, since *time.Time) ([]entity.OpeningBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	set := idSet(skuIDs)
	out := make([]entity.OpeningBalance, 0)
	for _, ob := range r.s.openings {
		if has(set, ob.SKU.ID()) && after(since, ob.CreatedAt) {
			out = append(out, ob)
		}
	}
	return out, nil
}

func (r openingRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.openings {
		if r.s.openings[i].ID == id {
			r.s.openings[i].Cost = cost
			return nil
		}
	}
	return fmt.Errorf("opening balance %s: %w", id, domain.ErrNotFound)
}
