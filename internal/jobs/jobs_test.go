package jobs_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lot-costing-api/internal/application/inventory"
	"github.com/jhoicas/lot-costing-api/internal/domain"
	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/jhoicas/lot-costing-api/internal/infrastructure/memory"
	"github.com/jhoicas/lot-costing-api/internal/jobs"
	"github.com/jhoicas/lot-costing-api/pkg/logger"
)

type recorder struct {
	tasks []*asynq.Task
	err   error
}

func (r *recorder) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.tasks = append(r.tasks, task)
	return &asynq.TaskInfo{ID: fmt.Sprintf("t%d", len(r.tasks)), Type: task.Type()}, nil
}

type busyLocker struct{}

func (busyLocker) Obtain(context.Context, string, time.Duration) (inventory.Lock, error) {
	return nil, domain.ErrLocked
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func repos(s *memory.Store) inventory.Repositories {
	return inventory.Repositories{
		SKUs:            s.SKUs(),
		OpeningBalances: s.OpeningBalances(),
		PurchaseOrders:  s.PurchaseOrders(),
		Manufacturing:   s.Manufacturing(),
		Audits:          s.AuditAdjustments(),
		SaleOrders:      s.SaleOrders(),
		WebOrders:       s.WebOrders(),
		Settings:        s.Settings(),
	}
}

func store() *memory.Store {
	s := memory.New()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s.PutSKU(entity.SKU{ID: "ING", Category: "Raw"}, entity.SKU{ID: "OUT", Category: "Finished"})
	s.PutOpeningBalance(entity.OpeningBalance{ID: "ob", SKU: entity.RefID("ING"), LotNumber: "L1", Qty: dec("50"), Cost: dec("2"), CreatedAt: day})
	s.PutSaleOrder(entity.SaleOrder{ID: "so", OrderDate: day, LineItems: []entity.SaleOrderLine{
		{SKU: entity.RefID("ING"), LotNumber: "L1", QtyShipped: dec("1"), Cost: dec("1")},
	}})
	for i := 1; i <= 3; i++ {
		s.PutManufacturingJob(entity.ManufacturingJob{
			ID: fmt.Sprintf("job-%d", i), SKU: entity.RefID("OUT"), LotNumber: fmt.Sprintf("O%d", i), Qty: dec("1"), Date: day,
			LineItems: []entity.ManufacturingLine{{SKU: entity.RefID("ING"), LotNumber: "L1", RecipeQty: dec("1"), SA: dec("100")}},
		})
	}
	return s
}

func handlers(s *memory.Store, locker inventory.Locker, rec *recorder) *jobs.Handlers {
	opts := inventory.Options{SyncBatchLimit: 2}
	prop := inventory.NewPropagationUseCase(s, nil, locker, opts, logger.Nop())
	sync := inventory.NewSyncUseCase(repos(s), nil, opts, logger.Nop())
	var client *jobs.Client
	if rec != nil {
		client = jobs.NewClientWith(rec)
	}
	return jobs.NewHandlers(prop, sync, client, logger.Nop())
}

func TestClient_PublishCostChange(t *testing.T) {
	rec := &recorder{}
	c := jobs.NewClientWith(rec)
	change := inventory.CostChange{SKU: "ING", LotNumber: "L1", Cost: dec("4.5"), RequestedAt: time.Unix(100, 0)}

	id, err := c.PublishCostChange(context.Background(), change)
	require.NoError(t, err)
	assert.Equal(t, "t1", id)
	require.Len(t, rec.tasks, 1)
	assert.Equal(t, jobs.TaskPropagateCost, rec.tasks[0].Type())

	var got inventory.CostChange
	require.NoError(t, json.Unmarshal(rec.tasks[0].Payload(), &got))
	assert.Equal(t, "L1", got.LotNumber)
	assert.True(t, got.Cost.Equal(dec("4.5")))
}

func TestClient_DuplicateChangeIsNotAnError(t *testing.T) {
	c := jobs.NewClientWith(&recorder{err: asynq.ErrTaskIDConflict})
	_, err := c.PublishCostChange(context.Background(), inventory.CostChange{SKU: "ING", LotNumber: "L1"})
	assert.NoError(t, err)

	c = jobs.NewClientWith(&recorder{err: errors.New("redis down")})
	_, err = c.PublishCostChange(context.Background(), inventory.CostChange{SKU: "ING", LotNumber: "L1"})
	assert.Error(t, err)
}

func TestHandlePropagateCost_AppliesChange(t *testing.T) {
	s := store()
	h := handlers(s, nil, nil)
	task, err := jobs.NewPropagateCostTask(inventory.CostChange{SKU: "ING", LotNumber: "L1", Cost: dec("3")})
	require.NoError(t, err)

	require.NoError(t, h.HandlePropagateCost(context.Background(), task))

	orders, err := s.SaleOrders().ListBySKUs(context.Background(), []string{"ING"}, nil)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].LineItems[0].Cost.Equal(dec("3")))
}

func TestHandlePropagateCost_InvalidPayloadSkipsRetry(t *testing.T) {
	h := handlers(store(), nil, nil)
	err := h.HandlePropagateCost(context.Background(), asynq.NewTask(jobs.TaskPropagateCost, []byte(`{"sku":""}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandlePropagateCost_LockedIsRetried(t *testing.T) {
	h := handlers(store(), busyLocker{}, nil)
	task, _ := jobs.NewPropagateCostTask(inventory.CostChange{SKU: "ING", LotNumber: "L1", Cost: dec("3")})
	err := h.HandlePropagateCost(context.Background(), task)
	assert.ErrorIs(t, err, domain.ErrLocked)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleSyncManufacturing_EnqueuesNextPage(t *testing.T) {
	s := store()
	rec := &recorder{}
	h := handlers(s, nil, rec)
	task, err := jobs.NewSyncTask(jobs.SyncPayload{Limit: 2})
	require.NoError(t, err)

	require.NoError(t, h.HandleSyncManufacturing(context.Background(), task))
	require.Len(t, rec.tasks, 1)
	var next jobs.SyncPayload
	require.NoError(t, json.Unmarshal(rec.tasks[0].Payload(), &next))
	assert.Equal(t, 2, next.Skip)
	assert.Equal(t, 2, next.Limit)

	// la última página (1 orden < límite) no encola nada más
	require.NoError(t, h.HandleSyncManufacturing(context.Background(), rec.tasks[0]))
	assert.Len(t, rec.tasks, 1)

	job, err := s.Manufacturing().GetByID(context.Background(), "job-3")
	require.NoError(t, err)
	assert.True(t, job.TotalCost.Equal(dec("2")), "total %s", job.TotalCost)
}

func TestHandleSyncManufacturing_ExplicitOrdersDoNotPage(t *testing.T) {
	rec := &recorder{}
	h := handlers(store(), nil, rec)
	task, _ := jobs.NewSyncTask(jobs.SyncPayload{Limit: 1, OrderIDs: []string{"job-1"}})
	require.NoError(t, h.HandleSyncManufacturing(context.Background(), task))
	assert.Empty(t, rec.tasks)
}
