package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lot-costing-api/internal/application/dto"
	"github.com/jhoicas/lot-costing-api/internal/application/inventory"
	"github.com/jhoicas/lot-costing-api/internal/domain"
	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/jhoicas/lot-costing-api/internal/infrastructure/memory"
	"github.com/jhoicas/lot-costing-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/lot-costing-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/lot-costing-api/pkg/jwt"
	"github.com/jhoicas/lot-costing-api/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type busyLocker struct{}

func (busyLocker) Obtain(context.Context, string, time.Duration) (inventory.Lock, error) {
	return nil, domain.ErrLocked
}

// widgetStore WIDGET a 2.00 por saldo inicial; la orden 1001 produce 10 GADGET con 1h a 15/h.
func widgetStore() *memory.Store {
	s := memory.New()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s.PutSKU(
		entity.SKU{ID: "WIDGET", Name: "Widget", UOM: "un", Category: "Raw Material"},
		entity.SKU{ID: "GADGET", Name: "Gadget", UOM: "un", Category: "Finished Good"},
	)
	s.PutOpeningBalance(entity.OpeningBalance{
		ID: "ob-1", SKU: entity.RefID("WIDGET"), LotNumber: "LOT-A", Qty: dec("100"), Cost: dec("2.00"), CreatedAt: day,
	})
	s.PutManufacturingJob(entity.ManufacturingJob{
		ID: "job-1", Label: "1001", SKU: entity.RefID("GADGET"), LotNumber: "G-1", Qty: dec("10"), Date: day.AddDate(0, 0, 2),
		LineItems: []entity.ManufacturingLine{{SKU: entity.RefID("WIDGET"), LotNumber: "LOT-A", RecipeQty: dec("1"), SA: dec("100")}},
		Labor:     []entity.LaborEntry{{Duration: "1:00:00", HourlyRate: dec("15")}},
	})
	s.PutSaleOrder(entity.SaleOrder{ID: "so-1", Label: "500", OrderDate: day.AddDate(0, 0, 3), LineItems: []entity.SaleOrderLine{
		{SKU: entity.RefID("WIDGET"), LotNumber: "LOT-A", QtyShipped: dec("5"), Cost: dec("2")},
	}})
	return s
}

func newApp(s *memory.Store, locker inventory.Locker) *fiber.App {
	repos := inventory.Repositories{
		SKUs:            s.SKUs(),
		OpeningBalances: s.OpeningBalances(),
		PurchaseOrders:  s.PurchaseOrders(),
		Manufacturing:   s.Manufacturing(),
		Audits:          s.AuditAdjustments(),
		SaleOrders:      s.SaleOrders(),
		WebOrders:       s.WebOrders(),
		Settings:        s.Settings(),
	}
	opts := inventory.Options{SyncBatchLimit: 50}
	log := logger.Nop()
	resolver := inventory.NewResolverUseCase(repos, opts)
	jobCost := inventory.NewJobCostUseCase(repos, resolver)
	prop := inventory.NewPropagationUseCase(s, nil, locker, opts, log)

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		JWTSecret: testJWTSecret,
		Costing: apphttp.CostingDeps{
			Resolver:    resolver,
			JobCost:     jobCost,
			Lots:        inventory.NewLotBalanceUseCase(repos),
			Ledger:      inventory.NewLedgerUseCase(repos, resolver, jobCost),
			Tiers:       inventory.NewTieringUseCase(repos),
			Propagation: prop,
			Openings:    inventory.NewOpeningBalanceUseCase(repos.OpeningBalances, prop),
			Sync:        inventory.NewSyncUseCase(repos, locker, opts, log),
			Renderers:   []inventory.LedgerRenderer{xlsx.NewLedgerXLSX()},
		},
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestCosting_LotCost(t *testing.T) {
	app := newApp(widgetStore(), nil)

	resp := call(t, app, http.MethodGet, "/api/costing/lot-cost?sku=GADGET&lot=G-1", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.LotCostResponse](t, resp)
	assert.True(t, got.Cost.Equal(dec("3.5")), "cost %s", got.Cost)
	assert.Equal(t, "manufacturing", got.Source)

	resp = call(t, app, http.MethodGet, "/api/costing/lot-cost?sku=GADGET", pkgjwt.RoleViewer, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCosting_JobCostAndNotFound(t *testing.T) {
	app := newApp(widgetStore(), nil)

	resp := call(t, app, http.MethodGet, "/api/costing/manufacturing/job-1/cost", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.JobCostResponse](t, resp)
	assert.True(t, got.TotalCost.Equal(dec("35")))
	assert.True(t, got.PerUnitCost.Equal(dec("3.5")))

	resp = call(t, app, http.MethodGet, "/api/costing/manufacturing/nope/cost", pkgjwt.RoleViewer, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCosting_AvailableLots(t *testing.T) {
	app := newApp(widgetStore(), nil)

	resp := call(t, app, http.MethodGet, "/api/costing/skus/WIDGET/lots", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lots := decode[[]entity.LotBalance](t, resp)
	require.Len(t, lots, 1)
	assert.Equal(t, "LOT-A", lots[0].LotNumber)
	assert.True(t, lots[0].Balance.Equal(dec("94")), "balance %s", lots[0].Balance)

	resp = call(t, app, http.MethodGet, "/api/costing/skus/WIDGET/lots?order=random", pkgjwt.RoleViewer, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/costing/lots/available", pkgjwt.RoleViewer, dto.AvailableLotsRequest{SKUs: []string{"WIDGET", "GADGET"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	many := decode[dto.AvailableLotsResponse](t, resp)
	assert.Len(t, many.Lots["WIDGET"], 1)
	assert.Len(t, many.Lots["GADGET"], 1)

	resp = call(t, app, http.MethodPost, "/api/costing/lots/available", pkgjwt.RoleViewer, dto.AvailableLotsRequest{})
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION")
}

func TestCosting_LedgerAndExport(t *testing.T) {
	app := newApp(widgetStore(), nil)

	resp := call(t, app, http.MethodGet, "/api/costing/skus/WIDGET/ledger", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ledger := decode[dto.LedgerResult](t, resp)
	require.Len(t, ledger.Transactions, 3)
	last := ledger.Transactions[len(ledger.Transactions)-1]
	assert.True(t, last.Balance.Equal(dec("85")), "balance %s", last.Balance)

	resp = call(t, app, http.MethodGet, "/api/costing/skus/WIDGET/ledger.xlsx", pkgjwt.RoleViewer, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/vnd.openxmlformats"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "kardex-WIDGET.xlsx")

	resp = call(t, app, http.MethodGet, "/api/costing/skus/WIDGET/ledger.pdf", pkgjwt.RoleViewer, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/costing/skus/NOPE/ledger", pkgjwt.RoleViewer, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/costing/skus/WIDGET/ledger?start=ayer", pkgjwt.RoleViewer, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCosting_Tiers(t *testing.T) {
	app := newApp(widgetStore(), nil)

	resp := call(t, app, http.MethodGet, "/api/costing/tiers?skus=WIDGET", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tiers := decode[[]dto.TierDTO](t, resp)
	require.Len(t, tiers, 1)
	assert.Equal(t, 2, tiers[0].Tier)
}

func TestCosting_PropagateRequiresWriteRole(t *testing.T) {
	s := widgetStore()
	app := newApp(s, nil)
	req := dto.PropagateCostRequest{SKU: "WIDGET", LotNumber: "LOT-A", Cost: dec("2.5")}

	resp := call(t, app, http.MethodPost, "/api/costing/propagate", pkgjwt.RoleViewer, req)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/costing/propagate", pkgjwt.RoleCosting, req)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	got := decode[dto.PropagationResponse](t, resp)
	assert.False(t, got.Queued)
	assert.EqualValues(t, 1, got.SaleLines)

	orders, err := s.SaleOrders().ListBySKUs(context.Background(), []string{"WIDGET"}, nil)
	require.NoError(t, err)
	assert.True(t, orders[0].LineItems[0].Cost.Equal(dec("2.5")))

	resp = call(t, app, http.MethodPost, "/api/costing/propagate", pkgjwt.RoleCosting, dto.PropagateCostRequest{SKU: "WIDGET"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCosting_UpdateOpeningBalanceCost(t *testing.T) {
	app := newApp(widgetStore(), nil)

	resp := call(t, app, http.MethodPut, "/api/costing/opening-balances/ob-1/cost", pkgjwt.RoleCosting, dto.UpdateOpeningCostRequest{Cost: dec("3")})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPut, "/api/costing/opening-balances/ob-1/cost", pkgjwt.RoleAdmin, dto.UpdateOpeningCostRequest{Cost: dec("3")})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.OpeningBalanceResponse](t, resp)
	assert.True(t, got.Balance.Cost.Equal(dec("3")))

	resp = call(t, app, http.MethodPut, "/api/costing/opening-balances/missing/cost", pkgjwt.RoleAdmin, dto.UpdateOpeningCostRequest{Cost: dec("3")})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCosting_Sync(t *testing.T) {
	app := newApp(widgetStore(), nil)

	resp := call(t, app, http.MethodPost, "/api/costing/manufacturing/sync", pkgjwt.RoleAdmin, dto.SyncRequest{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := decode[dto.SyncResult](t, resp)
	assert.Equal(t, 1, first.BatchSize)
	assert.Equal(t, 1, first.Updated)

	resp = call(t, app, http.MethodPost, "/api/costing/manufacturing/sync", pkgjwt.RoleAdmin, dto.SyncRequest{})
	second := decode[dto.SyncResult](t, resp)
	assert.Equal(t, 0, second.Requested)

	resp = call(t, app, http.MethodPost, "/api/costing/manufacturing/sync", pkgjwt.RoleAdmin, dto.SyncRequest{Limit: 5000})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCosting_SyncLocked(t *testing.T) {
	app := newApp(widgetStore(), busyLocker{})

	resp := call(t, app, http.MethodPost, "/api/costing/manufacturing/sync", pkgjwt.RoleAdmin, nil)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "LOCKED")
}

func TestCosting_RequestIDHeader(t *testing.T) {
	app := newApp(widgetStore(), nil)
	resp := call(t, app, http.MethodGet, "/api/costing/tiers", pkgjwt.RoleViewer, nil)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))
}
