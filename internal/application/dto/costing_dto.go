package dto

import (
	"time"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LotCostResponse costo unitario resuelto de un lote y la fuente que lo aportó.
type LotCostResponse struct {
	SKU       string          `json:"sku"`
	LotNumber string          `json:"lot_number"`
	Cost      decimal.Decimal `json:"cost"`
	Source    string          `json:"source"`
}

// AvailableLotsRequest cuerpo de POST /api/costing/lots/available.
type AvailableLotsRequest struct {
	SKUs []string `json:"skus" validate:"required,min=1,max=200,dive,required"`
}

// AvailableLotsResponse lotes con saldo positivo por SKU, en orden FIFO.
type AvailableLotsResponse struct {
	Lots map[string][]entity.LotBalance `json:"lots"`
}

// JobCostLineDTO costo de un ingrediente.
type JobCostLineDTO struct {
	SKU       string          `json:"sku"`
	LotNumber string          `json:"lot_number"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Total     decimal.Decimal `json:"total"`
	Packaging bool            `json:"packaging"`
	Override  bool            `json:"override"`
}

// JobCostResponse desglose de costo de una orden de manufactura.
type JobCostResponse struct {
	JobID         string           `json:"job_id"`
	Reference     string           `json:"reference"`
	Qty           decimal.Decimal  `json:"qty"`
	MaterialCost  decimal.Decimal  `json:"material_cost"`
	PackagingCost decimal.Decimal  `json:"packaging_cost"`
	LaborCost     decimal.Decimal  `json:"labor_cost"`
	TotalCost     decimal.Decimal  `json:"total_cost"`
	PerUnitCost   decimal.Decimal  `json:"per_unit_cost"`
	Lines         []JobCostLineDTO `json:"lines"`
}

// LedgerResult kardex de un SKU.
type LedgerResult struct {
	Transactions []entity.Transaction `json:"transactions"`
	SKU          entity.SKU           `json:"sku"`
	Since        *time.Time           `json:"since,omitempty"`
}

// PropagateCostRequest cuerpo de POST /api/costing/propagate.
type PropagateCostRequest struct {
	SKU       string          `json:"sku" validate:"required"`
	LotNumber string          `json:"lot_number" validate:"required"`
	Cost      decimal.Decimal `json:"cost"`
}

// PropagationResponse resultado de una propagación. Queued=true cuando quedó en la cola.
type PropagationResponse struct {
	SKU             string `json:"sku"`
	LotNumber       string `json:"lot_number"`
	Queued          bool   `json:"queued"`
	TaskID          string `json:"task_id,omitempty"`
	SaleLines       int64  `json:"sale_lines"`
	IngredientLines int64  `json:"ingredient_lines"`
}

// UpdateOpeningCostRequest cuerpo de PUT /api/costing/opening-balances/:id/cost.
type UpdateOpeningCostRequest struct {
	Cost decimal.Decimal `json:"cost"`
}

// OpeningBalanceResponse saldo inicial tras la corrección de costo.
type OpeningBalanceResponse struct {
	Balance     entity.OpeningBalance `json:"opening_balance"`
	Propagation PropagationResponse   `json:"propagation"`
}

// SyncRequest página de órdenes a recalcular.
type SyncRequest struct {
	Skip     int      `json:"skip" validate:"min=0"`
	Limit    int      `json:"limit" validate:"min=0,max=1000"`
	OrderIDs []string `json:"order_ids" validate:"omitempty,max=1000,dive,required"`
}

// SyncResult resumen de un lote de sincronización. Requested != Updated indica fallos parciales.
type SyncResult struct {
	BatchSize        int            `json:"batch_size"`
	JobsWithCost     int            `json:"jobs_with_cost"`
	LineItemsTouched int            `json:"line_items_touched"`
	Requested        int            `json:"requested"`
	Updated          int            `json:"updated"`
	Breakdown        map[string]int `json:"breakdown"`
	NextSkip         int            `json:"next_skip"`
	HasMore          bool           `json:"has_more"`
}

// TierDTO clasificación de un SKU.
type TierDTO struct {
	SKU   string `json:"sku"`
	Tier  int    `json:"tier"`
	Label string `json:"label"`
}
