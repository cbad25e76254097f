package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lot-costing-api/internal/application/dto"
	"github.com/jhoicas/lot-costing-api/internal/application/inventory"
	"github.com/jhoicas/lot-costing-api/internal/domain"
)

// CostingDeps casos de uso expuestos por la API de costeo.
type CostingDeps struct {
	Resolver    *inventory.ResolverUseCase
	JobCost     *inventory.JobCostUseCase
	Lots        *inventory.LotBalanceUseCase
	Ledger      *inventory.LedgerUseCase
	Tiers       *inventory.TieringUseCase
	Propagation *inventory.PropagationUseCase
	Openings    *inventory.OpeningBalanceUseCase
	Sync        *inventory.SyncUseCase
	Renderers   []inventory.LedgerRenderer
}

// CostingHandler maneja las peticiones HTTP del motor de costeo (protegido).
type CostingHandler struct {
	deps      CostingDeps
	renderers map[string]inventory.LedgerRenderer
	validate  *validator.Validate
}

// NewCostingHandler construye el handler.
func NewCostingHandler(deps CostingDeps) *CostingHandler {
	renderers := make(map[string]inventory.LedgerRenderer, len(deps.Renderers))
	for _, r := range deps.Renderers {
		renderers[r.Extension()] = r
	}
	return &CostingHandler{deps: deps, renderers: renderers, validate: validator.New()}
}

// GetLotCost godoc
// @Summary      Costo unitario de un lote
// @Description  Saldo inicial → Compra → Manufactura → Auditoría; 0 si ninguna fuente lo conoce.
// @Tags         costing
// @Security     Bearer
// @Produce      json
// @Param        sku  query  string  true  "SKU"
// @Param        lot  query  string  true  "Número de lote"
// @Success      200  {object}  dto.LotCostResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/costing/lot-cost [get]
func (h *CostingHandler) GetLotCost(c *fiber.Ctx) error {
	res, err := h.deps.Resolver.LotCost(c.UserContext(), c.Query("sku"), c.Query("lot"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// GetAvailableLots godoc
// @Summary      Lotes con saldo positivo de un SKU
// @Tags         costing
// @Security     Bearer
// @Produce      json
// @Param        sku    path   string  true   "SKU"
// @Param        order  query  string  false  "fifo (defecto) | balance"
// @Success      200  {array}   entity.LotBalance
// @Router       /api/costing/skus/{sku}/lots [get]
func (h *CostingHandler) GetAvailableLots(c *fiber.Ctx) error {
	order := c.Query("order")
	if order != "" && order != "fifo" && order != "balance" {
		return writeError(c, fmt.Errorf("order debe ser fifo o balance: %w", domain.ErrInvalidInput))
	}
	lots, err := h.deps.Lots.GetAvailableLots(c.UserContext(), c.Params("sku"), order)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(lots)
}

// GetAvailableLotsForSkus godoc
// @Summary      Lotes disponibles para varios SKUs
// @Tags         costing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AvailableLotsRequest  true  "skus"
// @Success      200  {object}  dto.AvailableLotsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/costing/lots/available [post]
func (h *CostingHandler) GetAvailableLotsForSkus(c *fiber.Ctx) error {
	var in dto.AvailableLotsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	lots, err := h.deps.Lots.GetAvailableLotsForSkus(c.UserContext(), in.SKUs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AvailableLotsResponse{Lots: lots})
}

// GetJobCost godoc
// @Summary      Desglose de costo de una orden de manufactura
// @Tags         costing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.JobCostResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/costing/manufacturing/{id}/cost [get]
func (h *CostingHandler) GetJobCost(c *fiber.Ctx) error {
	res, err := h.deps.JobCost.ComputeJobCostByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// GetLedger godoc
// @Summary      Kardex de un SKU
// @Tags         costing
// @Security     Bearer
// @Produce      json
// @Param        sku    path   string  true   "SKU"
// @Param        start  query  string  false  "Fecha inicial (2006-01-02 o RFC3339)"
// @Success      200  {object}  dto.LedgerResult
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/costing/skus/{sku}/ledger [get]
func (h *CostingHandler) GetLedger(c *fiber.Ctx) error {
	ledger, err := h.ledger(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(ledger)
}

// ExportLedger devuelve el kardex como archivo; el formato sale de la ruta (ledger.pdf, ledger.xlsx).
func (h *CostingHandler) ExportLedger(format string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, ok := h.renderers[format]
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "formato no disponible"})
		}
		ledger, err := h.ledger(c)
		if err != nil {
			return writeError(c, err)
		}
		body, err := r.Render(c.UserContext(), ledger)
		if err != nil {
			return writeError(c, err)
		}
		c.Set(fiber.HeaderContentType, r.ContentType())
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="kardex-%s.%s"`, ledger.SKU.ID, r.Extension()))
		return c.Send(body)
	}
}

func (h *CostingHandler) ledger(c *fiber.Ctx) (*dto.LedgerResult, error) {
	start, err := parseStart(c.Query("start"))
	if err != nil {
		return nil, err
	}
	return h.deps.Ledger.BuildSkuLedger(c.UserContext(), c.Params("sku"), start)
}

// GetTiers godoc
// @Summary      Clasificación de SKUs por tier
// @Tags         costing
// @Security     Bearer
// @Produce      json
// @Param        skus  query  string  false  "IDs separados por coma; vacío = todo el catálogo"
// @Success      200  {array}  dto.TierDTO
// @Router       /api/costing/tiers [get]
func (h *CostingHandler) GetTiers(c *fiber.Ctx) error {
	var ids []string
	for _, id := range strings.Split(c.Query("skus"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	tiers, err := h.deps.Tiers.ClassifySkus(c.UserContext(), ids)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(tiers)
}

// PropagateCost godoc
// @Summary      Propagar el costo de un lote
// @Description  Reescribe la foto de costo en pedidos e ingredientes con costo explícito.
//
//	Responde 202: la propagación puede quedar encolada.
//
// @Tags         costing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PropagateCostRequest  true  "sku, lot_number, cost"
// @Success      202  {object}  dto.PropagationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/costing/propagate [post]
func (h *CostingHandler) PropagateCost(c *fiber.Ctx) error {
	var in dto.PropagateCostRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	if in.Cost.IsNegative() {
		return writeError(c, fmt.Errorf("cost negativo: %w", domain.ErrInvalidInput))
	}
	res := h.deps.Propagation.PropagateCostChange(c.UserContext(), in.SKU, in.LotNumber, in.Cost)
	return c.Status(fiber.StatusAccepted).JSON(res)
}

// UpdateOpeningBalanceCost godoc
// @Summary      Corregir el costo de un saldo inicial
// @Tags         costing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del saldo inicial"
// @Param        body  body  dto.UpdateOpeningCostRequest  true  "cost"
// @Success      200  {object}  dto.OpeningBalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/costing/opening-balances/{id}/cost [put]
func (h *CostingHandler) UpdateOpeningBalanceCost(c *fiber.Ctx) error {
	var in dto.UpdateOpeningCostRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.deps.Openings.UpdateOpeningBalanceCost(c.UserContext(), c.Params("id"), in.Cost)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// SyncManufacturing godoc
// @Summary      Recalcular una página de órdenes de manufactura
// @Description  Requested != Updated indica fallos parciales de escritura (se responde 207).
// @Tags         costing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SyncRequest  false  "skip, limit, order_ids"
// @Success      200  {object}  dto.SyncResult
// @Success      207  {object}  dto.SyncResult
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/costing/manufacturing/sync [post]
func (h *CostingHandler) SyncManufacturing(c *fiber.Ctx) error {
	var in dto.SyncRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	if err := h.validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	res, err := h.deps.Sync.SyncManufacturingCostsBatch(c.UserContext(), in)
	if res == nil {
		return writeError(c, err)
	}
	if err != nil {
		return c.Status(fiber.StatusMultiStatus).JSON(res)
	}
	return c.JSON(res)
}

// parseStart acepta 2006-01-02 o RFC3339; vacío = sin filtro.
func parseStart(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("start inválido %q: %w", raw, domain.ErrInvalidInput)
	}
	return &t, nil
}
