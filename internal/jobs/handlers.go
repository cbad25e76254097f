package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/lot-costing-api/internal/application/dto"
	"github.com/jhoicas/lot-costing-api/internal/application/inventory"
	"github.com/jhoicas/lot-costing-api/internal/domain"
	"github.com/jhoicas/lot-costing-api/pkg/logger"
)

// Handlers procesa las tareas de costeo.
type Handlers struct {
	propagation *inventory.PropagationUseCase
	sync        *inventory.SyncUseCase
	client      *Client
	log         *logger.Logger
}

// NewHandlers client se usa para encolar la página siguiente de la sincronización (puede ser nil).
func NewHandlers(propagation *inventory.PropagationUseCase, sync *inventory.SyncUseCase, client *Client, log *logger.Logger) *Handlers {
	return &Handlers{propagation: propagation, sync: sync, client: client, log: log}
}

// HandlePropagateCost aplica el cambio. Payload inválido no se reintenta; candado ocupado sí.
func (h *Handlers) HandlePropagateCost(ctx context.Context, t *asynq.Task) error {
	var change inventory.CostChange
	if err := json.Unmarshal(t.Payload(), &change); err != nil || change.SKU == "" || change.LotNumber == "" {
		h.log.Error().Err(err).Str("task", t.Type()).Msg("payload inválido")
		return fmt.Errorf("%s: payload inválido: %w", TaskPropagateCost, asynq.SkipRetry)
	}
	if _, err := h.propagation.Apply(ctx, change); err != nil {
		if errors.Is(err, domain.ErrLocked) {
			h.log.Debug().Str("sku", change.SKU).Str("lot", change.LotNumber).Msg("lote bloqueado, se reintenta")
		}
		return err
	}
	return nil
}

// HandleSyncManufacturing procesa una página y encola la siguiente mientras haya más.
// Un fallo parcial de escritura no se reintenta: la siguiente corrida lo recoge.
func (h *Handlers) HandleSyncManufacturing(ctx context.Context, t *asynq.Task) error {
	var p SyncPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("%s: payload inválido: %w", TaskSyncManufacturing, asynq.SkipRetry)
		}
	}
	res, err := h.sync.SyncManufacturingCostsBatch(ctx, dto.SyncRequest{Skip: p.Skip, Limit: p.Limit, OrderIDs: p.OrderIDs})
	if res == nil {
		return err
	}
	if err != nil {
		h.log.Warn().Err(err).Int("skip", p.Skip).Msg("sincronización con fallos parciales")
	}
	if res.HasMore && h.client != nil {
		next := SyncPayload{Skip: res.NextSkip, Limit: p.Limit}
		if _, err := h.client.EnqueueSync(ctx, next); err != nil {
			return err
		}
	}
	return nil
}
