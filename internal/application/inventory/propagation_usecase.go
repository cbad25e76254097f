package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/lot-costing-api/internal/application/dto"
	"github.com/jhoicas/lot-costing-api/internal/domain/repository"
	"github.com/jhoicas/lot-costing-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// PropagationUseCase reescribe la foto de costo de un lote en los documentos que la guardan:
// líneas de pedidos y líneas de manufactura con costo explícito. Solo un nivel: las órdenes
// que consumen el lote no se recalculan aquí (lo hace la sincronización).
type PropagationUseCase struct {
	tx        TxRunner
	publisher CostEventPublisher
	locker    Locker
	lockTTL   time.Duration
	log       *logger.Logger
	now       func() time.Time
}

// NewPropagationUseCase construye el caso de uso. publisher y locker pueden ser nil:
// sin cola se aplica en línea, sin locker no se bloquea.
func NewPropagationUseCase(tx TxRunner, publisher CostEventPublisher, locker Locker, opts Options, log *logger.Logger) *PropagationUseCase {
	opts = opts.withDefaults()
	return &PropagationUseCase{
		tx:        tx,
		publisher: publisher,
		locker:    locker,
		lockTTL:   opts.LockTTL,
		log:       log,
		now:       time.Now,
	}
}

// PropagateCostChange encola o aplica el cambio. Nunca devuelve error: los fallos se registran
// y el llamador sigue su curso.
func (uc *PropagationUseCase) PropagateCostChange(ctx context.Context, skuID, lot string, cost decimal.Decimal) dto.PropagationResponse {
	out := dto.PropagationResponse{SKU: skuID, LotNumber: lot}
	if skuID == "" || lot == "" {
		uc.log.Warn().Str("sku", skuID).Str("lot", lot).Msg("propagación ignorada: lote incompleto")
		return out
	}
	change := CostChange{SKU: skuID, LotNumber: lot, Cost: cost, RequestedAt: uc.now().UTC()}

	if uc.publisher != nil {
		taskID, err := uc.publisher.PublishCostChange(ctx, change)
		if err == nil {
			out.Queued, out.TaskID = true, taskID
			return out
		}
		uc.log.Warn().Err(err).Str("sku", skuID).Str("lot", lot).Msg("no se pudo encolar la propagación, se aplica en línea")
	}

	res, err := uc.Apply(ctx, change)
	if err != nil {
		uc.log.Error().Err(err).Str("sku", skuID).Str("lot", lot).Msg("propagación de costo fallida")
		return out
	}
	out.SaleLines, out.IngredientLines = res.SaleLines, res.IngredientLines
	return out
}

// Apply escribe el cambio bajo el candado del lote. Lo usan la ruta en línea y el worker.
func (uc *PropagationUseCase) Apply(ctx context.Context, change CostChange) (dto.PropagationResponse, error) {
	out := dto.PropagationResponse{SKU: change.SKU, LotNumber: change.LotNumber}
	if uc.locker != nil {
		lock, err := uc.locker.Obtain(ctx, LotLockKey(change.SKU, change.LotNumber), uc.lockTTL)
		if err != nil {
			return out, err
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				uc.log.Warn().Err(err).Str("sku", change.SKU).Str("lot", change.LotNumber).Msg("liberar candado")
			}
		}()
	}

	err := uc.tx.Run(ctx, func(sales repository.SaleOrderRepository, jobs repository.ManufacturingRepository) error {
		var errs []error
		n, err := sales.UpdateLineCost(ctx, change.SKU, change.LotNumber, change.Cost)
		if err != nil {
			errs = append(errs, fmt.Errorf("sale orders: %w", err))
		}
		out.SaleLines = n
		m, err := jobs.UpdateIngredientCost(ctx, change.SKU, change.LotNumber, change.Cost)
		if err != nil {
			errs = append(errs, fmt.Errorf("manufacturing: %w", err))
		}
		out.IngredientLines = m
		return errors.Join(errs...)
	})
	if err != nil {
		return out, err
	}

	uc.log.Info().
		Str("sku", change.SKU).
		Str("lot", change.LotNumber).
		Str("cost", change.Cost.String()).
		Int64("sale_lines", out.SaleLines).
		Int64("ingredient_lines", out.IngredientLines).
		Msg("costo propagado")
	return out, nil
}
