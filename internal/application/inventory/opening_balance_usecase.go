package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/lot-costing-api/internal/application/dto"
	"github.com/jhoicas/lot-costing-api/internal/domain"
	"github.com/jhoicas/lot-costing-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// OpeningBalanceUseCase corrige el costo de un saldo inicial y dispara la propagación.
type OpeningBalanceUseCase struct {
	openings    repository.OpeningBalanceRepository
	propagation *PropagationUseCase
}

// NewOpeningBalanceUseCase construye el caso de uso.
func NewOpeningBalanceUseCase(openings repository.OpeningBalanceRepository, propagation *PropagationUseCase) *OpeningBalanceUseCase {
	return &OpeningBalanceUseCase{openings: openings, propagation: propagation}
}

// UpdateOpeningBalanceCost escribe el nuevo costo y luego propaga. El resultado de la
// propagación nunca hace fallar la escritura.
func (uc *OpeningBalanceUseCase) UpdateOpeningBalanceCost(ctx context.Context, id string, cost decimal.Decimal) (*dto.OpeningBalanceResponse, error) {
	if id == "" || cost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	ob, err := uc.openings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get opening balance: %w", err)
	}
	if ob == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.openings.UpdateCost(ctx, id, cost); err != nil {
		return nil, fmt.Errorf("update opening balance cost: %w", err)
	}
	ob.Cost = cost

	prop := uc.propagation.PropagateCostChange(ctx, ob.SKU.ID(), ob.LotNumber, cost)
	return &dto.OpeningBalanceResponse{Balance: *ob, Propagation: prop}, nil
}
