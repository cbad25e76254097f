package repository

import (
	"context"
	"time"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// OpeningBalanceRepository puerto de persistencia de saldos iniciales.
type OpeningBalanceRepository interface {
	GetByID(ctx context.Context, id string) (*entity.OpeningBalance, error)
	// FindByLot devuelve el primer saldo inicial del lote o (nil, nil).
	FindByLot(ctx context.Context, skuID, lot string) (*entity.OpeningBalance, error)
	ListByLots(ctx context.Context, lots []LotRef) ([]entity.OpeningBalance, error)
	// ListBySKUs filtra por created_at >= since cuando since no es nil.
	ListBySKUs(ctx context.Context, skuIDs []string, since *time.Time) ([]entity.OpeningBalance, error)
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error
}
