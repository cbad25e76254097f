package repository

import (
	"context"
	"time"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
)

// AuditAdjustmentRepository puerto de lectura de ajustes de auditoría.
type AuditAdjustmentRepository interface {
	FindByLot(ctx context.Context, skuID, lot string) (*entity.AuditAdjustment, error)
	ListByLots(ctx context.Context, lots []LotRef) ([]entity.AuditAdjustment, error)
	ListBySKUs(ctx context.Context, skuIDs []string, since *time.Time) ([]entity.AuditAdjustment, error)
}
