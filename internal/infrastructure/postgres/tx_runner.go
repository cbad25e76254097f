package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/lot-costing-api/internal/application/inventory"
	"github.com/jhoicas/lot-costing-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	sales repository.SaleOrderRepository,
	jobs repository.ManufacturingRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewSaleOrderRepository(tx), NewManufacturingRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepositories arma todos los puertos de costeo sobre el pool.
func NewRepositories(pool *pgxpool.Pool) inventory.Repositories {
	return inventory.Repositories{
		SKUs:            NewSKURepository(pool),
		OpeningBalances: NewOpeningBalanceRepository(pool),
		PurchaseOrders:  NewPurchaseOrderRepository(pool),
		Manufacturing:   NewManufacturingRepository(pool),
		Audits:          NewAuditAdjustmentRepository(pool),
		SaleOrders:      NewSaleOrderRepository(pool),
		WebOrders:       NewWebOrderRepository(pool),
		Settings:        NewSettingsRepository(pool),
	}
}
