package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/lot-costing-api/internal/application/dto"
	"github.com/jhoicas/lot-costing-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// TxRunner ejecuta la escritura de una propagación dentro de una transacción,
// con los repositorios atados a esa tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		sales repository.SaleOrderRepository,
		jobs repository.ManufacturingRepository,
	) error) error
}

// CostChange evento de cambio de costo de un lote.
type CostChange struct {
	SKU         string          `json:"sku"`
	LotNumber   string          `json:"lot_number"`
	Cost        decimal.Decimal `json:"cost"`
	RequestedAt time.Time       `json:"requested_at"`
}

// CostEventPublisher encola cambios de costo para aplicarlos fuera de la petición.
type CostEventPublisher interface {
	PublishCostChange(ctx context.Context, change CostChange) (taskID string, err error)
}

// Lock candado distribuido obtenido.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker obtiene candados por clave. Devuelve domain.ErrLocked si otro proceso lo tiene.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

// LedgerRenderer exporta un kardex a un formato descargable (PDF, Excel).
type LedgerRenderer interface {
	Render(ctx context.Context, ledger *dto.LedgerResult) ([]byte, error)
	ContentType() string
	Extension() string
}

// Repositories agrupa los puertos de lectura/escritura que usan los casos de uso de costeo.
type Repositories struct {
	SKUs            repository.SKURepository
	OpeningBalances repository.OpeningBalanceRepository
	PurchaseOrders  repository.PurchaseOrderRepository
	Manufacturing   repository.ManufacturingRepository
	Audits          repository.AuditAdjustmentRepository
	SaleOrders      repository.SaleOrderRepository
	WebOrders       repository.WebOrderRepository
	Settings        repository.SettingsRepository
}

// Options parámetros de costeo tomados de la configuración.
type Options struct {
	PriceFallback  bool
	SyncBatchLimit int
	LockTTL        time.Duration
}

const (
	defaultSyncBatchLimit = 100
	defaultLockTTL        = 30 * time.Second
)

func (o Options) withDefaults() Options {
	if o.SyncBatchLimit <= 0 {
		o.SyncBatchLimit = defaultSyncBatchLimit
	}
	if o.LockTTL <= 0 {
		o.LockTTL = defaultLockTTL
	}
	return o
}

// LotLockKey clave del candado de propagación de un lote.
func LotLockKey(skuID, lot string) string {
	return "costing:lot:" + skuID + ":" + lot
}

// SyncLockKey clave del candado de una página de sincronización.
const SyncLockKey = "costing:sync-manufacturing"
