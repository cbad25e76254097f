// Package jobs encola y procesa en segundo plano las tareas de costeo con Asynq.
package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/lot-costing-api/internal/application/inventory"
)

const (
	// QueueDefault cola de las propagaciones.
	QueueDefault = "default"
	// QueueLow cola de la sincronización masiva; no compite con las propagaciones.
	QueueLow = "low"

	// TaskPropagateCost reescribe la foto de costo de un lote.
	TaskPropagateCost = "costing:propagate"
	// TaskSyncManufacturing recalcula una página de órdenes de manufactura.
	TaskSyncManufacturing = "costing:sync-manufacturing"
)

// SyncPayload página a sincronizar. OrderIDs vacío recorre todas las órdenes.
type SyncPayload struct {
	Skip     int      `json:"skip"`
	Limit    int      `json:"limit"`
	OrderIDs []string `json:"order_ids,omitempty"`
}

// NewPropagateCostTask una tarea por cambio. El ID evita encolar dos veces el mismo cambio.
func NewPropagateCostTask(change inventory.CostChange) (*asynq.Task, error) {
	body, err := json.Marshal(change)
	if err != nil {
		return nil, err
	}
	id := fmt.Sprintf("propagate:%s:%s:%d", change.SKU, change.LotNumber, change.RequestedAt.UnixNano())
	return asynq.NewTask(TaskPropagateCost, body,
		asynq.Queue(QueueDefault),
		asynq.TaskID(id),
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
	), nil
}

// NewSyncTask tarea de una página de sincronización.
func NewSyncTask(p SyncPayload) (*asynq.Task, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSyncManufacturing, body,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
	), nil
}
