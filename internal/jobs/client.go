package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/lot-costing-api/internal/application/inventory"
)

var _ inventory.CostEventPublisher = (*Client)(nil)

// Enqueuer lo que necesitan Client y Handlers de asynq.Client; permite probar sin Redis.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Client publica tareas de costeo.
type Client struct {
	enq   Enqueuer
	close func() error
}

// NewClient cliente Asynq sobre la conexión Redis dada.
func NewClient(redisOpts asynq.RedisConnOpt) *Client {
	c := asynq.NewClient(redisOpts)
	return &Client{enq: c, close: c.Close}
}

// NewClientWith usa un Enqueuer propio.
func NewClientWith(enq Enqueuer) *Client {
	return &Client{enq: enq}
}

// PublishCostChange encola la propagación. Un cambio ya encolado no es error.
func (c *Client) PublishCostChange(ctx context.Context, change inventory.CostChange) (string, error) {
	task, err := NewPropagateCostTask(change)
	if err != nil {
		return "", err
	}
	info, err := c.enq.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", TaskPropagateCost, err)
	}
	return info.ID, nil
}

// EnqueueSync encola una página de sincronización.
func (c *Client) EnqueueSync(ctx context.Context, p SyncPayload) (string, error) {
	task, err := NewSyncTask(p)
	if err != nil {
		return "", err
	}
	info, err := c.enq.EnqueueContext(ctx, task)
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", TaskSyncManufacturing, err)
	}
	return info.ID, nil
}

// Close libera el cliente.
func (c *Client) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}
