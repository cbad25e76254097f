package bootstrap_test

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lot-costing-api/internal/bootstrap"
	"github.com/jhoicas/lot-costing-api/pkg/config"
	"github.com/jhoicas/lot-costing-api/pkg/logger"
)

func TestBuild_MemoryWithoutRedis(t *testing.T) {
	cfg := &config.Config{Costing: config.CostingConfig{SyncBatchLimit: 10}}
	c, err := bootstrap.Build(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Redis)
	assert.Nil(t, c.Queue)
	assert.NotNil(t, c.Costing.Resolver)
	assert.Len(t, c.Costing.Renderers, 2)

	tiers, err := c.Costing.Tiers.ClassifySkus(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, tiers)
}

func TestBuild_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Redis:   config.RedisConfig{Addr: mr.Addr()},
		Costing: config.CostingConfig{SyncBatchLimit: 10, PropagationAsync: false},
	}
	c, err := bootstrap.Build(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.Redis)
	require.NotNil(t, c.Queue)

	// sin cola asíncrona la propagación se aplica en línea
	res := c.Costing.Propagation.PropagateCostChange(context.Background(), "ING", "L1", decimal.NewFromInt(1))
	assert.False(t, res.Queued)
}

func TestBuild_MemoryConRedisPropagaEnLinea(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Redis:   config.RedisConfig{Addr: mr.Addr()},
		Costing: config.CostingConfig{SyncBatchLimit: 10, PropagationAsync: true},
	}
	c, err := bootstrap.Build(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.Queue)
	res := c.Costing.Propagation.PropagateCostChange(context.Background(), "ING", "L1", decimal.NewFromInt(1))
	assert.False(t, res.Queued, "sin base de datos la cola no alcanzaría los datos del proceso")
}
