package cache

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/lot-costing-api/internal/domain/repository"
	"github.com/jhoicas/lot-costing-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var _ repository.SettingsRepository = (*SettingsCache)(nil)

const (
	filterDataFromKey = "costing:settings:filter_data_from"
	// unsetValue marca en caché que el ajuste no existe, para no consultar la base en cada petición.
	unsetValue = "-"
)

// SettingsCache decora el repositorio de ajustes con Redis.
// Si Redis falla se lee directo de la base; la caché nunca rompe una consulta.
type SettingsCache struct {
	next   repository.SettingsRepository
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewSettingsCache construye el decorador. ttl <= 0 usa 5 minutos.
func NewSettingsCache(next repository.SettingsRepository, client *redis.Client, ttl time.Duration, log *logger.Logger) *SettingsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SettingsCache{next: next, client: client, ttl: ttl, log: log}
}

func (c *SettingsCache) FilterDataFrom(ctx context.Context) (*time.Time, error) {
	raw, err := c.client.Get(ctx, filterDataFromKey).Result()
	switch {
	case err == nil:
		if raw == unsetValue {
			return nil, nil
		}
		if t, perr := time.Parse(time.RFC3339Nano, raw); perr == nil {
			return &t, nil
		}
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Msg("settings cache: lectura fallida, se consulta la base")
	}

	t, err := c.next.FilterDataFrom(ctx)
	if err != nil {
		return nil, err
	}
	value := unsetValue
	if t != nil {
		value = t.UTC().Format(time.RFC3339Nano)
	}
	if err := c.client.Set(ctx, filterDataFromKey, value, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("settings cache: escritura fallida")
	}
	return t, nil
}

// Invalidate descarta el valor en caché (tras editar el ajuste).
func (c *SettingsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, filterDataFromKey).Err()
}
