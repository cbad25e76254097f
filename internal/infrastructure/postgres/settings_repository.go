package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/lot-costing-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingFilterDataFrom clave del ajuste global "filtrar datos desde".
const SettingFilterDataFrom = "filter_data_from"

// SettingsRepo ajustes clave/valor en app_settings.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// FilterDataFrom nil si el ajuste no existe o está vacío.
func (r *SettingsRepo) FilterDataFrom(ctx context.Context) (*time.Time, error) {
	var raw string
	err := r.q.QueryRow(ctx, `SELECT value FROM app_settings WHERE key = $1`, SettingFilterDataFrom).Scan(&raw)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get setting %s: %w", SettingFilterDataFrom, err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := parseSettingDate(raw)
	if err != nil {
		return nil, fmt.Errorf("setting %s: %w", SettingFilterDataFrom, err)
	}
	return &t, nil
}

// parseSettingDate acepta fecha (2006-01-02) o RFC3339.
func parseSettingDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
