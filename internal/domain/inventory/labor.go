package inventory

import (
	"strings"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var (
	secondsPerHour   = decimal.NewFromInt(3600)
	secondsPerMinute = decimal.NewFromInt(60)
)

// DurationSeconds convierte "HH:MM:SS" a segundos. Segmentos faltantes valen 0;
// cualquier segmento no numérico o negativo invalida la duración completa (0).
func DurationSeconds(duration string) decimal.Decimal {
	duration = strings.TrimSpace(duration)
	if duration == "" {
		return decimal.Zero
	}
	parts := strings.Split(duration, ":")
	if len(parts) > 3 {
		return decimal.Zero
	}
	weights := []decimal.Decimal{secondsPerHour, secondsPerMinute, decimal.NewFromInt(1)}
	total := decimal.Zero
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := decimal.NewFromString(p)
		if err != nil || v.IsNegative() {
			return decimal.Zero
		}
		total = total.Add(v.Mul(weights[i]))
	}
	return total
}

// DurationHours H + M/60 + S/3600.
func DurationHours(duration string) decimal.Decimal {
	return DurationSeconds(duration).Div(secondsPerHour)
}

// LaborCost suma duración × tarifa por hora de todas las entradas.
// Se multiplica en segundos antes de dividir para no arrastrar decimales periódicos.
func LaborCost(entries []entity.LaborEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		secs := DurationSeconds(e.Duration)
		if secs.IsZero() || e.HourlyRate.IsZero() {
			continue
		}
		total = total.Add(secs.Mul(e.HourlyRate).Div(secondsPerHour))
	}
	return total
}
