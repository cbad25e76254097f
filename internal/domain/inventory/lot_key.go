package inventory

import (
	"time"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
)

// LotKey clave compuesta "<sku>:<lote>" usada por todos los mapas en memoria.
type LotKey string

// NewLotKey construye la clave para (skuID, lotNumber).
func NewLotKey(skuID, lotNumber string) LotKey {
	return LotKey(skuID + ":" + lotNumber)
}

func (k LotKey) String() string { return string(k) }

// LotPair (sku, lote) sin serializar. Tanto el SKU como el lote pueden contener ':',
// así que quien necesite los componentes los lleva aparte en lugar de partir la clave.
type LotPair struct {
	SKU       string
	LotNumber string
}

// Key clave de mapa del par.
func (p LotPair) Key() LotKey { return NewLotKey(p.SKU, p.LotNumber) }

// SkuMatcher identifica un SKU y sus variantes web.
type SkuMatcher struct {
	ID        string
	Variances []string
}

// MatcherFor construye el matcher desde el catálogo.
func MatcherFor(sku *entity.SKU, skuID string) SkuMatcher {
	if sku == nil {
		return SkuMatcher{ID: skuID}
	}
	return SkuMatcher{ID: sku.ID, Variances: sku.Variances}
}

// Matches compara contra una referencia directa.
func (m SkuMatcher) Matches(ref entity.SkuRef) bool {
	return ref.Matches(m.ID)
}

// MatchesWeb acepta la referencia directa o cualquiera de las variantes.
func (m SkuMatcher) MatchesWeb(line entity.WebOrderLine) bool {
	if line.SKU.Matches(m.ID) {
		return true
	}
	if line.VarianceID == "" {
		return false
	}
	if line.VarianceID == m.ID {
		return true
	}
	for _, v := range m.Variances {
		if v == line.VarianceID {
			return true
		}
	}
	return false
}

// included aplica el filtro global "filtrar datos desde".
func included(since *time.Time, date time.Time) bool {
	return since == nil || since.IsZero() || !date.Before(*since)
}
