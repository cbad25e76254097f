package entity

import (
	"github.com/shopspring/decimal"
)

// SKU representa un artículo del catálogo. El ID es también el código visible para el negocio.
// Borrar un SKU no borra transacciones históricas: las referencias huérfanas se muestran con el ID crudo.
type SKU struct {
	ID           string          `json:"_id"`
	Name         string          `json:"name"`
	UOM          string          `json:"uom"`
	Category     string          `json:"category"`
	SubCategory  string          `json:"subCategory"`
	MaterialType string          `json:"materialType"`
	ReorderPoint decimal.Decimal `json:"reorderPoint"`
	ReorderQty   decimal.Decimal `json:"reorderQty"`
	Variances    []string        `json:"variances"` // sub-variantes usadas por el canal web
	IsLotApplied bool            `json:"isLotApplied"`
}

// HasVariance indica si varianceID pertenece a las sub-variantes del SKU.
func (s *SKU) HasVariance(varianceID string) bool {
	if s == nil || varianceID == "" {
		return false
	}
	for _, v := range s.Variances {
		if v == varianceID {
			return true
		}
	}
	return false
}
