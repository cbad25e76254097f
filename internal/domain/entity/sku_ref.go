package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SkuRef es una referencia a SKU que puede venir como ID plano o como documento poblado.
// Todas las lecturas pasan por ID(); nunca se desenvuelve a mano en cada llamada.
type SkuRef struct {
	id  string
	sku *SKU
}

// RefID construye una referencia a partir del ID.
func RefID(id string) SkuRef { return SkuRef{id: id} }

// RefPopulated construye una referencia con el documento del SKU ya cargado.
func RefPopulated(s SKU) SkuRef { return SkuRef{id: s.ID, sku: &s} }

// ID devuelve el identificador normalizado ("" si la referencia está vacía).
func (r SkuRef) ID() string {
	if r.sku != nil && r.sku.ID != "" {
		return r.sku.ID
	}
	return r.id
}

// Populated devuelve el SKU embebido, si lo hay.
func (r SkuRef) Populated() (*SKU, bool) {
	return r.sku, r.sku != nil
}

// IsZero indica que la referencia no apunta a nada.
func (r SkuRef) IsZero() bool { return r.ID() == "" }

// Matches compara la referencia contra un ID de SKU.
func (r SkuRef) Matches(skuID string) bool {
	return skuID != "" && r.ID() == skuID
}

func (r SkuRef) String() string { return r.ID() }

// MarshalJSON siempre persiste el ID plano.
func (r SkuRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID())
}

// UnmarshalJSON acepta "SKU-1", {"_id": "SKU-1", ...} o {"id": "SKU-1"}.
func (r *SkuRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = SkuRef{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = RefID(id)
		return nil
	}
	if data[0] != '{' {
		return fmt.Errorf("sku ref: formato no soportado: %s", string(data))
	}
	var doc struct {
		SKU
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.SKU.ID == "" {
		doc.SKU.ID = doc.AltID
	}
	if doc.SKU.Name == "" && doc.SKU.Category == "" && doc.SKU.UOM == "" {
		*r = RefID(doc.SKU.ID)
		return nil
	}
	*r = RefPopulated(doc.SKU)
	return nil
}
