package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkuRef_AceptaIDPlanoYDocumento(t *testing.T) {
	var lines []struct {
		SKU entity.SkuRef `json:"sku"`
	}
	raw := `[{"sku":"A"},{"sku":{"_id":"B","name":"Botella","category":"Packaging"}},{"sku":{"id":"C"}},{"sku":null}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &lines))

	assert.Equal(t, "A", lines[0].SKU.ID())
	assert.Equal(t, "B", lines[1].SKU.ID())
	doc, ok := lines[1].SKU.Populated()
	require.True(t, ok)
	assert.Equal(t, "Packaging", doc.Category)
	assert.Equal(t, "C", lines[2].SKU.ID())
	assert.True(t, lines[3].SKU.IsZero())
}

func TestSkuRef_SePersisteComoID(t *testing.T) {
	out, err := json.Marshal(entity.RefPopulated(entity.SKU{ID: "B", Name: "Botella"}))
	require.NoError(t, err)
	assert.JSONEq(t, `"B"`, string(out))
}

func TestSkuRef_FormatoInvalido(t *testing.T) {
	var r entity.SkuRef
	assert.Error(t, json.Unmarshal([]byte(`42`), &r))
}

func TestWebOrderLine_AceptaQuantity(t *testing.T) {
	var line entity.WebOrderLine
	require.NoError(t, json.Unmarshal([]byte(`{"sku":"A","quantity":"3"}`), &line))
	assert.Equal(t, "3", line.Qty.String())
}

func TestManufacturingJob_LoteDeSalida(t *testing.T) {
	job := entity.ManufacturingJob{ID: "j1", Label: "42", SKU: entity.RefID("P")}
	assert.Equal(t, "42", job.OutputLot())
	assert.True(t, job.ProducesLot("P", "42"))
	assert.False(t, job.ProducesLot("Q", "42"))
	job.LotNumber = "LOT-9"
	assert.Equal(t, "LOT-9", job.OutputLot())
	assert.True(t, job.ProducesLot("P", "42"), "también se busca por etiqueta")
}
