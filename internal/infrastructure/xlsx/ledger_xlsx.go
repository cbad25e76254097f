// Package xlsx exporta el kardex a Excel con excelize.
package xlsx

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/lot-costing-api/internal/application/dto"
)

const sheet = "Kardex"

var headers = []string{"Fecha", "Tipo", "Referencia", "Lote", "Cantidad", "UdM", "Costo", "Saldo", "Documento"}

// LedgerXLSX una hoja con una fila por transacción.
type LedgerXLSX struct{}

// NewLedgerXLSX construye el exportador.
func NewLedgerXLSX() *LedgerXLSX { return &LedgerXLSX{} }

func (LedgerXLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (LedgerXLSX) Extension() string { return "xlsx" }

// Render las cantidades y costos se escriben como número, no como texto.
func (LedgerXLSX) Render(_ context.Context, ledger *dto.LedgerResult) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("xlsx: hoja: %w", err)
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(sheet, 1, 1, bold)
	}

	for i, t := range ledger.Transactions {
		qty, _ := t.Quantity.Float64()
		cost, _ := t.Cost.Float64()
		balance, _ := t.Balance.Float64()
		values := []any{t.Date.Format("2006-01-02"), t.Type, t.Reference, t.LotNumber, qty, t.UOM, cost, balance, t.DocID}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(sheet, "B", "C", 22)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
