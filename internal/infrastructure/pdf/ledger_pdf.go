// Package pdf genera el kardex de un SKU en PDF (A4 horizontal).
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│  HEADER: SKU + nombre           │  Desde / Generado              │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Ref | Lote | Cant | UdM | Costo | Saldo   │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  RESUMEN: movimientos, entradas, salidas, saldo final            │
//	└──────────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lot-costing-api/internal/application/dto"
	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// LedgerPDF renderiza el kardex con Maroto v2.
type LedgerPDF struct {
	now func() time.Time
}

// NewLedgerPDF construye el generador.
func NewLedgerPDF() *LedgerPDF { return &LedgerPDF{now: time.Now} }

// ContentType del documento generado.
func (g *LedgerPDF) ContentType() string { return "application/pdf" }

// Extension del archivo descargado.
func (g *LedgerPDF) Extension() string { return "pdf" }

// Render genera el PDF y devuelve sus bytes.
func (g *LedgerPDF) Render(_ context.Context, ledger *dto.LedgerResult) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Kardex "+ledger.SKU.ID, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(ledger, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(ledger.Transactions)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(ledger.Transactions))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar kardex: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(ledger *dto.LedgerResult, now time.Time) core.Row {
	since := "inicio"
	if ledger.Since != nil {
		since = ledger.Since.Format("02/01/2006")
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New("KARDEX "+ledger.SKU.ID, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(ledger.SKU.Name, "-")+"   |   UdM: "+nonEmpty(ledger.SKU.UOM, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Desde: "+since, props.Text{Size: 8, Align: align.Right, Top: 2}),
			text.New("Generado: "+now.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 1, align.Left),
		h("Tipo", 2, align.Left),
		h("Referencia", 3, align.Left),
		h("Lote", 2, align.Left),
		h("Cantidad", 1, align.Right),
		h("UdM", 1, align.Center),
		h("Costo", 1, align.Right),
		h("Saldo", 1, align.Right),
	)
}

func tableRows(txs []entity.Transaction) []core.Row {
	out := make([]core.Row, 0, len(txs))
	for _, t := range txs {
		qtyProps := props.Text{Size: 8, Align: align.Right, Top: 1}
		if t.Quantity.IsNegative() {
			qtyProps.Color = colorRed
		}
		out = append(out, row.New(6).Add(
			col.New(1).Add(text.New(t.Date.Format("02/01/2006"), props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(t.Type, props.Text{Size: 8, Top: 1})),
			col.New(3).Add(text.New(t.Reference, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(nonEmpty(t.LotNumber, "-"), props.Text{Size: 8, Top: 1})),
			col.New(1).Add(text.New(t.Quantity.StringFixed(2), qtyProps)),
			col.New(1).Add(text.New(t.UOM, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(t.Cost.StringFixed(4), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(1).Add(text.New(t.Balance.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1,
			})),
		))
	}
	return out
}

func summaryRow(txs []entity.Transaction) core.Row {
	in, out := decimal.Zero, decimal.Zero
	for _, t := range txs {
		if t.Quantity.IsPositive() {
			in = in.Add(t.Quantity)
		} else {
			out = out.Add(t.Quantity.Neg())
		}
	}
	final := decimal.Zero
	if len(txs) > 0 {
		final = txs[len(txs)-1].Balance
	}
	s := fmt.Sprintf("Movimientos: %d   |   Entradas: %s   |   Salidas: %s   |   Saldo final: %s",
		len(txs), in.StringFixed(2), out.StringFixed(2), final.StringFixed(2))
	return row.New(10).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2}),
	))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
