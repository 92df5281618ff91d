// Package pdf genera la versión imprimible del historial de stock.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del reporte   │  Fecha de generación        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PRODUCTO: nombre, stock actual, umbral, estado + QR         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Producto | Ant. | Nuevo | Tipo | Usuario ... │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: movimientos, subidas, bajadas, cambio neto         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Tienda-api/internal/domain/inventory"
)

var _ ports.HistoryReportGenerator = (*MarotoHistoryReport)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoHistoryReport implementa ports.HistoryReportGenerator usando Maroto v2.
type MarotoHistoryReport struct {
	now func() time.Time
}

// NewMarotoHistoryReport construye el generador.
func NewMarotoHistoryReport() *MarotoHistoryReport {
	return &MarotoHistoryReport{now: time.Now}
}

// GenerateHistoryPDF genera el PDF y devuelve sus bytes.
func (g *MarotoHistoryReport) GenerateHistoryPDF(ctx context.Context, report ports.HistoryReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(report.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report.Title, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if report.Product != nil {
		m.AddRows(productRow(report.Product))
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	}

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(report.Entries)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(summarize(report.Entries)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, generated time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
		),
		col.New(4).Add(
			text.New("Generado: "+generated.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// productRow: ficha del producto con su estado de alerta y un QR con su id.
func productRow(p *entity.Product) core.Row {
	status := domaininv.ClassifyProduct(p)
	statusColor := colorGray
	if status.NeedsRestock() {
		statusColor = colorAlert
	}
	return row.New(24).Add(
		col.New(9).Add(
			text.New(p.Name, props.Text{Style: fontstyle.Bold, Size: 11, Top: 2}),
			text.New(fmt.Sprintf("Stock actual: %d   |   Umbral de alerta: %d   |   Precio de venta: %s",
				p.StockQuantity, p.AlertThreshold, nonEmpty(p.SellingPrice, "-")),
				props.Text{Size: 8, Top: 9, Color: colorGray}),
			text.New("Estado: "+statusLabel(status), props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 15, Color: statusColor,
			}),
		),
		col.New(3).Add(code.NewQr(p.ID, props.Rect{Percent: 90, Center: true})),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Producto", 2, align.Left),
		h("Ant.", 1, align.Right),
		h("Nuevo", 1, align.Right),
		h("Tipo", 1, align.Center),
		h("Usuario", 2, align.Left),
		h("Notas", 3, align.Left),
	)
}

func tableRows(entries []*entity.StockHistoryEntry) []core.Row {
	if len(entries) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos en el período.", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		))}
	}
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 7, Align: a, Top: 1}))
	}
	rows := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, row.New(6).Add(
			cell(e.CreatedAt.Format("02/01/2006 15:04"), 2, align.Left),
			cell(shortID(e.ProductID), 2, align.Left),
			cell(fmt.Sprint(e.PreviousQuantity), 1, align.Right),
			cell(fmt.Sprint(e.NewQuantity), 1, align.Right),
			cell(changeLabel(e.ChangeType), 1, align.Center),
			cell(e.CreatedBy, 2, align.Left),
			cell(e.Notes, 3, align.Left),
		))
	}
	return rows
}

func summaryRow(s reportSummary) core.Row {
	label := func(v string) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(v string) core.Component {
		return text.New(v, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(22).Add(
		col.New(6),
		col.New(4).Add(label("Movimientos:"), label("Subidas:"), label("Bajadas:"), label("Cambio neto:")),
		col.New(2).Add(
			value(fmt.Sprint(s.Entries)),
			value(fmt.Sprint(s.Increases)),
			value(fmt.Sprint(s.Decreases)),
			value(fmt.Sprintf("%+d", s.NetChange)),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

type reportSummary struct {
	Entries   int
	Increases int
	Decreases int
	NetChange int
}

func summarize(entries []*entity.StockHistoryEntry) reportSummary {
	s := reportSummary{Entries: len(entries)}
	for _, e := range entries {
		if e.ChangeType == entity.ChangeTypeIncrease {
			s.Increases++
		} else {
			s.Decreases++
		}
		s.NetChange += e.NewQuantity - e.PreviousQuantity
	}
	return s
}

func statusLabel(s domaininv.AlertStatus) string {
	switch s {
	case domaininv.AlertOut:
		return "AGOTADO"
	case domaininv.AlertLow:
		return "STOCK BAJO"
	default:
		return "OK"
	}
}

func changeLabel(t string) string {
	if t == entity.ChangeTypeIncrease {
		return "Subida"
	}
	return "Bajada"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
