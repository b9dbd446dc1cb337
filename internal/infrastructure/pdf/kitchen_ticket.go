// Package pdf genera el ticket de cocina de un pedido.
//
// Layout de la página A6:
//
//	┌───────────────────────────────────┐
//	│  Restaurante        │  Mesa / Hora │
//	│  ───────────────────────────────  │
//	│  Qtd | Prato + notas  | Estado    │
//	│  ───────────────────────────────  │
//	│  Total              │  QR pedido  │
//	└───────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

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

	"github.com/jhoicas/menu-engine/internal/application/ports"
	"github.com/jhoicas/menu-engine/internal/domain/entity"
)

var _ ports.TicketRenderer = (*KitchenTicketRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 150, Green: 40, Blue: 20}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// KitchenTicketRenderer implementa ports.TicketRenderer usando Maroto v2.
type KitchenTicketRenderer struct{}

// NewKitchenTicketRenderer construye el generador.
func NewKitchenTicketRenderer() *KitchenTicketRenderer { return &KitchenTicketRenderer{} }

// RenderTicket genera el PDF y devuelve sus bytes.
func (g *KitchenTicketRenderer) RenderTicket(order *entity.Order, restaurantName string) ([]byte, error) {
	if order == nil {
		return nil, fmt.Errorf("pdf: pedido nulo")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A6).
		WithLeftMargin(6).WithRightMargin(6).
		WithTopMargin(6).WithBottomMargin(6).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Ticket de cozinha "+shortID(order.ID), true).
		WithAuthor(nonEmpty(restaurantName, "Restaurante"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(order, restaurantName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(itemsHeaderRow())
	m.AddRows(itemRows(order.Items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(order))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar ticket: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(order *entity.Order, restaurantName string) core.Row {
	left := col.New(7).Add(
		text.New(nonEmpty(restaurantName, "Restaurante"), props.Text{
			Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 1,
		}),
		text.New("Pedido "+shortID(order.ID), props.Text{Size: 8, Top: 8, Color: colorGray}),
	)
	if order.CustomerName != "" {
		left.Add(text.New(order.CustomerName, props.Text{Size: 8, Top: 13}))
	}
	return row.New(18).Add(
		left,
		col.New(5).Add(
			text.New("MESA "+order.TableID, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New(order.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func itemsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("Qtd", 2, align.Center),
		h("Prato", 7, align.Left),
		h("Estado", 3, align.Right),
	)
}

// itemRows una fila por línea; las notas van debajo del nombre en gris.
func itemRows(items []entity.OrderItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		height := 7.0
		name := col.New(7).Add(text.New(it.DishName, props.Text{Size: 9, Top: 1}))
		if notes := strings.TrimSpace(it.Notes); notes != "" {
			name.Add(text.New("» "+notes, props.Text{Size: 7, Top: 6, Color: colorGray}))
			height = 11
		}
		rows = append(rows, row.New(height).Add(
			col.New(2).Add(text.New(fmt.Sprintf("%dx", it.Quantity), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Center, Top: 1,
			})),
			name,
			col.New(3).Add(text.New(it.Status, props.Text{Size: 7, Align: align.Right, Top: 1.5})),
		))
	}
	return rows
}

func footerRow(order *entity.Order) core.Row {
	return row.New(26).Add(
		col.New(7).Add(
			text.New("TOTAL", props.Text{Style: fontstyle.Bold, Size: 9, Top: 2}),
			text.New(formatKz(order.Total().StringFixed(2)), props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 7,
			}),
			text.New("Estado: "+order.Status, props.Text{Size: 7, Top: 15, Color: colorGray}),
		),
		col.New(5).Add(code.NewQr(order.ID, props.Rect{Percent: 90, Center: true})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return "#" + strings.ToUpper(id[:8])
	}
	return "#" + strings.ToUpper(id)
}

// formatKz formatea un importe "1234567.50" como "1.234.567,50 Kz".
func formatKz(s string) string {
	intPart, frac, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")
	out := formatThousands(intPart)
	if frac != "" {
		out += "," + frac
	}
	if neg {
		out = "-" + out
	}
	return out + " Kz"
}

// formatThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
