// Package pdf renders invoices as A4 documents.
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
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
	"github.com/shopspring/decimal"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/utils/money"
)

const dateLayout = "Jan 2, 2006"

var (
	colorPrimary = &props.Color{Red: 30, Green: 64, Blue: 175}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoRenderer implements DocumentRenderer with maroto v2.
type MarotoRenderer struct{}

var _ portssvc.DocumentRenderer = (*MarotoRenderer)(nil)

// NewMarotoRenderer builds the renderer.
func NewMarotoRenderer() *MarotoRenderer { return &MarotoRenderer{} }

// RenderInvoice lays the invoice out on A4 and returns the PDF bytes.
func (r *MarotoRenderer) RenderInvoice(_ context.Context, inv *domain.Invoice, sender domain.SenderInfo) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+inv.InvoiceNumber, true).
		WithAuthor(sender.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv, sender))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(inv, sender))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(itemsHeaderRow())
	m.AddRows(itemRows(inv)...)

	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(inv)...)

	if inv.Notes != nil && *inv.Notes != "" {
		m.AddRows(blockRows("Notes", *inv.Notes)...)
	}
	if inv.Terms != nil && *inv.Terms != "" {
		m.AddRows(blockRows("Terms", *inv.Terms)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to render invoice pdf", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(inv *domain.Invoice, sender domain.SenderInfo) core.Row {
	dates := "Issued: " + inv.IssueDate.Format(dateLayout)
	if inv.DueDate != nil {
		dates += "   Due: " + inv.DueDate.Format(dateLayout)
	}
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(sender.Name, domain.DefaultSenderName), props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(sender.Email, "-"), props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(inv.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New(dates, props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorGray}),
		),
	)
}

func partiesRow(inv *domain.Invoice, sender domain.SenderInfo) core.Row {
	from := addressLines(
		deref(sender.Settings.Address),
		joinNonEmpty(", ", deref(sender.Settings.City), deref(sender.Settings.State), deref(sender.Settings.ZipCode)),
		deref(sender.Settings.Country),
		deref(sender.Settings.Phone),
		prefixed("Tax ID: ", deref(sender.Settings.TaxID)),
	)

	var billName string
	var billTo string
	if c := inv.Client; c != nil {
		billName = c.DisplayName()
		billTo = addressLines(
			c.Email,
			deref(c.Address),
			joinNonEmpty(", ", deref(c.City), deref(c.State), deref(c.ZipCode)),
			c.Country,
		)
	}

	return row.New(30).Add(
		col.New(6).Add(
			text.New("FROM", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(from, "-"), props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("BILL TO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(billName, "-"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(nonEmpty(billTo, "-"), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func itemsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Description", 6, align.Left),
		h("Qty", 2, align.Right),
		h("Unit price", 2, align.Right),
		h("Amount", 2, align.Right),
	)
}

func itemRows(inv *domain.Invoice) []core.Row {
	rows := make([]core.Row, 0, len(inv.LineItems))
	for _, item := range inv.LineItems {
		rows = append(rows, row.New(7).Add(
			col.New(6).Add(text.New(item.Description, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(item.Quantity.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(money.Format(item.UnitPrice, inv.Currency), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(money.Format(item.Amount, inv.Currency), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalsRows(inv *domain.Invoice) []core.Row {
	type entry struct {
		label string
		value decimal.Decimal
		bold  bool
	}
	taxLabel := "Tax"
	if inv.TaxRate != nil {
		taxLabel = fmt.Sprintf("Tax (%s%%)", inv.TaxRate.String())
	}
	entries := []entry{
		{label: "Subtotal", value: inv.Subtotal},
		{label: taxLabel, value: inv.TaxAmount},
	}
	if inv.DiscountAmount.IsPositive() {
		entries = append(entries, entry{label: "Discount", value: inv.DiscountAmount.Neg()})
	}
	entries = append(entries,
		entry{label: "Total", value: inv.Total, bold: true},
		entry{label: "Paid", value: inv.AmountPaid},
		entry{label: "Amount due", value: inv.AmountDue(), bold: true},
	)

	rows := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		style := props.Text{Size: 9, Align: align.Right, Right: 1, Top: 1}
		if e.bold {
			style.Style = fontstyle.Bold
			style.Color = colorPrimary
		}
		rows = append(rows, row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(e.label, style)),
			col.New(3).Add(text.New(money.Format(e.value, inv.Currency), style)),
		))
	}
	return rows
}

func blockRows(title, body string) []core.Row {
	return []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 3}),
		)),
		row.New(10).Add(col.New(12).Add(
			text.New(body, props.Text{Size: 8, Color: colorGray}),
		)),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func prefixed(prefix, s string) string {
	if s == "" {
		return ""
	}
	return prefix + s
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func addressLines(parts ...string) string {
	return joinNonEmpty("\n", parts...)
}
