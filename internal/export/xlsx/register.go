// Package xlsx exports invoices as spreadsheets.
package xlsx

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
)

// SheetName is the name of the worksheet holding the invoice register.
const SheetName = "Invoices"

const dateLayout = "2006-01-02"

var headings = []string{"Number", "Client", "Status", "Issue Date", "Due Date", "Currency", "Total", "Paid", "Due"}

// InvoiceRegister writes one row per invoice followed by a totals row and returns the workbook bytes.
func InvoiceRegister(invoices []domain.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range headings {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, err
		}
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headings), 1)
		_ = f.SetCellStyle(SheetName, "A1", last, style)
	}

	total, paid := decimal.Zero, decimal.Zero
	row := 2
	for _, inv := range invoices {
		if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", row), &[]any{
			inv.InvoiceNumber,
			clientName(inv),
			string(inv.Status),
			inv.IssueDate.Format(dateLayout),
			formatDate(inv),
			inv.Currency,
			inv.Total.InexactFloat64(),
			inv.AmountPaid.InexactFloat64(),
			inv.AmountDue().InexactFloat64(),
		}); err != nil {
			return nil, err
		}
		total = total.Add(inv.Total)
		paid = paid.Add(inv.AmountPaid)
		row++
	}

	// Sums mix currencies when an owner bills in several.
	if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", row), &[]any{
		"Total", "", "", "", "", "",
		total.InexactFloat64(),
		paid.InexactFloat64(),
		total.Sub(paid).InexactFloat64(),
	}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func clientName(inv domain.Invoice) string {
	if inv.Client == nil {
		return ""
	}
	return inv.Client.DisplayName()
}

func formatDate(inv domain.Invoice) string {
	if inv.DueDate == nil {
		return ""
	}
	return inv.DueDate.Format(dateLayout)
}
