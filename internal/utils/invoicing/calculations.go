// Package invoicing holds the pure money, numbering, scheduling and
// aggregation rules of the invoice engine. Nothing in here touches storage.
package invoicing

import (
	"fmt"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places money is rounded to.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds d to MoneyPlaces, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// LineItemInput is the quantity and price of one line item.
type LineItemInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Totals is the result of ComputeTotals.
type Totals struct {
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	LineAmounts []decimal.Decimal // Rounded quantity x unitPrice, one per input item
}

// ComputeTotals derives subtotal, tax and total for a set of line items.
//
// The subtotal is the rounded sum of the unrounded line products. Tax is
// computed from the rounded subtotal and rounded; total is built from the
// rounded parts, so total == subtotal + tax - discount holds exactly.
func ComputeTotals(items []LineItemInput, taxRate *decimal.Decimal, discount *decimal.Decimal) (Totals, error) {
	rawSubtotal := decimal.Zero
	amounts := make([]decimal.Decimal, len(items))
	for i, item := range items {
		if item.Quantity.IsNegative() {
			return Totals{}, fmt.Errorf("%w: line item %d has a negative quantity", apperrors.ErrValidation, i)
		}
		if item.UnitPrice.IsNegative() {
			return Totals{}, fmt.Errorf("%w: line item %d has a negative unit price", apperrors.ErrValidation, i)
		}
		product := item.Quantity.Mul(item.UnitPrice)
		amounts[i] = RoundMoney(product)
		rawSubtotal = rawSubtotal.Add(product)
	}

	if taxRate != nil && (taxRate.IsNegative() || taxRate.GreaterThan(hundred)) {
		return Totals{}, fmt.Errorf("%w: tax rate %s is outside [0, 100]", apperrors.ErrValidation, taxRate.String())
	}
	disc := decimal.Zero
	if discount != nil {
		if discount.IsNegative() {
			return Totals{}, fmt.Errorf("%w: discount cannot be negative", apperrors.ErrValidation)
		}
		disc = RoundMoney(*discount)
	}

	subtotal := RoundMoney(rawSubtotal)
	tax := decimal.Zero
	if taxRate != nil && taxRate.IsPositive() {
		tax = RoundMoney(subtotal.Mul(*taxRate).Div(hundred))
	}
	if disc.GreaterThan(subtotal.Add(tax)) {
		return Totals{}, fmt.Errorf("%w: discount %s exceeds subtotal plus tax", apperrors.ErrValidation, disc.StringFixed(MoneyPlaces))
	}

	return Totals{
		Subtotal:    subtotal,
		TaxAmount:   tax,
		Discount:    disc,
		Total:       RoundMoney(subtotal.Add(tax).Sub(disc)),
		LineAmounts: amounts,
	}, nil
}
