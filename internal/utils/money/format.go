// Package money formats amounts for documents and emails.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// Precision returns the number of minor digits of an ISO currency code, defaulting to 2.
// Example: USD returns 2, JPY returns 0.
func Precision(code string) int {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}

// FormatWithPrecision rounds the amount half away from zero and groups thousands.
// Example: 1234.5 with precision 2 returns "1,234.50"
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	rounded := amount.Round(int32(precision))
	return printer.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(precision)))
}

// Format prefixes the grouped amount with its ISO code.
// Example: 1234.5 USD returns "USD 1,234.50"
func Format(amount decimal.Decimal, code string) string {
	return code + " " + FormatWithPrecision(amount, Precision(code))
}
