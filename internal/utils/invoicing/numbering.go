package invoicing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultInvoicePrefix is used when no prefix is configured.
const DefaultInvoicePrefix = "INV"

// NextInvoiceNumber formats the number following lastSequence as
// {prefix}-{year}-{seq:04}. The year is taken from now, and the sequence
// does not restart when the year changes.
func NextInvoiceNumber(prefix string, lastSequence int, now time.Time) string {
	if prefix == "" {
		prefix = DefaultInvoicePrefix
	}
	if lastSequence < 0 {
		lastSequence = 0
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, now.Year(), lastSequence+1)
}

// ParseSequence returns the trailing numeric segment of an invoice number,
// or 0 when there is none.
func ParseSequence(invoiceNumber string) int {
	idx := strings.LastIndex(invoiceNumber, "-")
	tail := invoiceNumber[idx+1:]
	seq, err := strconv.Atoi(tail)
	if err != nil || seq < 0 {
		return 0
	}
	return seq
}
