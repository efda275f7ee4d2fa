package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a row of the invoices table.
type Invoice struct {
	InvoiceID         string           `db:"invoice_id"`
	OwnerID           string           `db:"owner_id"`
	InvoiceNumber     string           `db:"invoice_number"`
	Status            string           `db:"status"`
	ClientID          string           `db:"client_id"`
	IssueDate         time.Time        `db:"issue_date"`
	DueDate           *time.Time       `db:"due_date"`
	Subtotal          decimal.Decimal  `db:"subtotal"`
	TaxRate           *decimal.Decimal `db:"tax_rate"`
	TaxAmount         decimal.Decimal  `db:"tax_amount"`
	DiscountAmount    decimal.Decimal  `db:"discount_amount"`
	Total             decimal.Decimal  `db:"total"`
	AmountPaid        decimal.Decimal  `db:"amount_paid"`
	Currency          string           `db:"currency"`
	Notes             *string          `db:"notes"`
	Terms             *string          `db:"terms"`
	SentAt            *time.Time       `db:"sent_at"`
	ViewedAt          *time.Time       `db:"viewed_at"`
	PaidAt            *time.Time       `db:"paid_at"`
	IsRecurring       bool             `db:"is_recurring"`
	RecurringInterval *string          `db:"recurring_interval"`
	NextRecurringDate *time.Time       `db:"next_recurring_date"`
	ViewToken         string           `db:"view_token"`
	AuditFields
}

// InvoiceWithClient is an invoice row joined with the columns of its client
// that lists and documents show.
type InvoiceWithClient struct {
	Invoice
	ClientName    string  `db:"client_name"`
	ClientEmail   string  `db:"client_email"`
	ClientCompany *string `db:"client_company"`
}

// LineItem is a row of the line_items table.
type LineItem struct {
	LineItemID  string          `db:"line_item_id"`
	InvoiceID   string          `db:"invoice_id"`
	Description string          `db:"description"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Amount      decimal.Decimal `db:"amount"`
	SortOrder   int             `db:"sort_order"`
}

// Payment is a row of the payments table. Rows are never updated.
type Payment struct {
	PaymentID     string          `db:"payment_id"`
	InvoiceID     string          `db:"invoice_id"`
	Amount        decimal.Decimal `db:"amount"`
	Method        string          `db:"method"`
	TransactionID *string         `db:"transaction_id"`
	Notes         *string         `db:"notes"`
	PaidAt        time.Time       `db:"paid_at"`
}

// Activity is a row of the activities table. Rows are never updated.
type Activity struct {
	ActivityID  string         `db:"activity_id"`
	InvoiceID   string         `db:"invoice_id"`
	Action      string         `db:"action"`
	Description string         `db:"description"`
	Metadata    map[string]any `db:"metadata"`
	CreatedAt   time.Time      `db:"created_at"`
}
