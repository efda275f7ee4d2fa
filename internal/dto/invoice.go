package dto

import (
	"time"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	"github.com/SscSPs/invoice_flow_app/internal/utils/invoicing"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one line of a create or update invoice request.
// Quantity and price are checked by the totals calculator, not by binding tags.
type LineItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// CreateInvoiceRequest defines the data needed to create a new invoice.
type CreateInvoiceRequest struct {
	ClientID          string                    `json:"clientID" binding:"required"`
	IssueDate         *time.Time                `json:"issueDate"` // Defaults to now
	DueDate           *time.Time                `json:"dueDate"`
	LineItems         []LineItemRequest         `json:"lineItems" binding:"required,min=1,dive"`
	TaxRate           *decimal.Decimal          `json:"taxRate"`
	DiscountAmount    *decimal.Decimal          `json:"discountAmount"`
	Currency          *string                   `json:"currency" binding:"omitempty,oneof=USD EUR GBP CAD AUD"`
	Notes             *string                   `json:"notes"`
	Terms             *string                   `json:"terms"`
	IsRecurring       bool                      `json:"isRecurring"`
	RecurringInterval *domain.RecurringInterval `json:"recurringInterval" binding:"omitempty,oneof=WEEKLY BIWEEKLY MONTHLY QUARTERLY YEARLY"`
}

// UpdateInvoiceRequest defines the data allowed for updating a draft invoice.
// A nil LineItems slice keeps the existing items.
type UpdateInvoiceRequest struct {
	ClientID          *string                   `json:"clientID"`
	IssueDate         *time.Time                `json:"issueDate"`
	DueDate           *time.Time                `json:"dueDate"`
	LineItems         []LineItemRequest         `json:"lineItems" binding:"omitempty,min=1,dive"`
	TaxRate           *decimal.Decimal          `json:"taxRate"`
	DiscountAmount    *decimal.Decimal          `json:"discountAmount"`
	Currency          *string                   `json:"currency" binding:"omitempty,oneof=USD EUR GBP CAD AUD"`
	Notes             *string                   `json:"notes"`
	Terms             *string                   `json:"terms"`
	IsRecurring       *bool                     `json:"isRecurring"`
	RecurringInterval *domain.RecurringInterval `json:"recurringInterval" binding:"omitempty,oneof=WEEKLY BIWEEKLY MONTHLY QUARTERLY YEARLY"`
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	Status    string `form:"status" binding:"omitempty,oneof=DRAFT SENT VIEWED PARTIALLY_PAID PAID OVERDUE CANCELLED"`
	ClientID  string `form:"clientID"`
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// ListInvoicesResponse wraps a page of invoices and the token for the next page.
type ListInvoicesResponse struct {
	Invoices  []domain.InvoiceSummary `json:"invoices"`
	NextToken *string                 `json:"nextToken,omitempty"`
}

// RecordPaymentRequest records a manual payment against an invoice.
type RecordPaymentRequest struct {
	Amount        decimal.Decimal      `json:"amount"`
	Method        domain.PaymentMethod `json:"method" binding:"required,oneof=STRIPE PAYPAL BANK_TRANSFER CASH CHECK OTHER"`
	TransactionID *string              `json:"transactionId"`
	Notes         *string              `json:"notes"`
}

// RemindInvoiceRequest selects the reminder wording. Tone defaults to friendly.
type RemindInvoiceRequest struct {
	Tone domain.ReminderTone `json:"tone" binding:"omitempty,oneof=friendly firm final"`
}

// ToggleRecurringRequest turns the recurring schedule of an invoice on or off.
type ToggleRecurringRequest struct {
	IsRecurring bool                      `json:"isRecurring"`
	Interval    *domain.RecurringInterval `json:"interval" binding:"omitempty,oneof=WEEKLY BIWEEKLY MONTHLY QUARTERLY YEARLY"`
}

// SendInvoiceResponse reports the sent invoice and, if delivery failed, the email error.
// The status change is kept even when the email could not be delivered.
type SendInvoiceResponse struct {
	Invoice    *domain.Invoice `json:"invoice"`
	EmailError *string         `json:"emailError,omitempty"`
}

// CheckoutSessionResponse carries the hosted payment page URL.
type CheckoutSessionResponse struct {
	URL string `json:"url"`
}

// PublicInvoiceResponse is what a client sees through the public view link.
type PublicInvoiceResponse struct {
	Invoice *domain.Invoice   `json:"invoice"`
	Sender  domain.SenderInfo `json:"sender"`
}

// ToListInvoicesResponse converts a page of invoices to its response DTO.
func ToListInvoicesResponse(invoices []domain.Invoice, nextToken *string) ListInvoicesResponse {
	out := make([]domain.InvoiceSummary, len(invoices))
	for i := range invoices {
		out[i] = invoicing.Summarize(&invoices[i])
	}
	return ListInvoicesResponse{Invoices: out, NextToken: nextToken}
}
