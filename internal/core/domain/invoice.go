package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// DefaultInvoiceCurrency is used when neither the request nor the owner settings name a currency.
const DefaultInvoiceCurrency = "USD"

// RecurringInterval is the cadence at which a recurring invoice spawns its successor.
type RecurringInterval string

const (
	IntervalWeekly    RecurringInterval = "WEEKLY"
	IntervalBiweekly  RecurringInterval = "BIWEEKLY"
	IntervalMonthly   RecurringInterval = "MONTHLY"
	IntervalQuarterly RecurringInterval = "QUARTERLY"
	IntervalYearly    RecurringInterval = "YEARLY"
)

// IsValid reports whether i is a known interval.
func (i RecurringInterval) IsValid() bool {
	switch i {
	case IntervalWeekly, IntervalBiweekly, IntervalMonthly, IntervalQuarterly, IntervalYearly:
		return true
	}
	return false
}

// ReminderTone selects the wording of a payment reminder.
type ReminderTone string

const (
	ToneFriendly ReminderTone = "friendly"
	ToneFirm     ReminderTone = "firm"
	ToneFinal    ReminderTone = "final"
)

// IsValid reports whether t is a known tone.
func (t ReminderTone) IsValid() bool {
	return t == ToneFriendly || t == ToneFirm || t == ToneFinal
}

// LineItem is one billable entry on an invoice.
type LineItem struct {
	LineItemID  string          `json:"lineItemID"`
	InvoiceID   string          `json:"invoiceID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"` // quantity x unitPrice, rounded to 2 places
	SortOrder   int             `json:"sortOrder"`
}

// Invoice is a billing document for a client.
type Invoice struct {
	InvoiceID         string             `json:"invoiceID"`
	OwnerID           string             `json:"ownerID"`
	InvoiceNumber     string             `json:"invoiceNumber"` // {PREFIX}-{YEAR}-{SEQ}
	Status            InvoiceStatus      `json:"status"`
	ClientID          string             `json:"clientID"`
	Client            *Client            `json:"client,omitempty"`
	IssueDate         time.Time          `json:"issueDate"`
	DueDate           *time.Time         `json:"dueDate,omitempty"`
	LineItems         []LineItem         `json:"lineItems"`
	Subtotal          decimal.Decimal    `json:"subtotal"`
	TaxRate           *decimal.Decimal   `json:"taxRate,omitempty"` // Percentage 0..100
	TaxAmount         decimal.Decimal    `json:"taxAmount"`
	DiscountAmount    decimal.Decimal    `json:"discountAmount"`
	Total             decimal.Decimal    `json:"total"`
	AmountPaid        decimal.Decimal    `json:"amountPaid"`
	Currency          string             `json:"currency"`
	Notes             *string            `json:"notes,omitempty"`
	Terms             *string            `json:"terms,omitempty"`
	SentAt            *time.Time         `json:"sentAt,omitempty"`
	ViewedAt          *time.Time         `json:"viewedAt,omitempty"`
	PaidAt            *time.Time         `json:"paidAt,omitempty"`
	IsRecurring       bool               `json:"isRecurring"`
	RecurringInterval *RecurringInterval `json:"recurringInterval,omitempty"`
	NextRecurringDate *time.Time         `json:"nextRecurringDate,omitempty"`
	ViewToken         string             `json:"-"`
	Payments          []Payment          `json:"payments,omitempty"`
	Activities        []Activity         `json:"activities,omitempty"`
	AuditFields
}

// AmountDue is total minus what has been paid. It is negative after an overpayment.
func (inv *Invoice) AmountDue() decimal.Decimal {
	return inv.Total.Sub(inv.AmountPaid)
}

// ClientEmail returns the email of the attached client snapshot, if any.
func (inv *Invoice) ClientEmail() string {
	if inv.Client == nil {
		return ""
	}
	return inv.Client.Email
}

// Validate checks the structural invariants of an invoice.
func (inv *Invoice) Validate() error {
	if inv.ClientID == "" {
		return fmt.Errorf("%w: client is required", apperrors.ErrValidation)
	}
	if len(inv.LineItems) == 0 {
		return fmt.Errorf("%w: at least one line item is required", apperrors.ErrValidation)
	}
	for i, item := range inv.LineItems {
		if item.Description == "" {
			return fmt.Errorf("%w: line item %d has an empty description", apperrors.ErrValidation, i)
		}
		if !item.Quantity.IsPositive() {
			return fmt.Errorf("%w: line item %d quantity must be positive", apperrors.ErrValidation, i)
		}
	}
	if inv.DueDate != nil && inv.DueDate.Before(inv.IssueDate) {
		return fmt.Errorf("%w: due date is before issue date", apperrors.ErrValidation)
	}
	if inv.IsRecurring {
		if inv.RecurringInterval == nil || !inv.RecurringInterval.IsValid() {
			return fmt.Errorf("%w: recurring invoices require a valid interval", apperrors.ErrValidation)
		}
	} else {
		if inv.RecurringInterval != nil {
			return fmt.Errorf("%w: interval set on a non-recurring invoice", apperrors.ErrValidation)
		}
		if inv.NextRecurringDate != nil {
			return fmt.Errorf("%w: next recurring date set on a non-recurring invoice", apperrors.ErrValidation)
		}
	}
	return nil
}
