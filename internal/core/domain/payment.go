package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates how a payment was made.
type PaymentMethod string

const (
	PaymentMethodStripe       PaymentMethod = "STRIPE"
	PaymentMethodPaypal       PaymentMethod = "PAYPAL"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCheck        PaymentMethod = "CHECK"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// IsValid reports whether m is a recognised payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodStripe, PaymentMethodPaypal, PaymentMethodBankTransfer,
		PaymentMethodCash, PaymentMethodCheck, PaymentMethodOther:
		return true
	}
	return false
}

// Payment is an immutable record of money received against an invoice.
type Payment struct {
	PaymentID     string          `json:"paymentID"`
	InvoiceID     string          `json:"invoiceID"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	TransactionID *string         `json:"transactionId,omitempty"` // Stored, not deduplicated
	Notes         *string         `json:"notes,omitempty"`
	PaidAt        time.Time       `json:"paidAt"`
}

// GatewayEventType is the normalized kind of a payment gateway webhook.
type GatewayEventType string

const (
	GatewayEventPaymentCompleted GatewayEventType = "payment_completed"
	GatewayEventIgnored          GatewayEventType = "ignored"
)

// GatewayEvent is a webhook payload normalized by a payment gateway adapter.
type GatewayEvent struct {
	Type          GatewayEventType `json:"type"`
	InvoiceID     string           `json:"invoiceId,omitempty"`
	Amount        decimal.Decimal  `json:"amount"`
	TransactionID string           `json:"transactionId,omitempty"`
}
