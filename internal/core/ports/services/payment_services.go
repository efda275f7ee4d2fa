package services

import (
	"context"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
)

// PaymentSvcFacade defines online payment operations through the payment gateway.
type PaymentSvcFacade interface {
	// CreateCheckoutSession opens a hosted payment page for the amount due and returns its URL.
	CreateCheckoutSession(ctx context.Context, ownerID, invoiceID string) (string, error)

	// HandleWebhook parses a gateway webhook and records the payment it reports.
	// Events that do not complete a payment return a nil invoice.
	HandleWebhook(ctx context.Context, payload []byte) (*domain.Invoice, error)
}
