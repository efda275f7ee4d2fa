package services

import (
	"context"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Notifier delivers invoice emails to clients.
type Notifier interface {
	SendInvoice(ctx context.Context, inv *domain.Invoice, sender domain.SenderInfo) error
	SendReminder(ctx context.Context, inv *domain.Invoice, sender domain.SenderInfo, tone domain.ReminderTone) error
	SendPaymentConfirmation(ctx context.Context, inv *domain.Invoice, sender domain.SenderInfo, amount decimal.Decimal) error
}

// PaymentGateway is an online card payment provider.
type PaymentGateway interface {
	// CreateCheckoutSession returns the URL of a hosted payment page for the amount due.
	CreateCheckoutSession(ctx context.Context, inv *domain.Invoice) (string, error)

	// ParseWebhook normalizes a webhook body into a gateway event.
	ParseWebhook(payload []byte) (*domain.GatewayEvent, error)
}

// DocumentRenderer produces the printable form of an invoice.
type DocumentRenderer interface {
	RenderInvoice(ctx context.Context, inv *domain.Invoice, sender domain.SenderInfo) ([]byte, error)
}

// ReportCache memoizes report aggregates per owner until the owner's data changes.
type ReportCache interface {
	// BuildKey composes a cache key that embeds the owner's current version.
	BuildKey(ctx context.Context, ownerID string, parts ...string) (string, error)

	// FetchJSON decodes the cached value at key into dest, populating it through loader on a miss.
	FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error

	// Bump invalidates every cached aggregate of the owner.
	Bump(ctx context.Context, ownerID string) error
}
