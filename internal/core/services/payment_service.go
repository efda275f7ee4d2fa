package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_flow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/dto"
)

// paymentService implements the PaymentSvcFacade interface
type paymentService struct {
	BaseService
	invoices portssvc.InvoiceSvcFacade
	owners   portsrepo.InvoiceReader
	gateway  portssvc.PaymentGateway
	timeout  time.Duration
}

// NewPaymentService creates a new payment service. A nil gateway disables online checkout.
func NewPaymentService(invoices portssvc.InvoiceSvcFacade, owners portsrepo.InvoiceReader, gateway portssvc.PaymentGateway, timeout time.Duration) portssvc.PaymentSvcFacade {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &paymentService{invoices: invoices, owners: owners, gateway: gateway, timeout: timeout}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// CreateCheckoutSession opens a hosted payment page for the invoice's amount due.
func (s *paymentService) CreateCheckoutSession(ctx context.Context, ownerID, invoiceID string) (string, error) {
	if s.gateway == nil {
		return "", apperrors.NewDependencyError("online payments are not configured", nil)
	}
	inv, err := s.invoices.GetInvoiceByID(ctx, ownerID, invoiceID)
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	url, err := s.gateway.CreateCheckoutSession(callCtx, inv)
	if err != nil {
		s.LogError(ctx, err, "Failed to create checkout session", slog.String("invoice_id", invoiceID))
		return "", err
	}
	return url, nil
}

// HandleWebhook records the payment reported by a gateway webhook as a STRIPE payment.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte) (*domain.Invoice, error) {
	if s.gateway == nil {
		return nil, apperrors.NewDependencyError("online payments are not configured", nil)
	}
	event, err := s.gateway.ParseWebhook(payload)
	if err != nil {
		return nil, err
	}
	if event.Type != domain.GatewayEventPaymentCompleted {
		s.LogDebug(ctx, "Ignoring payment gateway event")
		return nil, nil
	}
	if event.InvoiceID == "" {
		return nil, fmt.Errorf("%w: payment event carries no invoice id", apperrors.ErrValidation)
	}

	ownerID, err := s.owners.FindInvoiceOwnerID(ctx, event.InvoiceID)
	if err != nil {
		return nil, err
	}
	req := dto.RecordPaymentRequest{Amount: event.Amount, Method: domain.PaymentMethodStripe}
	if event.TransactionID != "" {
		txID := event.TransactionID
		req.TransactionID = &txID
	}
	inv, err := s.invoices.RecordPayment(ctx, ownerID, event.InvoiceID, req)
	if err != nil {
		s.LogError(ctx, err, "Failed to record gateway payment",
			slog.String("invoice_id", event.InvoiceID), slog.String("transaction_id", event.TransactionID))
		return nil, err
	}
	return inv, nil
}
