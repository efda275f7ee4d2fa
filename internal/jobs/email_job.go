package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/middleware"
)

// InvoiceLoader resolves the invoice an email task refers to.
type InvoiceLoader interface {
	GetInvoiceByID(ctx context.Context, ownerID, invoiceID string) (*domain.Invoice, error)
}

// EmailJob delivers queued invoice emails through a direct notifier.
type EmailJob struct {
	Invoices InvoiceLoader
	Notifier portssvc.Notifier
	Logger   *slog.Logger
}

// NewEmailJob wires the email handlers.
func NewEmailJob(invoices InvoiceLoader, notifier portssvc.Notifier, logger *slog.Logger) *EmailJob {
	return &EmailJob{Invoices: invoices, Notifier: notifier, Logger: logger}
}

// Handle processes every email task type.
func (j *EmailJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Invoices == nil || j.Notifier == nil {
		return errors.New("email job: handler not configured")
	}
	var payload EmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	if payload.OwnerID == "" || payload.InvoiceID == "" {
		return fmt.Errorf("%s payload without invoice: %w", t.Type(), asynq.SkipRetry)
	}

	logger := j.logger().With(
		slog.String("task", t.Type()),
		slog.String("invoice_id", payload.InvoiceID))
	ctx = middleware.WithLogger(ctx, logger)

	inv, err := j.Invoices.GetInvoiceByID(ctx, payload.OwnerID, payload.InvoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Invoice vanished before email delivery")
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		return err
	}

	switch t.Type() {
	case TaskEmailInvoice:
		err = j.Notifier.SendInvoice(ctx, inv, payload.Sender)
	case TaskEmailReminder:
		err = j.Notifier.SendReminder(ctx, inv, payload.Sender, payload.Tone)
	case TaskEmailPayment:
		err = j.Notifier.SendPaymentConfirmation(ctx, inv, payload.Sender, payload.Amount)
	default:
		return fmt.Errorf("unknown email task %q: %w", t.Type(), asynq.SkipRetry)
	}
	if err != nil {
		// Only delivery failures are worth another attempt.
		if !errors.Is(err, apperrors.ErrDependency) {
			logger.Error("Email rejected", slog.String("error", err.Error()))
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		return err
	}
	return nil
}

func (j *EmailJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
