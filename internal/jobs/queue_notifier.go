package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/middleware"
)

// Enqueuer is the subset of *asynq.Client the notifier needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueNotifier defers email delivery to the worker.
type QueueNotifier struct {
	queue Enqueuer
}

var _ portssvc.Notifier = (*QueueNotifier)(nil)

// NewQueueNotifier creates a notifier that enqueues email tasks.
func NewQueueNotifier(queue Enqueuer) *QueueNotifier {
	return &QueueNotifier{queue: queue}
}

func (n *QueueNotifier) SendInvoice(ctx context.Context, inv *domain.Invoice, sender domain.SenderInfo) error {
	return n.enqueue(ctx, TaskEmailInvoice, inv, EmailPayload{Sender: sender})
}

func (n *QueueNotifier) SendReminder(ctx context.Context, inv *domain.Invoice, sender domain.SenderInfo, tone domain.ReminderTone) error {
	if !tone.IsValid() {
		return apperrors.NewValidationFailedError("unknown reminder tone")
	}
	return n.enqueue(ctx, TaskEmailReminder, inv, EmailPayload{Sender: sender, Tone: tone})
}

func (n *QueueNotifier) SendPaymentConfirmation(ctx context.Context, inv *domain.Invoice, sender domain.SenderInfo, amount decimal.Decimal) error {
	return n.enqueue(ctx, TaskEmailPayment, inv, EmailPayload{Sender: sender, Amount: amount})
}

func (n *QueueNotifier) enqueue(ctx context.Context, taskType string, inv *domain.Invoice, payload EmailPayload) error {
	if inv.ClientEmail() == "" {
		return apperrors.NewValidationFailedError("client email is required")
	}
	payload.OwnerID = inv.OwnerID
	payload.InvoiceID = inv.InvoiceID

	task, err := NewEmailTask(taskType, payload)
	if err != nil {
		return apperrors.NewAppError(500, "failed to build email task", err)
	}
	info, err := n.queue.EnqueueContext(ctx, task)
	if err != nil {
		return apperrors.NewDependencyError("failed to queue email", err)
	}
	middleware.GetLoggerFromCtx(ctx).Debug("Email queued",
		slog.String("task", taskType),
		slog.String("task_id", info.ID),
		slog.String("invoice_id", inv.InvoiceID))
	return nil
}
