// Package jobs runs invoice work in the background on asynq.
package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
)

const (
	// QueueDefault is the queue every invoice task is enqueued on.
	QueueDefault = "default"

	TaskRecurringSweep = "invoice:recurring_sweep"
	TaskMarkOverdue    = "invoice:mark_overdue"
	TaskEmailInvoice   = "email:invoice"
	TaskEmailReminder  = "email:reminder"
	TaskEmailPayment   = "email:payment"

	// EmailMaxRetry bounds redelivery of a failed email.
	EmailMaxRetry = 5
)

// EmailPayload identifies the invoice an email is about. The sender is snapshotted at enqueue time.
type EmailPayload struct {
	OwnerID   string              `json:"ownerId"`
	InvoiceID string              `json:"invoiceId"`
	Sender    domain.SenderInfo   `json:"sender"`
	Tone      domain.ReminderTone `json:"tone,omitempty"`
	Amount    decimal.Decimal     `json:"amount"`
}

// SweepPayload carries nothing yet; the handler uses its own clock.
type SweepPayload struct {
	Trigger string `json:"trigger,omitempty"`
}

// NewEmailTask builds an email task of the given type.
func NewEmailTask(taskType string, payload EmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, data, asynq.MaxRetry(EmailMaxRetry), asynq.Queue(QueueDefault)), nil
}

// NewSweepTask builds a recurring-sweep or mark-overdue task.
func NewSweepTask(taskType, trigger string) (*asynq.Task, error) {
	data, err := json.Marshal(SweepPayload{Trigger: trigger})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, data, asynq.MaxRetry(1), asynq.Timeout(30*time.Minute), asynq.Queue(QueueDefault)), nil
}
