package domain

import "time"

// ActivityAction names an entry of an invoice's audit trail.
type ActivityAction string

const (
	ActivityCreated         ActivityAction = "CREATED"
	ActivityUpdated         ActivityAction = "UPDATED"
	ActivitySent            ActivityAction = "SENT"
	ActivityViewed          ActivityAction = "VIEWED"
	ActivityPaymentReceived ActivityAction = "PAYMENT_RECEIVED"
	ActivityMarkedPaid      ActivityAction = "MARKED_PAID"
	ActivityReminderSent    ActivityAction = "REMINDER_SENT"
)

// Activity is an append-only audit entry on an invoice.
type Activity struct {
	ActivityID  string         `json:"activityID"`
	InvoiceID   string         `json:"invoiceID"`
	Action      ActivityAction `json:"action"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}
