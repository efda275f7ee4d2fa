package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	StatusDraft         InvoiceStatus = "DRAFT"
	StatusSent          InvoiceStatus = "SENT"
	StatusViewed        InvoiceStatus = "VIEWED"
	StatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	StatusPaid          InvoiceStatus = "PAID"
	StatusOverdue       InvoiceStatus = "OVERDUE"
	StatusCancelled     InvoiceStatus = "CANCELLED"
)

// AllInvoiceStatuses lists every status in display order.
var AllInvoiceStatuses = []InvoiceStatus{
	StatusDraft, StatusSent, StatusViewed, StatusPartiallyPaid, StatusPaid, StatusOverdue, StatusCancelled,
}

// IsValid reports whether s is a known status.
func (s InvoiceStatus) IsValid() bool {
	for _, known := range AllInvoiceStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are accepted from s.
func (s InvoiceStatus) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// IsOutstanding reports whether an invoice in s is awaiting payment and not yet overdue.
func (s InvoiceStatus) IsOutstanding() bool {
	return s == StatusSent || s == StatusViewed || s == StatusPartiallyPaid
}

// CanRemind reports whether a payment reminder makes sense in s.
func (s InvoiceStatus) CanRemind() bool {
	return s.IsOutstanding() || s == StatusOverdue
}

// InvoiceEvent is a business event that drives the lifecycle.
type InvoiceEvent string

const (
	EventSend          InvoiceEvent = "SEND"
	EventView          InvoiceEvent = "VIEW"
	EventRecordPayment InvoiceEvent = "RECORD_PAYMENT"
	EventMarkOverdue   InvoiceEvent = "MARK_OVERDUE"
	EventCancel        InvoiceEvent = "CANCEL"
)

// allowedSources is the single table of which states accept which event.
var allowedSources = map[InvoiceEvent][]InvoiceStatus{
	EventSend:          {StatusDraft},
	EventView:          {StatusSent},
	EventRecordPayment: {StatusDraft, StatusSent, StatusViewed, StatusPartiallyPaid, StatusOverdue},
	EventMarkOverdue:   {StatusSent, StatusViewed, StatusPartiallyPaid},
	EventCancel:        {StatusDraft, StatusSent},
}

// CanTransition reports whether ev is accepted from s, ignoring event guards.
func (s InvoiceStatus) CanTransition(ev InvoiceEvent) bool {
	if s.IsTerminal() {
		return false
	}
	for _, from := range allowedSources[ev] {
		if from == s {
			return true
		}
	}
	return false
}

// TransitionInput carries the event and its arguments.
type TransitionInput struct {
	Event         InvoiceEvent
	ActorID       string
	Amount        decimal.Decimal // EventRecordPayment
	Method        PaymentMethod   // EventRecordPayment
	TransactionID *string         // EventRecordPayment
	Notes         *string         // EventRecordPayment
	AsOf          time.Time       // EventMarkOverdue: day the due date is checked against; zero means now
}

// TransitionResult is the computed next state of an invoice plus the records to append.
type TransitionResult struct {
	Invoice  Invoice
	From     InvoiceStatus
	Activity Activity
	Payment  *Payment // Only for EventRecordPayment
}

// Transition computes the state that results from applying in to inv at now.
// inv is not modified; callers persist the returned invoice together with the
// activity (and payment) in one atomic write.
func Transition(inv Invoice, in TransitionInput, now time.Time) (*TransitionResult, error) {
	if _, known := allowedSources[in.Event]; !known {
		return nil, fmt.Errorf("%w: unknown invoice event %q", apperrors.ErrValidation, in.Event)
	}
	if inv.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: invoice %s is %s and accepts no further changes", apperrors.ErrInvalidState, inv.InvoiceNumber, inv.Status)
	}
	if !inv.Status.CanTransition(in.Event) {
		return nil, fmt.Errorf("%w: cannot %s an invoice in status %s", apperrors.ErrInvalidState, eventVerb(in.Event), inv.Status)
	}

	from := inv.Status
	next := inv
	result := &TransitionResult{From: from}
	stamp := now

	switch in.Event {
	case EventSend:
		if inv.ClientEmail() == "" {
			return nil, fmt.Errorf("%w: client email is required to send invoice %s", apperrors.ErrValidation, inv.InvoiceNumber)
		}
		next.Status = StatusSent
		next.SentAt = &stamp
		result.Activity = newActivity(inv.InvoiceID, ActivitySent, "Invoice sent to "+inv.ClientEmail(), nil, now)

	case EventView:
		next.Status = StatusViewed
		next.ViewedAt = &stamp
		result.Activity = newActivity(inv.InvoiceID, ActivityViewed, "Invoice viewed by client", nil, now)

	case EventRecordPayment:
		amount := in.Amount.Round(2)
		if !amount.IsPositive() {
			return nil, fmt.Errorf("%w: payment amount must be greater than zero", apperrors.ErrValidation)
		}
		if !in.Method.IsValid() {
			return nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, in.Method)
		}
		next.AmountPaid = inv.AmountPaid.Add(amount)
		if next.AmountPaid.GreaterThanOrEqual(inv.Total) {
			next.Status = StatusPaid
			next.PaidAt = &stamp
		} else {
			next.Status = StatusPartiallyPaid
		}
		result.Payment = &Payment{
			PaymentID:     uuid.NewString(),
			InvoiceID:     inv.InvoiceID,
			Amount:        amount,
			Method:        in.Method,
			TransactionID: in.TransactionID,
			Notes:         in.Notes,
			PaidAt:        now,
		}
		result.Activity = newActivity(inv.InvoiceID, ActivityPaymentReceived,
			fmt.Sprintf("Payment of %s received via %s", amount.StringFixed(2), in.Method),
			map[string]any{"amount": amount.StringFixed(2), "method": string(in.Method)}, now)

	case EventMarkOverdue:
		asOf := now
		if !in.AsOf.IsZero() {
			asOf = in.AsOf
		}
		if inv.DueDate == nil || !startOfDay(*inv.DueDate, asOf.Location()).Before(startOfDay(asOf, asOf.Location())) {
			return nil, fmt.Errorf("%w: invoice %s is not past due", apperrors.ErrInvalidState, inv.InvoiceNumber)
		}
		next.Status = StatusOverdue
		result.Activity = newActivity(inv.InvoiceID, ActivityUpdated, "Invoice marked overdue",
			map[string]any{"status": string(StatusOverdue)}, now)

	case EventCancel:
		next.Status = StatusCancelled
		result.Activity = newActivity(inv.InvoiceID, ActivityUpdated, "Invoice cancelled",
			map[string]any{"status": string(StatusCancelled)}, now)
	}

	if in.ActorID != "" {
		next.Touch(in.ActorID, now)
	} else {
		next.LastUpdatedAt = now
	}
	result.Invoice = next
	return result, nil
}

func newActivity(invoiceID string, action ActivityAction, description string, metadata map[string]any, now time.Time) Activity {
	return Activity{
		ActivityID:  uuid.NewString(),
		InvoiceID:   invoiceID,
		Action:      action,
		Description: description,
		Metadata:    metadata,
		CreatedAt:   now,
	}
}

// NewActivity builds an audit entry outside of a status transition.
func NewActivity(invoiceID string, action ActivityAction, description string, metadata map[string]any, now time.Time) Activity {
	return newActivity(invoiceID, action, description, metadata, now)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func eventVerb(ev InvoiceEvent) string {
	switch ev {
	case EventSend:
		return "send"
	case EventView:
		return "view"
	case EventRecordPayment:
		return "record a payment on"
	case EventMarkOverdue:
		return "mark overdue"
	case EventCancel:
		return "cancel"
	}
	return string(ev)
}
