// Package notify renders and delivers invoice emails.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/middleware"
	"github.com/SscSPs/invoice_flow_app/internal/utils/money"
)

const dueDateLayout = "January 2, 2006"

type reminderCopy struct {
	subject string
	intro   string
}

var reminders = map[domain.ReminderTone]reminderCopy{
	domain.ToneFriendly: {
		subject: "Friendly reminder: Invoice %s is due soon",
		intro:   "This is a friendly reminder that the invoice below is coming due.",
	},
	domain.ToneFirm: {
		subject: "Payment overdue: Invoice %s",
		intro:   "Our records show the invoice below is past due. Please arrange payment at your earliest convenience.",
	},
	domain.ToneFinal: {
		subject: "Final notice: Invoice %s",
		intro:   "This is a final notice for the invoice below. Please settle the balance immediately.",
	},
}

// EmailNotifier renders invoice emails and hands them to a Mailer.
type EmailNotifier struct {
	mailer     Mailer
	fromEmail  string
	appBaseURL string
}

var _ portssvc.Notifier = (*EmailNotifier)(nil)

// NewEmailNotifier creates a notifier sending from fromEmail with links rooted at appBaseURL.
func NewEmailNotifier(mailer Mailer, fromEmail, appBaseURL string) *EmailNotifier {
	return &EmailNotifier{mailer: mailer, fromEmail: fromEmail, appBaseURL: appBaseURL}
}

// ViewURL is the public link of an invoice.
func (n *EmailNotifier) ViewURL(inv *domain.Invoice) string {
	return fmt.Sprintf("%s/i/%s", n.appBaseURL, inv.ViewToken)
}

// SendInvoice emails the invoice to its client.
func (n *EmailNotifier) SendInvoice(ctx context.Context, inv *domain.Invoice, sender domain.SenderInfo) error {
	data, err := n.baseData(inv, sender)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Invoice %s from %s", inv.InvoiceNumber, data.Sender)
	return n.deliver(ctx, inv, sender, subject, "invoice", data)
}

// SendReminder emails a payment reminder worded by tone.
func (n *EmailNotifier) SendReminder(ctx context.Context, inv *domain.Invoice, sender domain.SenderInfo, tone domain.ReminderTone) error {
	wording, ok := reminders[tone]
	if !ok {
		return apperrors.NewValidationFailedError(fmt.Sprintf("unknown reminder tone %q", tone))
	}
	data, err := n.baseData(inv, sender)
	if err != nil {
		return err
	}
	data.Intro = wording.intro
	return n.deliver(ctx, inv, sender, fmt.Sprintf(wording.subject, inv.InvoiceNumber), "reminder", data)
}

// SendPaymentConfirmation emails a receipt for amount.
func (n *EmailNotifier) SendPaymentConfirmation(ctx context.Context, inv *domain.Invoice, sender domain.SenderInfo, amount decimal.Decimal) error {
	data, err := n.baseData(inv, sender)
	if err != nil {
		return err
	}
	data.Amount = money.Format(amount, inv.Currency)
	data.Settled = !inv.AmountDue().IsPositive()
	return n.deliver(ctx, inv, sender, fmt.Sprintf("Payment received for Invoice %s", inv.InvoiceNumber), "payment", data)
}

func (n *EmailNotifier) baseData(inv *domain.Invoice, sender domain.SenderInfo) (emailData, error) {
	if inv.ClientEmail() == "" {
		return emailData{}, apperrors.NewValidationFailedError("client email is required")
	}
	data := emailData{
		Sender:     senderName(sender),
		ClientName: inv.Client.Name,
		Number:     inv.InvoiceNumber,
		AmountDue:  money.Format(inv.AmountDue(), inv.Currency),
		ViewURL:    n.ViewURL(inv),
	}
	if inv.DueDate != nil {
		data.DueDate = inv.DueDate.Format(dueDateLayout)
	}
	return data, nil
}

func (n *EmailNotifier) deliver(ctx context.Context, inv *domain.Invoice, sender domain.SenderInfo, subject, tmpl string, data emailData) error {
	body, err := render(tmpl, data)
	if err != nil {
		return apperrors.NewAppError(500, "failed to render email", err)
	}
	msg := Message{
		FromName:    data.Sender,
		FromAddress: n.fromEmail,
		To:          inv.ClientEmail(),
		Subject:     subject,
		HTMLBody:    body,
	}
	logger := middleware.GetLoggerFromCtx(ctx).With(
		slog.String("invoice_id", inv.InvoiceID),
		slog.String("template", tmpl),
	)
	if err := n.mailer.Send(ctx, msg); err != nil {
		logger.Error("Failed to deliver email", slog.String("error", err.Error()))
		return apperrors.NewDependencyError("failed to deliver email", err)
	}
	logger.Info("Email delivered", slog.String("to", msg.To))
	return nil
}

func senderName(sender domain.SenderInfo) string {
	if sender.Name == "" {
		return domain.DefaultSenderName
	}
	return sender.Name
}
