// Package gateway talks to the Stripe REST API for hosted card checkout.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
)

const (
	eventCheckoutCompleted = "checkout.session.completed"
	eventIntentSucceeded   = "payment_intent.succeeded"
)

var hundred = decimal.NewFromInt(100)

// StripeGateway creates checkout sessions and normalizes Stripe webhooks.
type StripeGateway struct {
	apiBase    string
	secretKey  string
	appBaseURL string
	http       *http.Client
}

var _ portssvc.PaymentGateway = (*StripeGateway)(nil)

// NewStripeGateway builds a gateway against apiBase, e.g. "https://api.stripe.com/v1".
func NewStripeGateway(apiBase, secretKey, appBaseURL string, timeout time.Duration) *StripeGateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &StripeGateway{
		apiBase:    strings.TrimRight(apiBase, "/"),
		secretKey:  secretKey,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		http:       &http.Client{Timeout: timeout},
	}
}

type checkoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type stripeErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// AmountDueCents converts the outstanding balance to minor units, rounding half away from zero.
func AmountDueCents(inv *domain.Invoice) int64 {
	return inv.AmountDue().Mul(hundred).Round(0).IntPart()
}

// CreateCheckoutSession opens a one-line-item checkout session for the invoice's amount due.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, inv *domain.Invoice) (string, error) {
	if inv.Status == domain.StatusPaid || inv.Status == domain.StatusCancelled {
		return "", apperrors.NewInvalidStateError(fmt.Sprintf("cannot collect payment for a %s invoice", inv.Status))
	}
	cents := AmountDueCents(inv)
	if cents <= 0 {
		return "", apperrors.NewValidationFailedError("invoice has no amount due")
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("client_reference_id", inv.InvoiceID)
	if email := inv.ClientEmail(); email != "" {
		form.Set("customer_email", email)
	}
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(inv.Currency))
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(cents, 10))
	form.Set("line_items[0][price_data][product_data][name]", "Invoice "+inv.InvoiceNumber)
	form.Set("line_items[0][price_data][product_data][description]", "Payment for invoice "+inv.InvoiceNumber)
	form.Set("metadata[invoiceId]", inv.InvoiceID)
	form.Set("metadata[invoiceNumber]", inv.InvoiceNumber)
	form.Set("success_url", fmt.Sprintf("%s/invoice/%s/success?session_id={CHECKOUT_SESSION_ID}", g.appBaseURL, inv.InvoiceID))
	form.Set("cancel_url", fmt.Sprintf("%s/invoice/%s", g.appBaseURL, inv.InvoiceID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiBase+"/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to build checkout request", err)
	}
	req.SetBasicAuth(g.secretKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", apperrors.NewDependencyError("payment gateway unreachable", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var se stripeErrorBody
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &se) == nil && se.Error.Message != "" {
			msg = se.Error.Message
		}
		return "", apperrors.NewDependencyError("payment gateway rejected checkout", fmt.Errorf("stripe api error %d: %s", resp.StatusCode, msg))
	}

	var session checkoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return "", apperrors.NewDependencyError("payment gateway returned an unreadable session", err)
	}
	if session.URL == "" {
		return "", apperrors.NewDependencyError("payment gateway returned no checkout url", nil)
	}
	return session.URL, nil
}

type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type sessionObject struct {
	AmountTotal   int64             `json:"amount_total"`
	PaymentIntent string            `json:"payment_intent"`
	Metadata      map[string]string `json:"metadata"`
}

type intentObject struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Metadata map[string]string `json:"metadata"`
}

// ParseWebhook maps completed checkouts and succeeded intents to payment events.
// Every other event type is reported as ignored.
func (g *StripeGateway) ParseWebhook(payload []byte) (*domain.GatewayEvent, error) {
	var ev webhookEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, apperrors.NewValidationFailedError("malformed webhook payload")
	}

	switch ev.Type {
	case eventCheckoutCompleted:
		var s sessionObject
		if err := json.Unmarshal(ev.Data.Object, &s); err != nil {
			return nil, apperrors.NewValidationFailedError("malformed checkout session")
		}
		return &domain.GatewayEvent{
			Type:          domain.GatewayEventPaymentCompleted,
			InvoiceID:     s.Metadata["invoiceId"],
			Amount:        fromCents(s.AmountTotal),
			TransactionID: s.PaymentIntent,
		}, nil
	case eventIntentSucceeded:
		var pi intentObject
		if err := json.Unmarshal(ev.Data.Object, &pi); err != nil {
			return nil, apperrors.NewValidationFailedError("malformed payment intent")
		}
		return &domain.GatewayEvent{
			Type:          domain.GatewayEventPaymentCompleted,
			InvoiceID:     pi.Metadata["invoiceId"],
			Amount:        fromCents(pi.Amount),
			TransactionID: pi.ID,
		}, nil
	default:
		return &domain.GatewayEvent{Type: domain.GatewayEventIgnored}, nil
	}
}

func fromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
