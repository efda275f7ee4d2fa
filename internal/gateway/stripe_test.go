package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
)

func dueInvoice() *domain.Invoice {
	return &domain.Invoice{
		InvoiceID:     "inv-42",
		InvoiceNumber: "INV-2024-0042",
		Status:        domain.StatusSent,
		Client:        &domain.Client{Email: "jane@example.com"},
		Currency:      "EUR",
		Total:         decimal.RequireFromString("100.50"),
		AmountPaid:    decimal.RequireFromString("20.005"),
	}
}

func TestAmountDueCents(t *testing.T) {
	assert.Equal(t, int64(8050), AmountDueCents(dueInvoice()))
}

func TestCreateCheckoutSession(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "sk_test", user)
		require.NoError(t, r.ParseForm())
		form = map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_1","url":"https://checkout.stripe.test/cs_1"}`))
	}))
	defer srv.Close()

	g := NewStripeGateway(srv.URL+"/v1", "sk_test", "https://app.example.com", time.Second)
	url, err := g.CreateCheckoutSession(context.Background(), dueInvoice())

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.test/cs_1", url)
	assert.Equal(t, "8050", form["line_items[0][price_data][unit_amount]"])
	assert.Equal(t, "eur", form["line_items[0][price_data][currency]"])
	assert.Equal(t, "inv-42", form["metadata[invoiceId]"])
	assert.Equal(t, "jane@example.com", form["customer_email"])
	assert.Equal(t, "https://app.example.com/invoice/inv-42", form["cancel_url"])
	assert.Equal(t, "https://app.example.com/invoice/inv-42/success?session_id={CHECKOUT_SESSION_ID}", form["success_url"])
}

func TestCreateCheckoutSession_Refusals(t *testing.T) {
	g := NewStripeGateway("http://127.0.0.1:0", "sk_test", "https://app.example.com", time.Second)

	paid := dueInvoice()
	paid.Status = domain.StatusPaid
	_, err := g.CreateCheckoutSession(context.Background(), paid)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	cancelled := dueInvoice()
	cancelled.Status = domain.StatusCancelled
	_, err = g.CreateCheckoutSession(context.Background(), cancelled)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	settled := dueInvoice()
	settled.AmountPaid = settled.Total
	_, err = g.CreateCheckoutSession(context.Background(), settled)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreateCheckoutSession_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid currency"}}`))
	}))
	defer srv.Close()

	g := NewStripeGateway(srv.URL, "sk_test", "https://app.example.com", time.Second)
	_, err := g.CreateCheckoutSession(context.Background(), dueInvoice())

	assert.ErrorIs(t, err, apperrors.ErrDependency)
	assert.Contains(t, err.Error(), "Invalid currency")
}

func TestCreateCheckoutSession_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	g := NewStripeGateway(base, "sk_test", "https://app.example.com", time.Second)
	_, err := g.CreateCheckoutSession(context.Background(), dueInvoice())
	assert.ErrorIs(t, err, apperrors.ErrDependency)
}

func TestParseWebhook(t *testing.T) {
	g := NewStripeGateway("", "", "", 0)

	tests := []struct {
		name    string
		payload string
		want    domain.GatewayEvent
	}{
		{
			name:    "checkout completed",
			payload: `{"type":"checkout.session.completed","data":{"object":{"amount_total":8050,"payment_intent":"pi_1","metadata":{"invoiceId":"inv-42"}}}}`,
			want:    domain.GatewayEvent{Type: domain.GatewayEventPaymentCompleted, InvoiceID: "inv-42", Amount: decimal.RequireFromString("80.50"), TransactionID: "pi_1"},
		},
		{
			name:    "intent succeeded",
			payload: `{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_2","amount":1999,"metadata":{"invoiceId":"inv-7"}}}}`,
			want:    domain.GatewayEvent{Type: domain.GatewayEventPaymentCompleted, InvoiceID: "inv-7", Amount: decimal.RequireFromString("19.99"), TransactionID: "pi_2"},
		},
		{
			name:    "other event",
			payload: `{"type":"customer.created","data":{"object":{}}}`,
			want:    domain.GatewayEvent{Type: domain.GatewayEventIgnored},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := g.ParseWebhook([]byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.want.Type, ev.Type)
			assert.Equal(t, tt.want.InvoiceID, ev.InvoiceID)
			assert.Equal(t, tt.want.TransactionID, ev.TransactionID)
			assert.True(t, tt.want.Amount.Equal(ev.Amount), "amount %s", ev.Amount)
		})
	}
}

func TestParseWebhook_Malformed(t *testing.T) {
	g := NewStripeGateway("", "", "", 0)
	_, err := g.ParseWebhook([]byte(`{not json`))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
