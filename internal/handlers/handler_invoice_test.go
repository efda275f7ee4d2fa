package handlers_test

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	"github.com/SscSPs/invoice_flow_app/internal/dto"
	"github.com/SscSPs/invoice_flow_app/internal/handlers"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func sampleInvoice(status domain.InvoiceStatus) *domain.Invoice {
	return &domain.Invoice{
		InvoiceID:     "inv-1",
		OwnerID:       testOwnerID,
		InvoiceNumber: "INV-2024-0001",
		Status:        status,
		ClientID:      "client-1",
		Client:        &domain.Client{ClientID: "client-1", Name: "Acme", Email: "billing@acme.test"},
		IssueDate:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Subtotal:      decimal.NewFromInt(100),
		TaxAmount:     decimal.NewFromInt(10),
		Total:         decimal.NewFromInt(110),
		Currency:      "USD",
	}
}

func (suite *HandlerTestSuite) TestCreateInvoice_Success() {
	body := map[string]any{
		"clientID":  "client-1",
		"lineItems": []map[string]any{{"description": "Design", "quantity": "2", "unitPrice": "50"}},
		"taxRate":   "10",
	}
	suite.mockInvoice.On("CreateInvoice", mock.Anything, testOwnerID, mock.MatchedBy(func(req dto.CreateInvoiceRequest) bool {
		return req.ClientID == "client-1" && len(req.LineItems) == 1 &&
			req.LineItems[0].Quantity.Equal(decimal.NewFromInt(2)) &&
			req.TaxRate != nil && req.TaxRate.Equal(decimal.NewFromInt(10))
	})).Return(sampleInvoice(domain.StatusDraft), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices", body, testOwnerID)

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var got domain.Invoice
	suite.decode(w, &got)
	suite.Equal("INV-2024-0001", got.InvoiceNumber)
	suite.Equal(domain.StatusDraft, got.Status)
	suite.True(got.Total.Equal(decimal.NewFromInt(110)))
}

func (suite *HandlerTestSuite) TestCreateInvoice_BindingFailure() {
	w := suite.do(http.MethodPost, "/api/v1/invoices", map[string]any{"clientID": "client-1"}, testOwnerID)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "Invalid request format")
}

func (suite *HandlerTestSuite) TestCreateInvoice_ValidationFromService() {
	suite.mockInvoice.On("CreateInvoice", mock.Anything, testOwnerID, mock.Anything).
		Return(nil, apperrors.NewValidationFailedError("quantity must be positive")).Once()

	body := map[string]any{
		"clientID":  "client-1",
		"lineItems": []map[string]any{{"description": "Design", "quantity": "0", "unitPrice": "50"}},
	}
	w := suite.do(http.MethodPost, "/api/v1/invoices", body, testOwnerID)

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp map[string]string
	suite.decode(w, &resp)
	suite.Equal("quantity must be positive", resp["error"])
}

func (suite *HandlerTestSuite) TestGetInvoice_NotFound() {
	suite.mockInvoice.On("GetInvoiceByID", mock.Anything, testOwnerID, "missing").
		Return(nil, apperrors.NewNotFoundError("invoice missing not found")).Once()

	w := suite.do(http.MethodGet, "/api/v1/invoices/missing", nil, testOwnerID)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestGetInvoice_StorageFailureHidesDetail() {
	suite.mockInvoice.On("GetInvoiceByID", mock.Anything, testOwnerID, "inv-1").
		Return(nil, apperrors.NewAppError(http.StatusInternalServerError, "query failed", errors.New("pq: connection reset"))).Once()

	w := suite.do(http.MethodGet, "/api/v1/invoices/inv-1", nil, testOwnerID)

	suite.Equal(http.StatusBadGateway, w.Code)
	suite.NotContains(w.Body.String(), "connection reset")
}

func (suite *HandlerTestSuite) TestListInvoices() {
	next := "abc"
	suite.mockInvoice.On("ListInvoices", mock.Anything, testOwnerID, dto.ListInvoicesParams{Status: "SENT", Limit: 20}).
		Return(&dto.ListInvoicesResponse{
			Invoices:  []domain.InvoiceSummary{{InvoiceID: "inv-1", InvoiceNumber: "INV-2024-0001", Status: domain.StatusSent}},
			NextToken: &next,
		}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/invoices?status=SENT", nil, testOwnerID)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ListInvoicesResponse
	suite.decode(w, &resp)
	suite.Len(resp.Invoices, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("abc", *resp.NextToken)
}

func (suite *HandlerTestSuite) TestListInvoices_InvalidStatus() {
	w := suite.do(http.MethodGet, "/api/v1/invoices?status=LOST", nil, testOwnerID)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteInvoice_NonDraftConflict() {
	suite.mockInvoice.On("DeleteInvoice", mock.Anything, testOwnerID, "inv-1").
		Return(apperrors.NewInvalidStateError("only draft invoices can be deleted")).Once()

	w := suite.do(http.MethodDelete, "/api/v1/invoices/inv-1", nil, testOwnerID)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteInvoice_NoContent() {
	suite.mockInvoice.On("DeleteInvoice", mock.Anything, testOwnerID, "inv-1").Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/invoices/inv-1", nil, testOwnerID)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestSendInvoice_EmailFailureStillSucceeds() {
	sent := sampleInvoice(domain.StatusSent)
	suite.mockInvoice.On("SendInvoice", mock.Anything, testOwnerID, "inv-1").
		Return(sent, apperrors.NewDependencyError("failed to send invoice email", errors.New("smtp down")), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-1/send", nil, testOwnerID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SendInvoiceResponse
	suite.decode(w, &resp)
	suite.Equal(domain.StatusSent, resp.Invoice.Status)
	suite.Require().NotNil(resp.EmailError)
	suite.Equal("failed to send invoice email", *resp.EmailError)
}

func (suite *HandlerTestSuite) TestSendInvoice_Delivered() {
	suite.mockInvoice.On("SendInvoice", mock.Anything, testOwnerID, "inv-1").
		Return(sampleInvoice(domain.StatusSent), nil, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-1/send", nil, testOwnerID)

	suite.Equal(http.StatusOK, w.Code)
	suite.NotContains(w.Body.String(), "emailError")
}

func (suite *HandlerTestSuite) TestCancelInvoice_PaidRejected() {
	suite.mockInvoice.On("CancelInvoice", mock.Anything, testOwnerID, "inv-1").
		Return(nil, apperrors.NewInvalidStateError("paid invoices cannot be cancelled")).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-1/cancel", nil, testOwnerID)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestRemindInvoice_EmptyBodyUsesDefaultTone() {
	suite.mockInvoice.On("RemindInvoice", mock.Anything, testOwnerID, "inv-1", domain.ReminderTone("")).
		Return(sampleInvoice(domain.StatusOverdue), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-1/remind", nil, testOwnerID)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *HandlerTestSuite) TestRemindInvoice_WithTone() {
	suite.mockInvoice.On("RemindInvoice", mock.Anything, testOwnerID, "inv-1", domain.ToneFinal).
		Return(sampleInvoice(domain.StatusOverdue), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-1/remind", map[string]string{"tone": "final"}, testOwnerID)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *HandlerTestSuite) TestRemindInvoice_UnknownTone() {
	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-1/remind", map[string]string{"tone": "angry"}, testOwnerID)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestRecordPayment() {
	paid := sampleInvoice(domain.StatusPaid)
	paid.AmountPaid = paid.Total
	suite.mockInvoice.On("RecordPayment", mock.Anything, testOwnerID, "inv-1", mock.MatchedBy(func(req dto.RecordPaymentRequest) bool {
		return req.Amount.Equal(decimal.NewFromInt(110)) && req.Method == domain.PaymentMethodBankTransfer
	})).Return(paid, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-1/payments",
		map[string]any{"amount": "110", "method": "BANK_TRANSFER"}, testOwnerID)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var got domain.Invoice
	suite.decode(w, &got)
	suite.Equal(domain.StatusPaid, got.Status)
}

func (suite *HandlerTestSuite) TestRecordPayment_MissingMethod() {
	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-1/payments", map[string]any{"amount": "10"}, testOwnerID)

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp handlers.ErrorResponse
	suite.decode(w, &resp)
	suite.Equal("required", resp.Fields["Method"])
}

func (suite *HandlerTestSuite) TestCreateCheckout() {
	suite.mockPayment.On("CreateCheckoutSession", mock.Anything, testOwnerID, "inv-1").
		Return("https://checkout.test/session", nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-1/checkout", nil, testOwnerID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.CheckoutSessionResponse
	suite.decode(w, &resp)
	suite.Equal("https://checkout.test/session", resp.URL)
}

func (suite *HandlerTestSuite) TestCreateCheckout_GatewayDown() {
	suite.mockPayment.On("CreateCheckoutSession", mock.Anything, testOwnerID, "inv-1").
		Return("", apperrors.NewDependencyError("payment gateway request failed", errors.New("timeout"))).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-1/checkout", nil, testOwnerID)

	suite.Equal(http.StatusBadGateway, w.Code)
}

func (suite *HandlerTestSuite) TestToggleRecurring() {
	monthly := domain.IntervalMonthly
	updated := sampleInvoice(domain.StatusSent)
	updated.IsRecurring = true
	updated.RecurringInterval = &monthly
	suite.mockRecurring.On("ToggleRecurring", mock.Anything, testOwnerID, "inv-1", true, &monthly).
		Return(updated, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/invoices/inv-1/recurring",
		map[string]any{"isRecurring": true, "interval": "MONTHLY"}, testOwnerID)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *HandlerTestSuite) TestGenerateFromRecurring() {
	suite.mockRecurring.On("GenerateFromRecurring", mock.Anything, testOwnerID, "inv-1").
		Return(sampleInvoice(domain.StatusDraft), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-1/generate", nil, testOwnerID)

	suite.Equal(http.StatusCreated, w.Code)
}

func (suite *HandlerTestSuite) TestListRecurring() {
	inv := sampleInvoice(domain.StatusSent)
	inv.IsRecurring = true
	suite.mockRecurring.On("ListRecurring", mock.Anything, testOwnerID).Return([]domain.Invoice{*inv}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/invoices/recurring", nil, testOwnerID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListInvoicesResponse
	suite.decode(w, &resp)
	suite.Len(resp.Invoices, 1)
	suite.Nil(resp.NextToken)
}

func (suite *HandlerTestSuite) TestDownloadPDF() {
	inv := sampleInvoice(domain.StatusSent)
	user := &domain.User{UserID: testOwnerID, Name: "Jane", Email: "jane@example.test"}
	suite.mockInvoice.On("GetInvoiceByID", mock.Anything, testOwnerID, "inv-1").Return(inv, nil).Once()
	suite.mockUser.On("GetUserByID", mock.Anything, testOwnerID).Return(user, nil).Once()
	suite.mockRenderer.On("RenderInvoice", mock.Anything, inv, mock.AnythingOfType("domain.SenderInfo")).
		Return([]byte("%PDF-1.3 test"), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/invoices/inv-1/pdf", nil, testOwnerID)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("application/pdf", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "INV-2024-0001.pdf")
	suite.True(strings.HasPrefix(w.Body.String(), "%PDF"))
}

func (suite *HandlerTestSuite) TestExportInvoices() {
	suite.mockInvoice.On("ListInvoicesForExport", mock.Anything, testOwnerID).
		Return([]domain.Invoice{*sampleInvoice(domain.StatusSent)}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/invoices/export", nil, testOwnerID)

	suite.Equal(http.StatusOK, w.Code)
	suite.True(strings.HasPrefix(w.Header().Get("Content-Type"), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
	suite.Contains(w.Header().Get("Content-Disposition"), "invoices.xlsx")
	// xlsx files are zip archives
	suite.True(strings.HasPrefix(w.Body.String(), "PK"))
}
