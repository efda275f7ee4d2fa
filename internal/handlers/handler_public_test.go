package handlers_test

import (
	"net/http"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	"github.com/SscSPs/invoice_flow_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestViewInvoice_Public() {
	company := "Jane Design Co"
	owner := &domain.User{UserID: testOwnerID, Name: "Jane", Email: "jane@example.test",
		BusinessSettings: domain.BusinessSettings{CompanyName: &company}}
	suite.mockInvoice.On("ViewInvoice", mock.Anything, "tok-123").
		Return(sampleInvoice(domain.StatusViewed), owner, nil).Once()

	w := suite.do(http.MethodGet, "/public/invoices/tok-123", nil, "")

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.PublicInvoiceResponse
	suite.decode(w, &resp)
	suite.Equal(domain.StatusViewed, resp.Invoice.Status)
	suite.Equal("Jane Design Co", resp.Sender.Name)
	suite.NotContains(w.Body.String(), "tok-123", "view token must not be echoed back")
}

func (suite *HandlerTestSuite) TestViewInvoice_UnknownToken() {
	suite.mockInvoice.On("ViewInvoice", mock.Anything, "nope").
		Return(nil, nil, apperrors.NewNotFoundError("invoice not found")).Once()

	w := suite.do(http.MethodGet, "/public/invoices/nope", nil, "")

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestPaymentWebhook_IgnoredEvent() {
	payload := `{"type":"customer.created","data":{"object":{}}}`
	suite.mockPayment.On("HandleWebhook", mock.Anything, []byte(payload)).Return(nil, nil).Once()

	w := suite.do(http.MethodPost, "/webhooks/payments", payload, "")

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"received":true}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestPaymentWebhook_PaymentRecorded() {
	payload := `{"type":"checkout.session.completed"}`
	paid := sampleInvoice(domain.StatusPaid)
	suite.mockPayment.On("HandleWebhook", mock.Anything, []byte(payload)).Return(paid, nil).Once()

	w := suite.do(http.MethodPost, "/webhooks/payments", payload, "")

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"received":true,"invoiceID":"inv-1","status":"PAID"}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestPaymentWebhook_Malformed() {
	suite.mockPayment.On("HandleWebhook", mock.Anything, []byte("not json")).
		Return(nil, apperrors.NewValidationFailedError("malformed gateway event")).Once()

	w := suite.do(http.MethodPost, "/webhooks/payments", "not json", "")

	suite.Equal(http.StatusBadRequest, w.Code)
}
