package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/dto"
	"github.com/SscSPs/invoice_flow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxWebhookBytes bounds the webhook body read into memory.
const maxWebhookBytes = 64 << 10

// publicHandler serves the unauthenticated invoice view link and payment webhooks.
type publicHandler struct {
	invoiceService portssvc.InvoiceLifecycleSvc
	paymentService portssvc.PaymentSvcFacade
}

func registerPublicRoutes(r gin.IRouter, invoiceService portssvc.InvoiceLifecycleSvc, paymentService portssvc.PaymentSvcFacade) {
	h := &publicHandler{invoiceService: invoiceService, paymentService: paymentService}

	r.GET("/public/invoices/:token", h.viewInvoice)
	r.POST("/webhooks/payments", h.paymentWebhook)
}

// viewInvoice godoc
// @Summary View an invoice through its public link
// @Description Resolves a view token. The first view of a SENT invoice marks it VIEWED.
// @Tags public
// @Produce  json
// @Param   token path string true "View token"
// @Success 200 {object} dto.PublicInvoiceResponse
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 500 {object} ErrorResponse "Failed to load invoice"
// @Router /public/invoices/{token} [get]
func (h *publicHandler) viewInvoice(c *gin.Context) {
	inv, owner, err := h.invoiceService.ViewInvoice(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err, "Failed to load invoice")
		return
	}
	c.JSON(http.StatusOK, dto.PublicInvoiceResponse{Invoice: inv, Sender: owner.ToSenderInfo()})
}

// paymentWebhook godoc
// @Summary Payment gateway webhook
// @Description Records payments reported by the payment gateway. Other events are acknowledged and ignored.
// @Tags public
// @Accept  json
// @Produce  json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse "Malformed event"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 409 {object} ErrorResponse "Invoice cannot accept payments"
// @Router /webhooks/payments [post]
func (h *publicHandler) paymentWebhook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes)
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unable to read request body"})
		return
	}

	inv, err := h.paymentService.HandleWebhook(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err, "Failed to process webhook")
		return
	}
	if inv == nil {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	logger.Info("Gateway payment recorded", slog.String("invoice_id", inv.InvoiceID), slog.String("status", string(inv.Status)))
	c.JSON(http.StatusOK, gin.H{"received": true, "invoiceID": inv.InvoiceID, "status": inv.Status})
}
