package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/dto"
	"github.com/SscSPs/invoice_flow_app/internal/export/xlsx"
	"github.com/SscSPs/invoice_flow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// invoiceHandler handles HTTP requests related to invoices and their lifecycle.
type invoiceHandler struct {
	invoiceService   portssvc.InvoiceSvcFacade
	recurringService portssvc.RecurringSvcFacade
	paymentService   portssvc.PaymentSvcFacade
	userService      portssvc.UserSvcFacade
	renderer         portssvc.DocumentRenderer
}

func newInvoiceHandler(services *portssvc.ServiceContainer) *invoiceHandler {
	return &invoiceHandler{
		invoiceService:   services.Invoice,
		recurringService: services.Recurring,
		paymentService:   services.Payment,
		userService:      services.User,
		renderer:         services.Renderer,
	}
}

// registerInvoiceRoutes registers routes related to invoices.
func registerInvoiceRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newInvoiceHandler(services)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/recurring", h.listRecurring)
		invoices.GET("/export", h.exportInvoices)
		invoices.GET("/:invoiceID", h.getInvoice)
		invoices.PUT("/:invoiceID", h.updateInvoice)
		invoices.DELETE("/:invoiceID", h.deleteInvoice)
		invoices.GET("/:invoiceID/pdf", h.downloadPDF)

		invoices.POST("/:invoiceID/send", h.sendInvoice)
		invoices.POST("/:invoiceID/cancel", h.cancelInvoice)
		invoices.POST("/:invoiceID/remind", h.remindInvoice)
		invoices.POST("/:invoiceID/payments", h.recordPayment)
		invoices.POST("/:invoiceID/checkout", h.createCheckout)

		invoices.PUT("/:invoiceID/recurring", h.toggleRecurring)
		invoices.POST("/:invoiceID/generate", h.generateFromRecurring)
	}
}

// createInvoice godoc
// @Summary Create a new invoice
// @Description Creates a DRAFT invoice, computing its totals and assigning the next invoice number.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} domain.Invoice
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Client not found"
// @Failure 500 {object} ErrorResponse "Failed to create invoice"
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req dto.CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	inv, err := h.invoiceService.CreateInvoice(c.Request.Context(), owner, req)
	if err != nil {
		respondError(c, err, "Failed to create invoice")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Invoice created successfully",
		slog.String("invoice_id", inv.InvoiceID), slog.String("invoice_number", inv.InvoiceNumber))
	c.JSON(http.StatusCreated, inv)
}

// getInvoice godoc
// @Summary Get an invoice by ID
// @Description Retrieves an invoice with its client, line items, payments and activity log.
// @Tags invoices
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} domain.Invoice
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve invoice"
// @Security BearerAuth
// @Router /invoices/{invoiceID} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	inv, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), owner, c.Param("invoiceID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// listInvoices godoc
// @Summary List invoices
// @Description Lists the owner's invoices newest first using token-based pagination.
// @Tags invoices
// @Produce  json
// @Param   status query string false "Status filter"
// @Param   clientID query string false "Client filter"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters or token"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list invoices"
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), owner, params)
	if err != nil {
		respondError(c, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateInvoice godoc
// @Summary Update a draft invoice
// @Description Edits a DRAFT invoice and recomputes its totals.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   invoice body dto.UpdateInvoiceRequest true "Fields to update"
// @Success 200 {object} domain.Invoice
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 409 {object} ErrorResponse "Invoice is no longer a draft or was modified concurrently"
// @Failure 500 {object} ErrorResponse "Failed to update invoice"
// @Security BearerAuth
// @Router /invoices/{invoiceID} [put]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req dto.UpdateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	inv, err := h.invoiceService.UpdateInvoice(c.Request.Context(), owner, c.Param("invoiceID"), req)
	if err != nil {
		respondError(c, err, "Failed to update invoice")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// deleteInvoice godoc
// @Summary Delete a draft invoice
// @Tags invoices
// @Param   invoiceID path string true "Invoice ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 409 {object} ErrorResponse "Only drafts can be deleted"
// @Failure 500 {object} ErrorResponse "Failed to delete invoice"
// @Security BearerAuth
// @Router /invoices/{invoiceID} [delete]
func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), owner, c.Param("invoiceID")); err != nil {
		respondError(c, err, "Failed to delete invoice")
		return
	}
	c.Status(http.StatusNoContent)
}

// sendInvoice godoc
// @Summary Send an invoice
// @Description Marks a DRAFT invoice SENT and emails it to the client. The status change is kept when the email fails; the failure is reported in emailError.
// @Tags invoices
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.SendInvoiceResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 409 {object} ErrorResponse "Invoice is not a draft"
// @Failure 500 {object} ErrorResponse "Failed to send invoice"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/send [post]
func (h *invoiceHandler) sendInvoice(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	inv, emailErr, err := h.invoiceService.SendInvoice(c.Request.Context(), owner, c.Param("invoiceID"))
	if err != nil {
		respondError(c, err, "Failed to send invoice")
		return
	}
	resp := dto.SendInvoiceResponse{Invoice: inv}
	if emailErr != nil {
		msg := errorMessage(emailErr)
		resp.EmailError = &msg
	}
	c.JSON(http.StatusOK, resp)
}

// cancelInvoice godoc
// @Summary Cancel an invoice
// @Tags invoices
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} domain.Invoice
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 409 {object} ErrorResponse "Invoice cannot be cancelled in its current state"
// @Failure 500 {object} ErrorResponse "Failed to cancel invoice"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/cancel [post]
func (h *invoiceHandler) cancelInvoice(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	inv, err := h.invoiceService.CancelInvoice(c.Request.Context(), owner, c.Param("invoiceID"))
	if err != nil {
		respondError(c, err, "Failed to cancel invoice")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// remindInvoice godoc
// @Summary Send a payment reminder
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   reminder body dto.RemindInvoiceRequest false "Reminder tone"
// @Success 200 {object} domain.Invoice
// @Failure 400 {object} ErrorResponse "Unknown tone"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 409 {object} ErrorResponse "Invoice is not outstanding"
// @Failure 502 {object} ErrorResponse "Email delivery failed"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/remind [post]
func (h *invoiceHandler) remindInvoice(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req dto.RemindInvoiceRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	inv, err := h.invoiceService.RemindInvoice(c.Request.Context(), owner, c.Param("invoiceID"), req.Tone)
	if err != nil {
		respondError(c, err, "Failed to send reminder")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// recordPayment godoc
// @Summary Record a payment
// @Description Applies a manual payment to an invoice. Overpayment is accepted.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   payment body dto.RecordPaymentRequest true "Payment details"
// @Success 200 {object} domain.Invoice
// @Failure 400 {object} ErrorResponse "Invalid amount or method"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 409 {object} ErrorResponse "Invoice cannot accept payments"
// @Failure 500 {object} ErrorResponse "Failed to record payment"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/payments [post]
func (h *invoiceHandler) recordPayment(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	inv, err := h.invoiceService.RecordPayment(c.Request.Context(), owner, c.Param("invoiceID"), req)
	if err != nil {
		respondError(c, err, "Failed to record payment")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Payment recorded",
		slog.String("invoice_id", inv.InvoiceID), slog.String("amount", req.Amount.String()), slog.String("status", string(inv.Status)))
	c.JSON(http.StatusOK, inv)
}

// createCheckout godoc
// @Summary Create an online checkout session
// @Description Opens a hosted card payment page for the amount due.
// @Tags invoices
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.CheckoutSessionResponse
// @Failure 400 {object} ErrorResponse "Nothing left to pay"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 409 {object} ErrorResponse "Invoice is paid or cancelled"
// @Failure 502 {object} ErrorResponse "Payment gateway unavailable"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/checkout [post]
func (h *invoiceHandler) createCheckout(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	url, err := h.paymentService.CreateCheckoutSession(c.Request.Context(), owner, c.Param("invoiceID"))
	if err != nil {
		respondError(c, err, "Failed to create checkout session")
		return
	}
	c.JSON(http.StatusOK, dto.CheckoutSessionResponse{URL: url})
}

// toggleRecurring godoc
// @Summary Turn the recurring schedule on or off
// @Tags recurring
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   schedule body dto.ToggleRecurringRequest true "Schedule"
// @Success 200 {object} domain.Invoice
// @Failure 400 {object} ErrorResponse "Interval required"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 409 {object} ErrorResponse "Invoice is cancelled"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/recurring [put]
func (h *invoiceHandler) toggleRecurring(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req dto.ToggleRecurringRequest
	if !bindJSON(c, &req) {
		return
	}
	inv, err := h.recurringService.ToggleRecurring(c.Request.Context(), owner, c.Param("invoiceID"), req.IsRecurring, req.Interval)
	if err != nil {
		respondError(c, err, "Failed to update recurring schedule")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// generateFromRecurring godoc
// @Summary Generate the next invoice of a recurring invoice now
// @Tags recurring
// @Produce  json
// @Param   invoiceID path string true "Recurring invoice ID"
// @Success 201 {object} domain.Invoice
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 409 {object} ErrorResponse "Invoice is not recurring"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/generate [post]
func (h *invoiceHandler) generateFromRecurring(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	inv, err := h.recurringService.GenerateFromRecurring(c.Request.Context(), owner, c.Param("invoiceID"))
	if err != nil {
		respondError(c, err, "Failed to generate invoice")
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// listRecurring godoc
// @Summary List recurring invoices
// @Description Lists the owner's recurring invoices ordered by their next recurring date.
// @Tags recurring
// @Produce  json
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list recurring invoices"
// @Security BearerAuth
// @Router /invoices/recurring [get]
func (h *invoiceHandler) listRecurring(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	invoices, err := h.recurringService.ListRecurring(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err, "Failed to list recurring invoices")
		return
	}
	c.JSON(http.StatusOK, dto.ToListInvoicesResponse(invoices, nil))
}

// downloadPDF godoc
// @Summary Download an invoice as PDF
// @Tags invoices
// @Produce  application/pdf
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {file} binary
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 500 {object} ErrorResponse "Failed to render invoice"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/pdf [get]
func (h *invoiceHandler) downloadPDF(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	if h.renderer == nil {
		respondError(c, apperrors.NewDependencyError("document renderer not configured", nil), "Failed to render invoice")
		return
	}
	ctx := c.Request.Context()
	inv, err := h.invoiceService.GetInvoiceByID(ctx, owner, c.Param("invoiceID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve invoice")
		return
	}
	user, err := h.userService.GetUserByID(ctx, owner)
	if err != nil {
		respondError(c, err, "Failed to load business settings")
		return
	}
	doc, err := h.renderer.RenderInvoice(ctx, inv, user.ToSenderInfo())
	if err != nil {
		respondError(c, err, "Failed to render invoice")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, inv.InvoiceNumber))
	c.Data(http.StatusOK, "application/pdf", doc)
}

// exportInvoices godoc
// @Summary Export the invoice register
// @Description Downloads every invoice of the owner as an Excel workbook.
// @Tags invoices
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to export invoices"
// @Security BearerAuth
// @Router /invoices/export [get]
func (h *invoiceHandler) exportInvoices(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	invoices, err := h.invoiceService.ListInvoicesForExport(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err, "Failed to export invoices")
		return
	}
	data, err := xlsx.InvoiceRegister(invoices)
	if err != nil {
		respondError(c, err, "Failed to export invoices")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="invoices.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
