package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/dto"
	"github.com/SscSPs/invoice_flow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// clientHandler handles HTTP requests related to clients.
type clientHandler struct {
	clientService portssvc.ClientSvcFacade
}

func newClientHandler(cs portssvc.ClientSvcFacade) *clientHandler {
	return &clientHandler{clientService: cs}
}

// registerClientRoutes registers routes related to clients.
func registerClientRoutes(rg *gin.RouterGroup, clientService portssvc.ClientSvcFacade) {
	h := newClientHandler(clientService)

	clients := rg.Group("/clients")
	{
		clients.POST("", h.createClient)
		clients.GET("", h.listClients)
		clients.GET("/:clientID", h.getClient)
		clients.PUT("/:clientID", h.updateClient)
		clients.DELETE("/:clientID", h.deleteClient)
	}
}

// createClient godoc
// @Summary Create a new client
// @Description Creates a client of the logged-in owner. Country defaults to US.
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   client body dto.CreateClientRequest true "Client details"
// @Success 201 {object} dto.ClientResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 409 {object} ErrorResponse "A client with this email already exists"
// @Failure 500 {object} ErrorResponse "Failed to create client"
// @Security BearerAuth
// @Router /clients [post]
func (h *clientHandler) createClient(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req dto.CreateClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), owner, req)
	if err != nil {
		respondError(c, err, "Failed to create client")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Client created successfully", slog.String("client_id", client.ClientID))
	c.JSON(http.StatusCreated, dto.ToClientResponse(client))
}

// getClient godoc
// @Summary Get a client by ID
// @Tags clients
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Success 200 {object} dto.ClientResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Client not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve client"
// @Security BearerAuth
// @Router /clients/{clientID} [get]
func (h *clientHandler) getClient(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	client, err := h.clientService.GetClientByID(c.Request.Context(), owner, c.Param("clientID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve client")
		return
	}
	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// listClients godoc
// @Summary List clients
// @Description Lists the logged-in owner's clients by name, optionally filtered by a search over name, email and company.
// @Tags clients
// @Produce  json
// @Param   search query string false "Search term"
// @Param   limit query int false "Limit number of results" default(50)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListClientsResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list clients"
// @Security BearerAuth
// @Router /clients [get]
func (h *clientHandler) listClients(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var params dto.ListClientsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	clients, err := h.clientService.ListClients(c.Request.Context(), owner, params)
	if err != nil {
		respondError(c, err, "Failed to list clients")
		return
	}
	c.JSON(http.StatusOK, dto.ToListClientsResponse(clients, params.Limit, params.Offset))
}

// updateClient godoc
// @Summary Update a client
// @Description Updates the provided fields of a client.
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Param   client body dto.UpdateClientRequest true "Fields to update"
// @Success 200 {object} dto.ClientResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Client not found"
// @Failure 409 {object} ErrorResponse "Email already used by another client"
// @Failure 500 {object} ErrorResponse "Failed to update client"
// @Security BearerAuth
// @Router /clients/{clientID} [put]
func (h *clientHandler) updateClient(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req dto.UpdateClientRequest
	if !bindJSON(c, &req) {
		return
	}
	client, err := h.clientService.UpdateClient(c.Request.Context(), owner, c.Param("clientID"), req)
	if err != nil {
		respondError(c, err, "Failed to update client")
		return
	}
	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// deleteClient godoc
// @Summary Delete a client
// @Description Deletes a client that no invoice references.
// @Tags clients
// @Param   clientID path string true "Client ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Client not found"
// @Failure 409 {object} ErrorResponse "Client still has invoices"
// @Failure 500 {object} ErrorResponse "Failed to delete client"
// @Security BearerAuth
// @Router /clients/{clientID} [delete]
func (h *clientHandler) deleteClient(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	if err := h.clientService.DeleteClient(c.Request.Context(), owner, c.Param("clientID")); err != nil {
		respondError(c, err, "Failed to delete client")
		return
	}
	c.Status(http.StatusNoContent)
}
