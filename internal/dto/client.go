package dto

import (
	"time"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
)

// CreateClientRequest defines the data needed to create a new client.
type CreateClientRequest struct {
	Name    string  `json:"name" binding:"required,max=200"`
	Email   string  `json:"email" binding:"required,email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zipCode"`
	Country *string `json:"country" binding:"omitempty,len=2"` // Defaults to US
	Notes   *string `json:"notes"`
}

// UpdateClientRequest defines the data allowed for updating a client.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateClientRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zipCode"`
	Country *string `json:"country" binding:"omitempty,len=2"`
	Notes   *string `json:"notes"`
}

// ListClientsParams defines query parameters for listing clients.
type ListClientsParams struct {
	Search string `form:"search"`
	Limit  int    `form:"limit,default=50" binding:"min=1,max=200"`
	Offset int    `form:"offset,default=0" binding:"min=0"`
}

// ClientResponse defines the data returned for a client.
type ClientResponse struct {
	ClientID      string    `json:"clientID"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone,omitempty"`
	Company       *string   `json:"company,omitempty"`
	Address       *string   `json:"address,omitempty"`
	City          *string   `json:"city,omitempty"`
	State         *string   `json:"state,omitempty"`
	ZipCode       *string   `json:"zipCode,omitempty"`
	Country       string    `json:"country"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ListClientsResponse wraps a page of clients.
type ListClientsResponse struct {
	Clients []ClientResponse `json:"clients"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// ToClientResponse converts a domain.Client to ClientResponse DTO.
func ToClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ClientID:      c.ClientID,
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		Company:       c.Company,
		Address:       c.Address,
		City:          c.City,
		State:         c.State,
		ZipCode:       c.ZipCode,
		Country:       c.Country,
		Notes:         c.Notes,
		CreatedAt:     c.CreatedAt,
		LastUpdatedAt: c.LastUpdatedAt,
	}
}

// ToListClientsResponse converts a page of clients to its response DTO.
func ToListClientsResponse(clients []domain.Client, limit, offset int) ListClientsResponse {
	out := make([]ClientResponse, len(clients))
	for i := range clients {
		out[i] = ToClientResponse(&clients[i])
	}
	return ListClientsResponse{Clients: out, Limit: limit, Offset: offset}
}
