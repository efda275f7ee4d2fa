package repositories

import (
	"context"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
)

// ClientReader defines read operations for client data
type ClientReader interface {
	// FindClientByID retrieves an owner's client.
	FindClientByID(ctx context.Context, ownerID, clientID string) (*domain.Client, error)

	// ListClients retrieves an owner's clients, optionally filtered by a search term
	// matched against name, email and company.
	ListClients(ctx context.Context, ownerID string, search string, limit, offset int) ([]domain.Client, error)
}

// ClientWriter defines write operations for client data
type ClientWriter interface {
	// SaveClient persists a new client. Returns ErrDuplicate when the email is taken for the owner.
	SaveClient(ctx context.Context, client domain.Client) error

	// UpdateClient updates an existing client's details.
	UpdateClient(ctx context.Context, client domain.Client) error

	// DeleteClient removes a client. Returns ErrInvalidState while invoices reference it.
	DeleteClient(ctx context.Context, ownerID, clientID string) error
}

// ClientRepositoryFacade combines all client-related repository interfaces
type ClientRepositoryFacade interface {
	ClientReader
	ClientWriter
}
