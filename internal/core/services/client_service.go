package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_flow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/dto"
)

// defaultClientPageSize applies when a listing does not ask for a limit.
const defaultClientPageSize = 50

// clientService implements the ClientSvcFacade interface
type clientService struct {
	BaseService
	clientRepo portsrepo.ClientRepositoryFacade
}

// ClientServiceOption is a functional option for configuring the client service
type ClientServiceOption func(*clientService)

// WithClientClock replaces the wall clock, mostly for tests.
func WithClientClock(clock func() time.Time) ClientServiceOption {
	return func(s *clientService) {
		s.clock = clock
	}
}

// NewClientService creates a new client service.
func NewClientService(repo portsrepo.ClientRepositoryFacade, options ...ClientServiceOption) portssvc.ClientSvcFacade {
	svc := &clientService{clientRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ClientSvcFacade = (*clientService)(nil)

// CreateClient stores a new client for the owner.
func (s *clientService) CreateClient(ctx context.Context, ownerID string, req dto.CreateClientRequest) (*domain.Client, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" {
		return nil, apperrors.NewValidationFailedError("client name and email are required")
	}

	now := s.Now()
	client := domain.Client{
		ClientID:    uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Email:       email,
		Phone:       req.Phone,
		Company:     req.Company,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
		Country:     domain.DefaultClientCountry,
		Notes:       req.Notes,
		AuditFields: domain.NewAuditFields(ownerID, now),
	}
	if req.Country != nil && *req.Country != "" {
		client.Country = strings.ToUpper(*req.Country)
	}

	if err := s.clientRepo.SaveClient(ctx, client); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewDuplicateError("a client with email " + email + " already exists")
		}
		s.LogError(ctx, err, "Failed to save client", slog.String("owner_id", ownerID))
		return nil, err
	}
	s.LogInfo(ctx, "Client created", slog.String("client_id", client.ClientID))
	return &client, nil
}

// GetClientByID retrieves an owner's client.
func (s *clientService) GetClientByID(ctx context.Context, ownerID, clientID string) (*domain.Client, error) {
	return s.clientRepo.FindClientByID(ctx, ownerID, clientID)
}

// ListClients lists an owner's clients, optionally filtered by a search term.
func (s *clientService) ListClients(ctx context.Context, ownerID string, params dto.ListClientsParams) ([]domain.Client, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultClientPageSize
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	clients, err := s.clientRepo.ListClients(ctx, ownerID, strings.TrimSpace(params.Search), limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list clients", slog.String("owner_id", ownerID))
		return nil, err
	}
	return clients, nil
}

// UpdateClient applies the provided fields to a client.
func (s *clientService) UpdateClient(ctx context.Context, ownerID, clientID string, req dto.UpdateClientRequest) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, ownerID, clientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationFailedError("client name cannot be empty")
		}
		client.Name = name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email == "" {
			return nil, apperrors.NewValidationFailedError("client email cannot be empty")
		}
		client.Email = email
	}
	if req.Phone != nil {
		client.Phone = req.Phone
	}
	if req.Company != nil {
		client.Company = req.Company
	}
	if req.Address != nil {
		client.Address = req.Address
	}
	if req.City != nil {
		client.City = req.City
	}
	if req.State != nil {
		client.State = req.State
	}
	if req.ZipCode != nil {
		client.ZipCode = req.ZipCode
	}
	if req.Country != nil && *req.Country != "" {
		client.Country = strings.ToUpper(*req.Country)
	}
	if req.Notes != nil {
		client.Notes = req.Notes
	}
	client.Touch(ownerID, s.Now())

	if err := s.clientRepo.UpdateClient(ctx, *client); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewDuplicateError("a client with email " + client.Email + " already exists")
		}
		s.LogError(ctx, err, "Failed to update client", slog.String("client_id", clientID))
		return nil, err
	}
	return client, nil
}

// DeleteClient removes a client that no invoice references.
func (s *clientService) DeleteClient(ctx context.Context, ownerID, clientID string) error {
	if err := s.clientRepo.DeleteClient(ctx, ownerID, clientID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrInvalidState) {
			s.LogError(ctx, err, "Failed to delete client", slog.String("client_id", clientID))
		}
		return err
	}
	s.LogInfo(ctx, "Client deleted", slog.String("client_id", clientID))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
