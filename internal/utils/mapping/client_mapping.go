package mapping

import (
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	"github.com/SscSPs/invoice_flow_app/internal/models"
)

// ToModelClient converts a domain Client to a model Client
func ToModelClient(d domain.Client) models.Client {
	return models.Client{
		ClientID:    d.ClientID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Email:       d.Email,
		Phone:       d.Phone,
		Company:     d.Company,
		Address:     d.Address,
		City:        d.City,
		State:       d.State,
		ZipCode:     d.ZipCode,
		Country:     d.Country,
		Notes:       d.Notes,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainClient converts a model Client to a domain Client
func ToDomainClient(m models.Client) domain.Client {
	return domain.Client{
		ClientID:    m.ClientID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		Company:     m.Company,
		Address:     m.Address,
		City:        m.City,
		State:       m.State,
		ZipCode:     m.ZipCode,
		Country:     m.Country,
		Notes:       m.Notes,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainClientSlice converts a slice of model Clients to a slice of domain Clients
func ToDomainClientSlice(ms []models.Client) []domain.Client {
	ds := make([]domain.Client, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainClient(m)
	}
	return ds
}
