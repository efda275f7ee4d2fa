package mapping

import (
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	"github.com/SscSPs/invoice_flow_app/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:       d.UserID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CompanyName:  d.CompanyName,
		Address:      d.Address,
		City:         d.City,
		State:        d.State,
		ZipCode:      d.ZipCode,
		Country:      d.Country,
		Phone:        d.Phone,
		TaxID:        d.TaxID,
		Currency:     d.Currency,
		AuditFields:  ToModelAuditFields(d.AuditFields),
		DeletedAt:    d.DeletedAt,
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:       m.UserID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		BusinessSettings: domain.BusinessSettings{
			CompanyName: m.CompanyName,
			Address:     m.Address,
			City:        m.City,
			State:       m.State,
			ZipCode:     m.ZipCode,
			Country:     m.Country,
			Phone:       m.Phone,
			TaxID:       m.TaxID,
			Currency:    m.Currency,
		},
		AuditFields: ToDomainAuditFields(m.AuditFields),
		DeletedAt:   m.DeletedAt,
	}
}
