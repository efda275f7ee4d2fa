package mapping

import (
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	"github.com/SscSPs/invoice_flow_app/internal/models"
)

// ToModelAuditFields converts audit fields to their column form. Timestamps are stored in UTC.
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	m := models.AuditFields(d)
	m.CreatedAt = m.CreatedAt.UTC()
	m.LastUpdatedAt = m.LastUpdatedAt.UTC()
	return m
}

func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields(m)
}
