package mapping

import (
	"github.com/poledger/po_settlement_app/internal/core/domain"
	"github.com/poledger/po_settlement_app/internal/models"
)

// ToModelProject converts a domain ProjectSummary to a model Project
func ToModelProject(d domain.ProjectSummary) models.Project {
	return models.Project{
		ProjectCode: d.ProjectCode,
		Name:        d.Name,
		ClientName:  d.ClientName,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProject converts a model Project to a domain ProjectSummary
func ToDomainProject(m models.Project) domain.ProjectSummary {
	return domain.ProjectSummary{
		ProjectCode: m.ProjectCode,
		Name:        m.Name,
		ClientName:  m.ClientName,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
