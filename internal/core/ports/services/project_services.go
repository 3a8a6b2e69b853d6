package services

import (
	"context"

	"github.com/poledger/po_settlement_app/internal/core/domain"
	"github.com/poledger/po_settlement_app/internal/dto"
)

// ProjectReaderSvc defines read operations for project data, including the
// binding guard consumed by the purchase order ledger.
type ProjectReaderSvc interface {
	// GetProject retrieves a project summary by code.
	GetProject(ctx context.Context, projectCode string) (*domain.ProjectSummary, error)

	// HasActivePurchaseOrder reports whether the project already has an active
	// purchase order, and if so the conflicting PO number.
	HasActivePurchaseOrder(ctx context.Context, projectCode string) (bool, string, error)
}

// ProjectWriterSvc defines write operations for project data
type ProjectWriterSvc interface {
	// CreateProject persists a new project summary.
	CreateProject(ctx context.Context, req dto.CreateProjectRequest, creatorUserID string) (*domain.ProjectSummary, error)
}

// ProjectSvcFacade combines all project-related service interfaces
type ProjectSvcFacade interface {
	ProjectReaderSvc
	ProjectWriterSvc
}
