package repositories

import (
	"context"

	"github.com/poledger/po_settlement_app/internal/core/domain"
)

// ProjectReader defines read operations for project data
type ProjectReader interface {
	// FindProjectByCode retrieves a project summary by its code.
	FindProjectByCode(ctx context.Context, projectCode string) (*domain.ProjectSummary, error)
}

// ProjectWriter defines write operations for project data
type ProjectWriter interface {
	// SaveProject persists a new project summary.
	SaveProject(ctx context.Context, project domain.ProjectSummary) error
}

// ProjectRepositoryFacade combines all project-related repository interfaces
type ProjectRepositoryFacade interface {
	ProjectReader
	ProjectWriter
}
