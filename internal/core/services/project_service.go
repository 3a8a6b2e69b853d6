package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/poledger/po_settlement_app/internal/apperrors"
	"github.com/poledger/po_settlement_app/internal/core/domain"
	portsrepo "github.com/poledger/po_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/poledger/po_settlement_app/internal/core/ports/services"
	"github.com/poledger/po_settlement_app/internal/dto"
)

// projectService backs the project collaborator consumed by the ledger: a
// registry of project summaries plus the active-PO binding guard.
type projectService struct {
	projectRepo portsrepo.ProjectRepositoryFacade
	poRepo      portsrepo.PurchaseOrderReader
}

// NewProjectService creates a new project service.
func NewProjectService(projectRepo portsrepo.ProjectRepositoryFacade, poRepo portsrepo.PurchaseOrderReader) portssvc.ProjectSvcFacade {
	return &projectService{
		projectRepo: projectRepo,
		poRepo:      poRepo,
	}
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

// GetProject retrieves a project summary by code.
func (s *projectService) GetProject(ctx context.Context, projectCode string) (*domain.ProjectSummary, error) {
	return s.projectRepo.FindProjectByCode(ctx, projectCode)
}

// HasActivePurchaseOrder reports whether the project already has an active
// purchase order and names the conflicting PO number if so.
func (s *projectService) HasActivePurchaseOrder(ctx context.Context, projectCode string) (bool, string, error) {
	po, err := s.poRepo.FindActiveByProjectCode(ctx, projectCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, "", nil
		}
		return false, "", err
	}
	return true, po.PONumber, nil
}

// CreateProject persists a new project summary.
func (s *projectService) CreateProject(ctx context.Context, req dto.CreateProjectRequest, creatorUserID string) (*domain.ProjectSummary, error) {
	code := strings.TrimSpace(req.ProjectCode)
	if code == "" {
		return nil, fmt.Errorf("%w: project code is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	project := domain.ProjectSummary{
		ProjectCode: code,
		Name:        req.Name,
		ClientName:  req.ClientName,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.projectRepo.SaveProject(ctx, project); err != nil {
		return nil, err
	}
	return &project, nil
}
