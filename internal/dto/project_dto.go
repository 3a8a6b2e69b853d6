package dto

import (
	"time"

	"github.com/poledger/po_settlement_app/internal/core/domain"
)

// CreateProjectRequest defines the structure for registering a project.
type CreateProjectRequest struct {
	ProjectCode string `json:"projectCode" binding:"required"`
	Name        string `json:"name" binding:"required"`
	ClientName  string `json:"clientName"`
}

// ProjectResponse defines the structure for API responses containing project details.
type ProjectResponse struct {
	ProjectCode string    `json:"projectCode"`
	Name        string    `json:"name"`
	ClientName  string    `json:"clientName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToProjectResponse converts a domain.ProjectSummary to ProjectResponse DTO
func ToProjectResponse(p *domain.ProjectSummary) ProjectResponse {
	return ProjectResponse{
		ProjectCode: p.ProjectCode,
		Name:        p.Name,
		ClientName:  p.ClientName,
		CreatedAt:   p.CreatedAt,
	}
}
