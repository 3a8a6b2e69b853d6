package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/poledger/po_settlement_app/internal/apperrors"
	"github.com/poledger/po_settlement_app/internal/core/domain"
	portsrepo "github.com/poledger/po_settlement_app/internal/core/ports/repositories"
	"github.com/poledger/po_settlement_app/internal/models"
	"github.com/poledger/po_settlement_app/internal/utils/mapping"
)

const projectColumns = `
	project_code, name, client_name,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxProjectRepository implements the project repository ports using pgxpool.
type PgxProjectRepository struct {
	BaseRepository
}

// NewPgxProjectRepository creates a new PgxProjectRepository.
func NewPgxProjectRepository(pool *pgxpool.Pool) *PgxProjectRepository {
	return &PgxProjectRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ProjectRepositoryFacade = (*PgxProjectRepository)(nil)

// SaveProject inserts a new project row.
func (r *PgxProjectRepository) SaveProject(ctx context.Context, project domain.ProjectSummary) error {
	m := mapping.ToModelProject(project)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO projects (
			project_code, name, client_name,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ProjectCode, m.Name, m.ClientName,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if mapped := mapConstraintViolation(err); mapped != nil {
			return fmt.Errorf("%w: project %s", apperrors.ErrDuplicate, m.ProjectCode)
		}
		return apperrors.NewAppError(500, "failed to save project "+m.ProjectCode, err)
	}
	return nil
}

// FindProjectByCode retrieves a project by its code.
func (r *PgxProjectRepository) FindProjectByCode(ctx context.Context, projectCode string) (*domain.ProjectSummary, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE project_code = $1`

	var m models.Project
	err := r.Pool.QueryRow(ctx, query, projectCode).Scan(
		&m.ProjectCode, &m.Name, &m.ClientName,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("project " + projectCode + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to get project "+projectCode, err)
	}

	project := mapping.ToDomainProject(m)
	return &project, nil
}
