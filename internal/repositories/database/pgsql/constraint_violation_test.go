package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/poledger/po_settlement_app/internal/apperrors"
)

func pgError(code, constraint string) error {
	return fmt.Errorf("exec failed: %w", &pgconn.PgError{Code: code, ConstraintName: constraint})
}

func TestMapConstraintViolation_ActiveProjectIndex(t *testing.T) {
	err := mapConstraintViolation(pgError(pgUniqueViolation, uqActiveProject))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateActivePO)
}

func TestMapConstraintViolation_ActiveBaseAndRevisionIndexes(t *testing.T) {
	assert.ErrorIs(t, mapConstraintViolation(pgError(pgUniqueViolation, uqActiveBase)), apperrors.ErrInactiveRevisionTarget)
	assert.ErrorIs(t, mapConstraintViolation(pgError(pgUniqueViolation, uqBaseRevision)), apperrors.ErrInactiveRevisionTarget)
}

func TestMapConstraintViolation_OtherUniqueIsDuplicate(t *testing.T) {
	err := mapConstraintViolation(pgError(pgUniqueViolation, "projects_pkey"))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestMapConstraintViolation_MissingProjectIsNotFound(t *testing.T) {
	err := mapConstraintViolation(pgError(pgForeignKeyViolation, fkProject))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMapConstraintViolation_OtherForeignKeyUnmapped(t *testing.T) {
	assert.NoError(t, mapConstraintViolation(pgError(pgForeignKeyViolation, "purchase_orders_supersedes_fkey")))
}

func TestMapConstraintViolation_NonPgError(t *testing.T) {
	assert.NoError(t, mapConstraintViolation(errors.New("connection reset")))
}
