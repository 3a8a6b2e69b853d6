package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/poledger/po_settlement_app/internal/apperrors"
	"github.com/poledger/po_settlement_app/internal/core/domain"
	portsrepo "github.com/poledger/po_settlement_app/internal/core/ports/repositories"
	"github.com/poledger/po_settlement_app/internal/models"
	"github.com/poledger/po_settlement_app/internal/utils/mapping"
)

const purchaseOrderColumns = `
	purchase_order_id, po_number, po_number_base, project_code, client_name,
	amount, currency_code, exchange_rate, amount_myr, exchange_rate_source,
	amount_myr_adjusted, adjustment_reason, adjusted_by, adjusted_at,
	revision_number, is_active, supersedes, superseded_by, revision_date, revision_reason,
	status, received_date,
	created_at, created_by, last_updated_at, last_updated_by`

// Constraint names from the migrations; violations are mapped to the matching
// domain errors.
const (
	uqActiveProject = "uq_purchase_orders_active_project"
	uqActiveBase    = "uq_purchase_orders_active_base"
	uqBaseRevision  = "uq_purchase_orders_base_revision"
	fkProject       = "fk_purchase_orders_project"

	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PgxPurchaseOrderRepository implements the purchase order repository ports
// using pgxpool.
type PgxPurchaseOrderRepository struct {
	BaseRepository
}

// NewPgxPurchaseOrderRepository creates a new PgxPurchaseOrderRepository.
func NewPgxPurchaseOrderRepository(pool *pgxpool.Pool) *PgxPurchaseOrderRepository {
	return &PgxPurchaseOrderRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PurchaseOrderRepositoryWithTx = (*PgxPurchaseOrderRepository)(nil)

const insertPurchaseOrderSQL = `
	INSERT INTO purchase_orders (
		purchase_order_id, po_number, po_number_base, project_code, client_name,
		amount, currency_code, exchange_rate, amount_myr, exchange_rate_source,
		amount_myr_adjusted, adjustment_reason, adjusted_by, adjusted_at,
		revision_number, is_active, supersedes, superseded_by, revision_date, revision_reason,
		status, received_date,
		created_at, created_by, last_updated_at, last_updated_by
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26
	)`

func purchaseOrderInsertArgs(m models.PurchaseOrder) []interface{} {
	return []interface{}{
		m.PurchaseOrderID, m.PONumber, m.PONumberBase, m.ProjectCode, m.ClientName,
		m.Amount, m.CurrencyCode, m.ExchangeRate, m.AmountMYR, m.ExchangeRateSource,
		m.AmountMYRAdjusted, m.AdjustmentReason, m.AdjustedBy, m.AdjustedAt,
		m.RevisionNumber, m.IsActive, m.Supersedes, m.SupersededBy, m.RevisionDate, m.RevisionReason,
		m.Status, m.ReceivedDate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

// SavePurchaseOrder inserts the first revision of a new chain. The partial
// unique indexes catch a concurrent creation for the same project or base
// even when both requests passed the application-level guard, and the project
// foreign key surfaces a nonexistent project as not-found.
func (r *PgxPurchaseOrderRepository) SavePurchaseOrder(ctx context.Context, po domain.PurchaseOrder) error {
	m := mapping.ToModelPurchaseOrder(po)
	_, err := r.Pool.Exec(ctx, insertPurchaseOrderSQL, purchaseOrderInsertArgs(m)...)
	if err != nil {
		if mapped := mapConstraintViolation(err); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to save purchase order "+m.PurchaseOrderID, err)
	}
	return nil
}

// CreateRevision inserts next and flips its predecessor to inactive in one
// transaction. The predecessor row is locked and re-checked under the lock so
// two racing revisions against the same target cannot both win; the loser
// gets ErrInactiveRevisionTarget.
func (r *PgxPurchaseOrderRepository) CreateRevision(ctx context.Context, next domain.PurchaseOrder) error {
	if next.Supersedes == "" {
		return apperrors.NewValidationError("revision must supersede an existing row")
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var isActive bool
	err = tx.QueryRow(ctx,
		`SELECT is_active FROM purchase_orders WHERE purchase_order_id = $1 FOR UPDATE`,
		next.Supersedes,
	).Scan(&isActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError("purchase order " + next.Supersedes + " not found")
		}
		return apperrors.NewAppError(500, "failed to lock revision target", err)
	}
	if !isActive {
		return fmt.Errorf("%w: purchase order %s", apperrors.ErrInactiveRevisionTarget, next.Supersedes)
	}

	// Flip the old row first so the active-per-base and active-per-project
	// indexes stay satisfied when the new row lands.
	_, err = tx.Exec(ctx, `
		UPDATE purchase_orders
		SET is_active = FALSE, superseded_by = $2, last_updated_at = $3, last_updated_by = $4
		WHERE purchase_order_id = $1`,
		next.Supersedes, next.PurchaseOrderID, next.LastUpdatedAt, next.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to supersede purchase order "+next.Supersedes, err)
	}

	m := mapping.ToModelPurchaseOrder(next)
	if _, err := tx.Exec(ctx, insertPurchaseOrderSQL, purchaseOrderInsertArgs(m)...); err != nil {
		if mapped := mapConstraintViolation(err); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to insert revision "+m.PurchaseOrderID, err)
	}

	return r.Commit(ctx, tx)
}

// AdjustPurchaseOrder sets the settlement override fields on one row. The
// computed amount_myr column is deliberately not part of the statement.
func (r *PgxPurchaseOrderRepository) AdjustPurchaseOrder(ctx context.Context, purchaseOrderID string, adjusted decimal.Decimal, reason, actorID string, at time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE purchase_orders
		SET amount_myr_adjusted = $2, adjustment_reason = $3, adjusted_by = $4, adjusted_at = $5,
		    last_updated_at = $5, last_updated_by = $4
		WHERE purchase_order_id = $1`,
		purchaseOrderID, adjusted, reason, actorID, at,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to adjust purchase order "+purchaseOrderID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("purchase order " + purchaseOrderID + " not found")
	}
	return nil
}

// UpdateStatus moves the fulfillment status of one row.
func (r *PgxPurchaseOrderRepository) UpdateStatus(ctx context.Context, purchaseOrderID string, status domain.POStatus, actorID string, at time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE purchase_orders
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE purchase_order_id = $1`,
		purchaseOrderID, string(status), at, actorID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update purchase order status", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("purchase order " + purchaseOrderID + " not found")
	}
	return nil
}

// DeletePurchaseOrder physically removes one row. Chain links in other rows
// pointing at the deleted row are nulled in the same transaction so the chain
// never holds stale pointers.
func (r *PgxPurchaseOrderRepository) DeletePurchaseOrder(ctx context.Context, purchaseOrderID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx,
		`UPDATE purchase_orders SET superseded_by = NULL WHERE superseded_by = $1`, purchaseOrderID); err != nil {
		return apperrors.NewAppError(500, "failed to clear superseded_by links", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE purchase_orders SET supersedes = NULL WHERE supersedes = $1`, purchaseOrderID); err != nil {
		return apperrors.NewAppError(500, "failed to clear supersedes links", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM purchase_orders WHERE purchase_order_id = $1`, purchaseOrderID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete purchase order "+purchaseOrderID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("purchase order " + purchaseOrderID + " not found")
	}

	return r.Commit(ctx, tx)
}

// FindPurchaseOrderByID retrieves a single row by its ID.
func (r *PgxPurchaseOrderRepository) FindPurchaseOrderByID(ctx context.Context, purchaseOrderID string) (*domain.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE purchase_order_id = $1`
	return r.queryOne(ctx, query, "purchase order "+purchaseOrderID, purchaseOrderID)
}

// FindActiveByBase retrieves the single active revision of a base.
func (r *PgxPurchaseOrderRepository) FindActiveByBase(ctx context.Context, poNumberBase string) (*domain.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE po_number_base = $1 AND is_active`
	return r.queryOne(ctx, query, "active revision of "+poNumberBase, poNumberBase)
}

// FindActiveByProjectCode retrieves the active purchase order bound to a project.
func (r *PgxPurchaseOrderRepository) FindActiveByProjectCode(ctx context.Context, projectCode string) (*domain.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE project_code = $1 AND is_active`
	return r.queryOne(ctx, query, "active purchase order for project "+projectCode, projectCode)
}

// FindRevisionsByBase retrieves all rows of a base ordered by revision number.
func (r *PgxPurchaseOrderRepository) FindRevisionsByBase(ctx context.Context, poNumberBase string) ([]domain.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + `
		FROM purchase_orders WHERE po_number_base = $1 ORDER BY revision_number ASC`

	rows, err := r.Pool.Query(ctx, query, poNumberBase)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query revisions", err)
	}
	defer rows.Close()

	return scanPurchaseOrders(rows)
}

// ListActivePurchaseOrders retrieves active rows matching the filter plus the
// total count.
func (r *PgxPurchaseOrderRepository) ListActivePurchaseOrders(ctx context.Context, filter portsrepo.PurchaseOrderListFilter) ([]domain.PurchaseOrder, int, error) {
	baseQuery := `FROM purchase_orders WHERE is_active`
	args := []interface{}{}
	argNum := 1

	if filter.ProjectCode != nil {
		baseQuery += fmt.Sprintf(" AND project_code = $%d", argNum)
		args = append(args, *filter.ProjectCode)
		argNum++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, string(*filter.Status))
		argNum++
	}

	var total int
	if err := r.Pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count purchase orders", err)
	}
	if total == 0 {
		return []domain.PurchaseOrder{}, 0, nil
	}

	query := "SELECT " + purchaseOrderColumns + " " + baseQuery + " ORDER BY revision_date DESC, po_number_base"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argNum, argNum+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to list purchase orders", err)
	}
	defer rows.Close()

	pos, err := scanPurchaseOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return pos, total, nil
}

func (r *PgxPurchaseOrderRepository) queryOne(ctx context.Context, query, what string, args ...interface{}) (*domain.PurchaseOrder, error) {
	var m models.PurchaseOrder
	err := r.Pool.QueryRow(ctx, query, args...).Scan(purchaseOrderScanTargets(&m)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(what + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to get "+what, err)
	}
	po := mapping.ToDomainPurchaseOrder(m)
	return &po, nil
}

func purchaseOrderScanTargets(m *models.PurchaseOrder) []interface{} {
	return []interface{}{
		&m.PurchaseOrderID, &m.PONumber, &m.PONumberBase, &m.ProjectCode, &m.ClientName,
		&m.Amount, &m.CurrencyCode, &m.ExchangeRate, &m.AmountMYR, &m.ExchangeRateSource,
		&m.AmountMYRAdjusted, &m.AdjustmentReason, &m.AdjustedBy, &m.AdjustedAt,
		&m.RevisionNumber, &m.IsActive, &m.Supersedes, &m.SupersededBy, &m.RevisionDate, &m.RevisionReason,
		&m.Status, &m.ReceivedDate,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	}
}

func scanPurchaseOrders(rows pgx.Rows) ([]domain.PurchaseOrder, error) {
	pos := []domain.PurchaseOrder{}
	for rows.Next() {
		var m models.PurchaseOrder
		if err := rows.Scan(purchaseOrderScanTargets(&m)...); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan purchase order", err)
		}
		pos = append(pos, mapping.ToDomainPurchaseOrder(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating purchase orders", err)
	}
	return pos, nil
}

// mapConstraintViolation translates the constraint violations the schema
// encodes for domain rules into their domain errors. Returns nil for anything
// else.
func mapConstraintViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		switch {
		case strings.Contains(pgErr.ConstraintName, uqActiveProject):
			return fmt.Errorf("%w: concurrent creation detected", apperrors.ErrDuplicateActivePO)
		case strings.Contains(pgErr.ConstraintName, uqActiveBase), strings.Contains(pgErr.ConstraintName, uqBaseRevision):
			return fmt.Errorf("%w: revision already exists", apperrors.ErrInactiveRevisionTarget)
		default:
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, pgErr.ConstraintName)
		}
	case pgForeignKeyViolation:
		if strings.Contains(pgErr.ConstraintName, fkProject) {
			return fmt.Errorf("%w: referenced project does not exist", apperrors.ErrNotFound)
		}
	}
	return nil
}
