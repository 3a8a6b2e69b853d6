package repositories

import (
	"context"
	"time"

	"github.com/poledger/po_settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PurchaseOrderListFilter narrows ListActivePurchaseOrders. Nil fields are ignored.
type PurchaseOrderListFilter struct {
	ProjectCode *string
	Status      *domain.POStatus
	Limit       int
	Offset      int
}

// PurchaseOrderReader defines read operations for purchase order data
type PurchaseOrderReader interface {
	// FindPurchaseOrderByID retrieves a single row by its opaque ID.
	FindPurchaseOrderByID(ctx context.Context, purchaseOrderID string) (*domain.PurchaseOrder, error)

	// FindRevisionsByBase retrieves all rows sharing a PO number base, ordered
	// by revision number ascending.
	FindRevisionsByBase(ctx context.Context, poNumberBase string) ([]domain.PurchaseOrder, error)

	// FindActiveByBase retrieves the single active revision of a base.
	FindActiveByBase(ctx context.Context, poNumberBase string) (*domain.PurchaseOrder, error)

	// FindActiveByProjectCode retrieves the active purchase order bound to a
	// project, if any.
	FindActiveByProjectCode(ctx context.Context, projectCode string) (*domain.PurchaseOrder, error)

	// ListActivePurchaseOrders retrieves active rows matching the filter plus
	// the total count.
	ListActivePurchaseOrders(ctx context.Context, filter PurchaseOrderListFilter) ([]domain.PurchaseOrder, int, error)
}

// PurchaseOrderWriter defines write operations for purchase order data. The
// ledger service is the only caller; nothing else writes is_active or the
// chain links.
type PurchaseOrderWriter interface {
	// SavePurchaseOrder inserts the first revision of a new chain.
	SavePurchaseOrder(ctx context.Context, po domain.PurchaseOrder) error

	// CreateRevision inserts next and flips its predecessor (next.Supersedes)
	// to inactive in one transaction. The predecessor is locked and re-checked
	// inside the transaction; if it is no longer active the whole operation
	// fails with ErrInactiveRevisionTarget and nothing is written.
	CreateRevision(ctx context.Context, next domain.PurchaseOrder) error

	// AdjustPurchaseOrder sets the settlement override fields on one row. A
	// later adjustment replaces the previous one.
	AdjustPurchaseOrder(ctx context.Context, purchaseOrderID string, adjusted decimal.Decimal, reason, actorID string, at time.Time) error

	// UpdateStatus moves the fulfillment status of one row.
	UpdateStatus(ctx context.Context, purchaseOrderID string, status domain.POStatus, actorID string, at time.Time) error

	// DeletePurchaseOrder physically removes one row and nulls out any chain
	// links in other rows that point at it.
	DeletePurchaseOrder(ctx context.Context, purchaseOrderID string) error
}

// PurchaseOrderRepositoryFacade combines all purchase order-related repository interfaces
type PurchaseOrderRepositoryFacade interface {
	PurchaseOrderReader
	PurchaseOrderWriter
}

// PurchaseOrderRepositoryWithTx extends PurchaseOrderRepositoryFacade with transaction capabilities
type PurchaseOrderRepositoryWithTx interface {
	PurchaseOrderRepositoryFacade
	TransactionManager
}
