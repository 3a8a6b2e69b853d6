package services

import (
	"context"

	"github.com/poledger/po_settlement_app/internal/core/domain"
	"github.com/poledger/po_settlement_app/internal/dto"
)

// PurchaseOrderReaderSvc defines read operations on the purchase order ledger
type PurchaseOrderReaderSvc interface {
	// GetPurchaseOrderByID retrieves a single revision row.
	GetPurchaseOrderByID(ctx context.Context, purchaseOrderID string) (*domain.PurchaseOrder, error)

	// GetRevisionHistory returns all revisions of a base ordered by revision
	// number ascending, verified against the chain invariants.
	GetRevisionHistory(ctx context.Context, poNumberBase string) ([]domain.PurchaseOrder, error)

	// GetActiveRevision returns the single active revision of a base.
	GetActiveRevision(ctx context.Context, poNumberBase string) (*domain.PurchaseOrder, error)

	// ListActive retrieves active purchase orders with optional filters and
	// limit/offset pagination.
	ListActive(ctx context.Context, req dto.ListPurchaseOrdersRequest) ([]domain.PurchaseOrder, int, error)
}

// PurchaseOrderWriterSvc defines the ledger mutations. This service owns all
// writes to purchase order rows; nothing else touches the chain fields.
type PurchaseOrderWriterSvc interface {
	// CreatePurchaseOrder creates revision 1 of a new chain, converting the
	// amount into the base currency unless a custom rate is supplied.
	CreatePurchaseOrder(ctx context.Context, req dto.CreatePurchaseOrderRequest, creatorUserID string) (*domain.PurchaseOrder, error)

	// CreateRevision supersedes the currently active revision with a new one
	// in a single atomic step.
	CreateRevision(ctx context.Context, purchaseOrderID string, req dto.CreateRevisionRequest, actorID string) (*domain.PurchaseOrder, error)

	// AdjustSettlement overrides the computed settlement amount of one row
	// with a mandatory audit reason. The computed value is never overwritten.
	AdjustSettlement(ctx context.Context, purchaseOrderID string, req dto.AdjustSettlementRequest, actorID string) (*domain.PurchaseOrder, error)

	// UpdateStatus moves the fulfillment status forward.
	UpdateStatus(ctx context.Context, purchaseOrderID string, req dto.UpdatePOStatusRequest, actorID string) (*domain.PurchaseOrder, error)

	// DeletePurchaseOrder physically removes one revision row, healing chain
	// links that point at it. Role gating happens at the transport layer.
	DeletePurchaseOrder(ctx context.Context, purchaseOrderID string) error
}

// PurchaseOrderSvcFacade combines all purchase order-related service interfaces
type PurchaseOrderSvcFacade interface {
	PurchaseOrderReaderSvc
	PurchaseOrderWriterSvc
}
