package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/poledger/po_settlement_app/internal/apperrors"
	"github.com/poledger/po_settlement_app/internal/core/domain"
	portsrepo "github.com/poledger/po_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/poledger/po_settlement_app/internal/core/ports/services"
	"github.com/poledger/po_settlement_app/internal/dto"
	"github.com/poledger/po_settlement_app/internal/middleware"
	"github.com/poledger/po_settlement_app/internal/utils"
)

// purchaseOrderService owns the purchase order revision ledger. It is the
// only writer of purchase order rows; the chain fields (is_active,
// supersedes, superseded_by) are never touched by any other component.
type purchaseOrderService struct {
	poRepo     portsrepo.PurchaseOrderRepositoryWithTx
	converter  portssvc.ConverterSvc
	projectSvc portssvc.ProjectReaderSvc
}

// NewPurchaseOrderService creates a new purchase order ledger service.
func NewPurchaseOrderService(poRepo portsrepo.PurchaseOrderRepositoryWithTx, converter portssvc.ConverterSvc, projectSvc portssvc.ProjectReaderSvc) portssvc.PurchaseOrderSvcFacade {
	return &purchaseOrderService{
		poRepo:     poRepo,
		converter:  converter,
		projectSvc: projectSvc,
	}
}

var _ portssvc.PurchaseOrderSvcFacade = (*purchaseOrderService)(nil)

// CreatePurchaseOrder creates revision 1 of a new chain. The raw PO number
// doubles as the chain's base; the project binding guard runs before the
// insert and the storage layer's partial unique index backs it against races.
func (s *purchaseOrderService) CreatePurchaseOrder(ctx context.Context, req dto.CreatePurchaseOrderRequest, creatorUserID string) (*domain.PurchaseOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: purchase order amount must be positive", apperrors.ErrInvalidAmount)
	}
	currency := strings.ToUpper(req.CurrencyCode)
	if !utils.IsCurrencyCode(currency) {
		return nil, fmt.Errorf("%w: currency code must be 3 letters", apperrors.ErrValidation)
	}
	poNumber := strings.TrimSpace(req.PONumber)
	if poNumber == "" {
		return nil, fmt.Errorf("%w: PO number is required", apperrors.ErrValidation)
	}
	projectCode := strings.TrimSpace(req.ProjectCode)
	if projectCode == "" {
		return nil, fmt.Errorf("%w: project code is required", apperrors.ErrValidation)
	}

	// Binding guard: at most one active PO per project.
	hasActive, conflictNumber, err := s.projectSvc.HasActivePurchaseOrder(ctx, projectCode)
	if err != nil {
		return nil, fmt.Errorf("failed to check project binding: %w", err)
	}
	if hasActive {
		return nil, fmt.Errorf("%w: project %s is bound to %s", apperrors.ErrDuplicateActivePO, projectCode, conflictNumber)
	}

	rate, amountMYR, source, err := s.settle(ctx, req.Amount, currency, req.ReceivedDate, req.CustomExchangeRate)
	if err != nil {
		// No custom rate and no resolvable rate aborts creation entirely;
		// the ledger never defaults to 1.0.
		return nil, err
	}

	now := time.Now().UTC()
	po := domain.PurchaseOrder{
		PurchaseOrderID:    uuid.NewString(),
		PONumber:           poNumber,
		PONumberBase:       poNumber,
		ProjectCode:        projectCode,
		ClientName:         req.ClientName,
		Amount:             req.Amount,
		CurrencyCode:       currency,
		ExchangeRate:       rate,
		AmountMYR:          amountMYR,
		ExchangeRateSource: source,
		RevisionNumber:     1,
		IsActive:           true,
		RevisionDate:       now,
		Status:             domain.StatusReceived,
		ReceivedDate:       req.ReceivedDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.poRepo.SavePurchaseOrder(ctx, po); err != nil {
		return nil, err
	}

	logger.Info("Purchase order created",
		slog.String("purchase_order_id", po.PurchaseOrderID),
		slog.String("po_number", po.PONumber),
		slog.String("project_code", po.ProjectCode),
	)
	return &po, nil
}

// CreateRevision supersedes the currently active revision with a new one. The
// insert of the new row and the flip of the old row's active flag commit
// together or not at all; a concurrent revision against the same target loses
// with ErrInactiveRevisionTarget.
func (s *purchaseOrderService) CreateRevision(ctx context.Context, purchaseOrderID string, req dto.CreateRevisionRequest, actorID string) (*domain.PurchaseOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(req.RevisionReason) == "" {
		return nil, fmt.Errorf("%w: revision reason is required", apperrors.ErrMissingReason)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: revision amount must be positive", apperrors.ErrInvalidAmount)
	}
	currency := strings.ToUpper(req.CurrencyCode)
	if !utils.IsCurrencyCode(currency) {
		return nil, fmt.Errorf("%w: currency code must be 3 letters", apperrors.ErrValidation)
	}

	current, err := s.poRepo.FindPurchaseOrderByID(ctx, purchaseOrderID)
	if err != nil {
		return nil, err
	}
	if !current.IsActive {
		return nil, fmt.Errorf("%w: %s was superseded by %s", apperrors.ErrInactiveRevisionTarget, current.PONumber, current.SupersededBy)
	}

	receivedDate := current.ReceivedDate
	if req.ReceivedDate != nil {
		receivedDate = *req.ReceivedDate
	}

	rate, amountMYR, source, err := s.settle(ctx, req.Amount, currency, receivedDate, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	next := domain.PurchaseOrder{
		PurchaseOrderID:    uuid.NewString(),
		PONumber:           fmt.Sprintf("%s-R%d", current.PONumberBase, current.RevisionNumber+1),
		PONumberBase:       current.PONumberBase,
		ProjectCode:        current.ProjectCode,
		ClientName:         current.ClientName,
		Amount:             req.Amount,
		CurrencyCode:       currency,
		ExchangeRate:       rate,
		AmountMYR:          amountMYR,
		ExchangeRateSource: source,
		// Adjustments never carry forward across revisions.
		AmountMYRAdjusted: nil,
		RevisionNumber:    current.RevisionNumber + 1,
		IsActive:          true,
		Supersedes:        current.PurchaseOrderID,
		RevisionDate:      now,
		RevisionReason:    req.RevisionReason,
		Status:            current.Status,
		ReceivedDate:      receivedDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.poRepo.CreateRevision(ctx, next); err != nil {
		return nil, err
	}

	logger.Info("Purchase order revised",
		slog.String("po_number_base", next.PONumberBase),
		slog.Int("revision_number", next.RevisionNumber),
		slog.String("supersedes", current.PurchaseOrderID),
	)
	return &next, nil
}

// AdjustSettlement overrides the computed settlement amount on one row. The
// computed AmountMYR is never mutated; a later adjustment simply replaces the
// previous override and its reason.
func (s *purchaseOrderService) AdjustSettlement(ctx context.Context, purchaseOrderID string, req dto.AdjustSettlementRequest, actorID string) (*domain.PurchaseOrder, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, fmt.Errorf("%w: adjustment reason is required", apperrors.ErrMissingReason)
	}
	if req.AdjustedAmountMYR.IsNegative() {
		return nil, fmt.Errorf("%w: adjusted amount cannot be negative", apperrors.ErrInvalidAmount)
	}

	po, err := s.poRepo.FindPurchaseOrderByID(ctx, purchaseOrderID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	adjusted := req.AdjustedAmountMYR.Round(2)
	if err := s.poRepo.AdjustPurchaseOrder(ctx, purchaseOrderID, adjusted, req.Reason, actorID, now); err != nil {
		return nil, err
	}

	po.AmountMYRAdjusted = &adjusted
	po.AdjustmentReason = req.Reason
	po.AdjustedBy = actorID
	po.AdjustedAt = &now
	po.LastUpdatedAt = now
	po.LastUpdatedBy = actorID
	return po, nil
}

// UpdateStatus moves the fulfillment status forward. The status lifecycle is
// independent of the revision mechanism.
func (s *purchaseOrderService) UpdateStatus(ctx context.Context, purchaseOrderID string, req dto.UpdatePOStatusRequest, actorID string) (*domain.PurchaseOrder, error) {
	next := domain.POStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, req.Status)
	}

	po, err := s.poRepo.FindPurchaseOrderByID(ctx, purchaseOrderID)
	if err != nil {
		return nil, err
	}
	if !po.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: cannot move status from %s to %s", apperrors.ErrValidation, po.Status, next)
	}

	now := time.Now().UTC()
	if err := s.poRepo.UpdateStatus(ctx, purchaseOrderID, next, actorID, now); err != nil {
		return nil, err
	}

	po.Status = next
	po.LastUpdatedAt = now
	po.LastUpdatedBy = actorID
	return po, nil
}

// GetPurchaseOrderByID retrieves a single revision row.
func (s *purchaseOrderService) GetPurchaseOrderByID(ctx context.Context, purchaseOrderID string) (*domain.PurchaseOrder, error) {
	return s.poRepo.FindPurchaseOrderByID(ctx, purchaseOrderID)
}

// GetRevisionHistory returns all surviving revisions of a base ordered by
// revision number, after verifying they still form a coherent chain. A chain
// thinned by deletion (missing early revisions, or headless after its active
// row was removed) stays readable.
func (s *purchaseOrderService) GetRevisionHistory(ctx context.Context, poNumberBase string) ([]domain.PurchaseOrder, error) {
	rows, err := s.poRepo.FindRevisionsByBase(ctx, poNumberBase)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: purchase order %s", apperrors.ErrNotFound, poNumberBase)
	}

	chain, err := domain.NewRevisionChain(poNumberBase, rows)
	if err != nil {
		return nil, apperrors.NewAppError(500, "revision chain integrity violation", err)
	}
	return chain.Revisions, nil
}

// GetActiveRevision returns the single active revision of a base.
func (s *purchaseOrderService) GetActiveRevision(ctx context.Context, poNumberBase string) (*domain.PurchaseOrder, error) {
	return s.poRepo.FindActiveByBase(ctx, poNumberBase)
}

// ListActive retrieves active purchase orders with optional filters.
func (s *purchaseOrderService) ListActive(ctx context.Context, req dto.ListPurchaseOrdersRequest) ([]domain.PurchaseOrder, int, error) {
	filter := portsrepo.PurchaseOrderListFilter{
		ProjectCode: req.ProjectCode,
		Limit:       req.Limit,
		Offset:      req.Offset,
	}
	if req.Status != nil {
		status := domain.POStatus(strings.ToLower(*req.Status))
		if !status.IsValid() {
			return nil, 0, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, *req.Status)
		}
		filter.Status = &status
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.poRepo.ListActivePurchaseOrders(ctx, filter)
}

// DeletePurchaseOrder physically removes one revision row. Dangling chain
// links pointing at the removed row are nulled out by the storage layer in
// the same transaction. Role gating happens before this is reached.
func (s *purchaseOrderService) DeletePurchaseOrder(ctx context.Context, purchaseOrderID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.poRepo.DeletePurchaseOrder(ctx, purchaseOrderID); err != nil {
		return err
	}
	logger.Info("Purchase order deleted", slog.String("purchase_order_id", purchaseOrderID))
	return nil
}

// settle computes the exchange rate and settlement amount for one revision.
// A caller-supplied rate is trusted verbatim and recorded as manual;
// otherwise the converter resolves one and ErrRateNotFound propagates.
func (s *purchaseOrderService) settle(ctx context.Context, amount decimal.Decimal, currency string, asOf time.Time, customRate *decimal.Decimal) (decimal.Decimal, decimal.Decimal, domain.ConversionSource, error) {
	if customRate != nil {
		if customRate.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, decimal.Zero, "", fmt.Errorf("%w: custom rate must be positive", apperrors.ErrInvalidRate)
		}
		return *customRate, amount.Mul(*customRate).Round(2), domain.ConversionManual, nil
	}

	res, err := s.converter.Convert(ctx, amount, currency, asOf)
	if err != nil {
		return decimal.Zero, decimal.Zero, "", err
	}
	return res.RateUsed, res.ConvertedAmount, domain.ConversionAuto, nil
}
