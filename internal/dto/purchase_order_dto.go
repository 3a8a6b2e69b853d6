package dto

import (
	"time"

	"github.com/poledger/po_settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest defines the structure for creating revision 1 of
// a new purchase order chain. When CustomExchangeRate is set it is trusted
// verbatim and the rate source is recorded as manual.
type CreatePurchaseOrderRequest struct {
	PONumber           string           `json:"poNumber" binding:"required"`
	ProjectCode        string           `json:"projectCode" binding:"required"`
	ClientName         string           `json:"clientName" binding:"required"`
	Amount             decimal.Decimal  `json:"amount" binding:"required"`
	CurrencyCode       string           `json:"currencyCode" binding:"required,currency"`
	ReceivedDate       time.Time        `json:"receivedDate" binding:"required"`
	CustomExchangeRate *decimal.Decimal `json:"customExchangeRate,omitempty"`
}

// CreateRevisionRequest defines the structure for superseding the active
// revision of a chain.
type CreateRevisionRequest struct {
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode   string          `json:"currencyCode" binding:"required,currency"`
	ReceivedDate   *time.Time      `json:"receivedDate,omitempty"`
	RevisionReason string          `json:"revisionReason" binding:"required"`
}

// AdjustSettlementRequest defines the structure for overriding the computed
// settlement amount.
type AdjustSettlementRequest struct {
	AdjustedAmountMYR decimal.Decimal `json:"adjustedAmountMyr"`
	Reason            string          `json:"reason" binding:"required"`
}

// UpdatePOStatusRequest defines the structure for a fulfillment status move.
type UpdatePOStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListPurchaseOrdersRequest defines the query parameters for listing active
// purchase orders.
type ListPurchaseOrdersRequest struct {
	ProjectCode *string `form:"projectCode"`
	Status      *string `form:"status"`
	Limit       int     `form:"limit,default=50" binding:"omitempty,min=1,max=200"`
	Offset      int     `form:"offset" binding:"omitempty,min=0"`
}

// PurchaseOrderResponse defines the structure for API responses containing a
// purchase order revision. EffectiveAmountMYR is derived, never stored.
type PurchaseOrderResponse struct {
	PurchaseOrderID string `json:"purchaseOrderID"`
	PONumber        string `json:"poNumber"`
	PONumberBase    string `json:"poNumberBase"`
	ProjectCode     string `json:"projectCode"`
	ClientName      string `json:"clientName"`

	Amount             decimal.Decimal `json:"amount"`
	CurrencyCode       string          `json:"currencyCode"`
	ExchangeRate       decimal.Decimal `json:"exchangeRate"`
	AmountMYR          decimal.Decimal `json:"amountMyr"`
	ExchangeRateSource string          `json:"exchangeRateSource"`
	EffectiveAmountMYR decimal.Decimal `json:"effectiveAmountMyr"`

	AmountMYRAdjusted *decimal.Decimal `json:"amountMyrAdjusted,omitempty"`
	AdjustmentReason  string           `json:"adjustmentReason,omitempty"`
	AdjustedBy        string           `json:"adjustedBy,omitempty"`
	AdjustedAt        *time.Time       `json:"adjustedAt,omitempty"`

	RevisionNumber int       `json:"revisionNumber"`
	IsActive       bool      `json:"isActive"`
	Supersedes     string    `json:"supersedes,omitempty"`
	SupersededBy   string    `json:"supersededBy,omitempty"`
	RevisionDate   time.Time `json:"revisionDate"`
	RevisionReason string    `json:"revisionReason,omitempty"`

	Status       string    `json:"status"`
	ReceivedDate time.Time `json:"receivedDate"`
	CreatedAt    time.Time `json:"createdAt"`
	CreatedBy    string    `json:"createdBy"`
}

// ToPurchaseOrderResponse converts a domain.PurchaseOrder to its response DTO
func ToPurchaseOrderResponse(po *domain.PurchaseOrder) PurchaseOrderResponse {
	return PurchaseOrderResponse{
		PurchaseOrderID:    po.PurchaseOrderID,
		PONumber:           po.PONumber,
		PONumberBase:       po.PONumberBase,
		ProjectCode:        po.ProjectCode,
		ClientName:         po.ClientName,
		Amount:             po.Amount,
		CurrencyCode:       po.CurrencyCode,
		ExchangeRate:       po.ExchangeRate,
		AmountMYR:          po.AmountMYR,
		ExchangeRateSource: string(po.ExchangeRateSource),
		EffectiveAmountMYR: po.EffectiveAmountMYR(),
		AmountMYRAdjusted:  po.AmountMYRAdjusted,
		AdjustmentReason:   po.AdjustmentReason,
		AdjustedBy:         po.AdjustedBy,
		AdjustedAt:         po.AdjustedAt,
		RevisionNumber:     po.RevisionNumber,
		IsActive:           po.IsActive,
		Supersedes:         po.Supersedes,
		SupersededBy:       po.SupersededBy,
		RevisionDate:       po.RevisionDate,
		RevisionReason:     po.RevisionReason,
		Status:             string(po.Status),
		ReceivedDate:       po.ReceivedDate,
		CreatedAt:          po.CreatedAt,
		CreatedBy:          po.CreatedBy,
	}
}

// ToListPurchaseOrderResponse converts a slice of domain purchase orders to
// response DTOs.
func ToListPurchaseOrderResponse(pos []domain.PurchaseOrder) []PurchaseOrderResponse {
	responses := make([]PurchaseOrderResponse, len(pos))
	for i := range pos {
		responses[i] = ToPurchaseOrderResponse(&pos[i])
	}
	return responses
}

// ListPurchaseOrdersResponse is the paginated listing envelope.
type ListPurchaseOrdersResponse struct {
	Rows   []PurchaseOrderResponse `json:"rows"`
	Total  int                     `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
}
