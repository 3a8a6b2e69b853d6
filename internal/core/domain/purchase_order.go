package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// POStatus is the fulfillment lifecycle of a purchase order. It is
// independent of the revision mechanism: revising a PO carries the status
// forward unchanged.
type POStatus string

const (
	StatusReceived   POStatus = "received"
	StatusInProgress POStatus = "in-progress"
	StatusInvoiced   POStatus = "invoiced"
	StatusPaid       POStatus = "paid"
)

// statusOrder fixes the forward-only progression of fulfillment states.
var statusOrder = map[POStatus]int{
	StatusReceived:   0,
	StatusInProgress: 1,
	StatusInvoiced:   2,
	StatusPaid:       3,
}

// IsValid reports whether s is a known fulfillment status.
func (s POStatus) IsValid() bool {
	_, ok := statusOrder[s]
	return ok
}

// CanTransitionTo reports whether the fulfillment status may move from s to
// next. Only single or multi-step forward moves are allowed; a PO never moves
// backwards through its lifecycle.
func (s POStatus) CanTransitionTo(next POStatus) bool {
	cur, ok := statusOrder[s]
	if !ok {
		return false
	}
	target, ok := statusOrder[next]
	if !ok {
		return false
	}
	return target > cur
}

// ConversionSource records how a purchase order's exchange rate was obtained.
type ConversionSource string

const (
	// ConversionAuto means the rate was resolved from the exchange rate store.
	ConversionAuto ConversionSource = "AUTO"
	// ConversionManual means the caller supplied a custom rate verbatim.
	ConversionManual ConversionSource = "MANUAL"
)

// PurchaseOrder is one node in a revision chain. All revisions of "the same"
// purchase order share PONumberBase; exactly one of them is active at a time.
type PurchaseOrder struct {
	PurchaseOrderID string `json:"purchaseOrderID"`
	PONumber        string `json:"poNumber"`     // Human-facing number, base plus revision suffix
	PONumberBase    string `json:"poNumberBase"` // Stable business key shared by all revisions
	ProjectCode     string `json:"projectCode"`
	ClientName      string `json:"clientName"`

	Amount             decimal.Decimal  `json:"amount"`       // Original-currency units, > 0
	CurrencyCode       string           `json:"currencyCode"` // 3-letter code
	ExchangeRate       decimal.Decimal  `json:"exchangeRate"` // Rate used at creation/revision time
	AmountMYR          decimal.Decimal  `json:"amountMyr"`    // amount * exchangeRate, 2 decimal places
	ExchangeRateSource ConversionSource `json:"exchangeRateSource"`

	// Adjustment fields: a manual override of the computed settlement amount.
	// AmountMYR is never mutated by an adjustment.
	AmountMYRAdjusted *decimal.Decimal `json:"amountMyrAdjusted,omitempty"`
	AdjustmentReason  string           `json:"adjustmentReason,omitempty"`
	AdjustedBy        string           `json:"adjustedBy,omitempty"`
	AdjustedAt        *time.Time       `json:"adjustedAt,omitempty"`

	// Revision chain fields, owned exclusively by the ledger.
	RevisionNumber int       `json:"revisionNumber"` // 1 for the first revision, gap-free per base
	IsActive       bool      `json:"isActive"`
	Supersedes     string    `json:"supersedes,omitempty"`   // ID of the row this revision replaces
	SupersededBy   string    `json:"supersededBy,omitempty"` // ID of the row that replaced this one
	RevisionDate   time.Time `json:"revisionDate"`
	RevisionReason string    `json:"revisionReason,omitempty"` // Required for revisions >= 2

	Status       POStatus  `json:"status"`
	ReceivedDate time.Time `json:"receivedDate"`
	AuditFields
}

// EffectiveAmountMYR is the settlement amount exposed to downstream
// consumers: the manual override when present, otherwise the computed value.
// Derived on read, never persisted.
func (p *PurchaseOrder) EffectiveAmountMYR() decimal.Decimal {
	if p.AmountMYRAdjusted != nil {
		return *p.AmountMYRAdjusted
	}
	return p.AmountMYR
}
