package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder is the purchase_orders row. Nullable columns map to pointer
// fields; the empty chain links (first revision, active head) are NULL in the
// database rather than empty strings so the foreign keys stay honest.
type PurchaseOrder struct {
	PurchaseOrderID string `db:"purchase_order_id"`
	PONumber        string `db:"po_number"`
	PONumberBase    string `db:"po_number_base"`
	ProjectCode     string `db:"project_code"`
	ClientName      string `db:"client_name"`

	Amount             decimal.Decimal `db:"amount"`
	CurrencyCode       string          `db:"currency_code"`
	ExchangeRate       decimal.Decimal `db:"exchange_rate"`
	AmountMYR          decimal.Decimal `db:"amount_myr"`
	ExchangeRateSource string          `db:"exchange_rate_source"` // AUTO or MANUAL

	AmountMYRAdjusted *decimal.Decimal `db:"amount_myr_adjusted"`
	AdjustmentReason  *string          `db:"adjustment_reason"`
	AdjustedBy        *string          `db:"adjusted_by"`
	AdjustedAt        *time.Time       `db:"adjusted_at"`

	RevisionNumber int        `db:"revision_number"`
	IsActive       bool       `db:"is_active"`
	Supersedes     *string    `db:"supersedes"`
	SupersededBy   *string    `db:"superseded_by"`
	RevisionDate   time.Time  `db:"revision_date"`
	RevisionReason *string    `db:"revision_reason"`

	Status       string    `db:"status"`
	ReceivedDate time.Time `db:"received_date"`
	AuditFields
}
