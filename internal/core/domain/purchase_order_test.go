package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/poledger/po_settlement_app/internal/core/domain"
)

func TestPOStatusTransitions(t *testing.T) {
	assert.True(t, domain.StatusReceived.CanTransitionTo(domain.StatusInProgress))
	assert.True(t, domain.StatusReceived.CanTransitionTo(domain.StatusPaid)) // skipping ahead is allowed
	assert.True(t, domain.StatusInvoiced.CanTransitionTo(domain.StatusPaid))

	assert.False(t, domain.StatusPaid.CanTransitionTo(domain.StatusInvoiced))
	assert.False(t, domain.StatusInProgress.CanTransitionTo(domain.StatusReceived))
	assert.False(t, domain.StatusReceived.CanTransitionTo(domain.StatusReceived))
	assert.False(t, domain.StatusReceived.CanTransitionTo(domain.POStatus("cancelled")))
}

func TestPOStatusIsValid(t *testing.T) {
	assert.True(t, domain.StatusReceived.IsValid())
	assert.True(t, domain.StatusPaid.IsValid())
	assert.False(t, domain.POStatus("RECEIVED").IsValid())
	assert.False(t, domain.POStatus("").IsValid())
}

func TestEffectiveAmountMYR(t *testing.T) {
	po := domain.PurchaseOrder{
		AmountMYR: decimal.RequireFromString("3450.00"),
	}
	assert.Equal(t, "3450.00", po.EffectiveAmountMYR().StringFixed(2))

	adjusted := decimal.RequireFromString("3745.00")
	po.AmountMYRAdjusted = &adjusted
	assert.Equal(t, "3745.00", po.EffectiveAmountMYR().StringFixed(2))
	// The computed value is untouched by the override.
	assert.Equal(t, "3450.00", po.AmountMYR.StringFixed(2))
}
