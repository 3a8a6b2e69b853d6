package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poledger/po_settlement_app/internal/core/domain"
)

func chainRow(id, base string, revision int, supersedes string, active bool) domain.PurchaseOrder {
	return domain.PurchaseOrder{
		PurchaseOrderID: id,
		PONumber:        base,
		PONumberBase:    base,
		RevisionNumber:  revision,
		Supersedes:      supersedes,
		IsActive:        active,
	}
}

func TestNewRevisionChain_SingleRevision(t *testing.T) {
	chain, err := domain.NewRevisionChain("PO-100", []domain.PurchaseOrder{
		chainRow("id-1", "PO-100", 1, "", true),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, chain.Len())
	assert.Equal(t, "id-1", chain.Active().PurchaseOrderID)
}

func TestNewRevisionChain_SortsAndFindsActive(t *testing.T) {
	// Rows arrive unsorted; the chain orders them by revision number.
	chain, err := domain.NewRevisionChain("PO-100", []domain.PurchaseOrder{
		chainRow("id-3", "PO-100", 3, "id-2", true),
		chainRow("id-1", "PO-100", 1, "", false),
		chainRow("id-2", "PO-100", 2, "id-1", false),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, chain.Len())
	assert.Equal(t, "id-3", chain.Active().PurchaseOrderID)
	assert.Equal(t, 1, chain.Revisions[0].RevisionNumber)
	assert.Equal(t, 3, chain.Revisions[2].RevisionNumber)
}

func TestNewRevisionChain_Empty(t *testing.T) {
	_, err := domain.NewRevisionChain("PO-100", nil)
	assert.Error(t, err)
}

func TestNewRevisionChain_ToleratesGapAfterMiddleDelete(t *testing.T) {
	// Deleting revision 2 nulled the supersedes link of revision 3.
	chain, err := domain.NewRevisionChain("PO-100", []domain.PurchaseOrder{
		chainRow("id-1", "PO-100", 1, "", false),
		chainRow("id-3", "PO-100", 3, "", true),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, chain.Len())
	assert.Equal(t, "id-3", chain.Active().PurchaseOrderID)
}

func TestNewRevisionChain_ToleratesStartAboveOneAfterDelete(t *testing.T) {
	// Deleting revision 1 nulled the supersedes link of revision 2.
	chain, err := domain.NewRevisionChain("PO-100", []domain.PurchaseOrder{
		chainRow("id-2", "PO-100", 2, "", false),
		chainRow("id-3", "PO-100", 3, "id-2", true),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, chain.Len())
	assert.Equal(t, 2, chain.Revisions[0].RevisionNumber)
}

func TestNewRevisionChain_ToleratesHeadlessChainAfterDelete(t *testing.T) {
	// The active head was deleted; no row is reactivated.
	chain, err := domain.NewRevisionChain("PO-100", []domain.PurchaseOrder{
		chainRow("id-1", "PO-100", 1, "", false),
		chainRow("id-2", "PO-100", 2, "id-1", false),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, chain.Len())
	assert.Nil(t, chain.Active())
}

func TestNewRevisionChain_DuplicateRevisionNumbers(t *testing.T) {
	_, err := domain.NewRevisionChain("PO-100", []domain.PurchaseOrder{
		chainRow("id-1", "PO-100", 1, "", false),
		chainRow("id-1b", "PO-100", 1, "", true),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate revision")
}

func TestNewRevisionChain_MultipleActiveRevisions(t *testing.T) {
	_, err := domain.NewRevisionChain("PO-100", []domain.PurchaseOrder{
		chainRow("id-1", "PO-100", 1, "", true),
		chainRow("id-2", "PO-100", 2, "id-1", true),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than one active")
}

func TestNewRevisionChain_ActiveMustBeHighest(t *testing.T) {
	_, err := domain.NewRevisionChain("PO-100", []domain.PurchaseOrder{
		chainRow("id-1", "PO-100", 1, "", true),
		chainRow("id-2", "PO-100", 2, "id-1", false),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not the highest")
}

func TestNewRevisionChain_FirstRevisionMustNotSupersede(t *testing.T) {
	_, err := domain.NewRevisionChain("PO-100", []domain.PurchaseOrder{
		chainRow("id-1", "PO-100", 1, "id-0", true),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not supersede")
}

func TestNewRevisionChain_BrokenSupersedesLink(t *testing.T) {
	_, err := domain.NewRevisionChain("PO-100", []domain.PurchaseOrder{
		chainRow("id-1", "PO-100", 1, "", false),
		chainRow("id-2", "PO-100", 2, "id-other", true),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not supersede its predecessor")
}

func TestNewRevisionChain_DanglingSupersedesLink(t *testing.T) {
	// A surviving link to a missing row is corruption: deletion always nulls
	// the links pointing at the removed row.
	_, err := domain.NewRevisionChain("PO-100", []domain.PurchaseOrder{
		chainRow("id-2", "PO-100", 2, "id-1", true),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not supersede its predecessor")
}

func TestNewRevisionChain_ForeignBaseRejected(t *testing.T) {
	_, err := domain.NewRevisionChain("PO-100", []domain.PurchaseOrder{
		chainRow("id-1", "PO-200", 1, "", true),
	})
	assert.Error(t, err)
}
