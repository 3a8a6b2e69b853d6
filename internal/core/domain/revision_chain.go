package domain

import (
	"fmt"
	"sort"
)

// RevisionChain materializes all surviving revisions of a purchase order as
// an ordered list, with a cached index of the active entry. The "at most one
// active" rule becomes a property of this aggregate rather than something
// reconstructed by chasing supersedes pointers.
type RevisionChain struct {
	PONumberBase string
	Revisions    []PurchaseOrder // ordered by revision number ascending

	activeIdx int
}

// NewRevisionChain builds and verifies a chain from the surviving rows of one
// PONumberBase. Any revision row may be physically deleted, so the sequence
// may start above 1 and carry gaps, and a chain whose active head was deleted
// has no active row at all. What must hold for the rows that remain: revision
// numbers are unique, at most one row is active and it is the highest, and a
// surviving supersedes link points at the surviving immediate predecessor.
func NewRevisionChain(base string, rows []PurchaseOrder) (*RevisionChain, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("revision chain %s has no rows", base)
	}

	revisions := make([]PurchaseOrder, len(rows))
	copy(revisions, rows)
	sort.Slice(revisions, func(i, j int) bool {
		return revisions[i].RevisionNumber < revisions[j].RevisionNumber
	})

	activeIdx := -1
	for i, rev := range revisions {
		if rev.PONumberBase != base {
			return nil, fmt.Errorf("revision chain %s contains row %s of base %s", base, rev.PurchaseOrderID, rev.PONumberBase)
		}
		if i > 0 && rev.RevisionNumber == revisions[i-1].RevisionNumber {
			return nil, fmt.Errorf("revision chain %s has duplicate revision %d", base, rev.RevisionNumber)
		}
		if rev.IsActive {
			if activeIdx >= 0 {
				return nil, fmt.Errorf("revision chain %s has more than one active revision", base)
			}
			activeIdx = i
		}
		if rev.Supersedes == "" {
			continue
		}
		if rev.RevisionNumber == 1 {
			return nil, fmt.Errorf("revision chain %s: first revision must not supersede anything", base)
		}
		// Deleting a row nulls the link of its successor, so a surviving link
		// means the predecessor still exists and sorts directly before it.
		if i == 0 || revisions[i-1].RevisionNumber != rev.RevisionNumber-1 || rev.Supersedes != revisions[i-1].PurchaseOrderID {
			return nil, fmt.Errorf("revision chain %s: revision %d does not supersede its predecessor", base, rev.RevisionNumber)
		}
	}

	if activeIdx >= 0 && activeIdx != len(revisions)-1 {
		return nil, fmt.Errorf("revision chain %s: active revision %d is not the highest", base, revisions[activeIdx].RevisionNumber)
	}

	return &RevisionChain{
		PONumberBase: base,
		Revisions:    revisions,
		activeIdx:    activeIdx,
	}, nil
}

// Active returns the active revision, or nil for a headless chain whose
// active revision was deleted.
func (c *RevisionChain) Active() *PurchaseOrder {
	if c.activeIdx < 0 {
		return nil
	}
	return &c.Revisions[c.activeIdx]
}

// Len returns the number of revisions in the chain.
func (c *RevisionChain) Len() int {
	return len(c.Revisions)
}
