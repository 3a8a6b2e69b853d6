package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/poledger/po_settlement_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgx-backed repositories over one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		ExchangeRateRepo:  NewPgxExchangeRateRepository(pool),
		PurchaseOrderRepo: NewPgxPurchaseOrderRepository(pool),
		ProjectRepo:       NewPgxProjectRepository(pool),
	}
}
