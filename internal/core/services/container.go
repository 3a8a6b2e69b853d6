package services

import (
	portsprov "github.com/poledger/po_settlement_app/internal/core/ports/providers"
	portsrepo "github.com/poledger/po_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/poledger/po_settlement_app/internal/core/ports/services"
)

// ContainerConfig carries the settlement parameters the services are
// constructed with. The base currency is configuration, not a constant baked
// into the core.
type ContainerConfig struct {
	BaseCurrencyCode  string
	TrackedCurrencies []string
}

// NewServiceContainer wires all services against the repository provider and
// the quote provider.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, quoteProvider portsprov.QuoteProvider, cfg ContainerConfig) *portssvc.ServiceContainer {
	exchangeRateSvc := NewExchangeRateService(repos.ExchangeRateRepo, cfg.BaseCurrencyCode)
	converterSvc := NewConverterService(exchangeRateSvc, cfg.BaseCurrencyCode)
	projectSvc := NewProjectService(repos.ProjectRepo, repos.PurchaseOrderRepo)
	purchaseOrderSvc := NewPurchaseOrderService(repos.PurchaseOrderRepo, converterSvc, projectSvc)
	rateImportSvc := NewRateImportService(quoteProvider, repos.ExchangeRateRepo, cfg.BaseCurrencyCode, cfg.TrackedCurrencies)

	return &portssvc.ServiceContainer{
		PurchaseOrder: purchaseOrderSvc,
		ExchangeRate:  exchangeRateSvc,
		Converter:     converterSvc,
		RateImport:    rateImportSvc,
		Project:       projectSvc,
	}
}
