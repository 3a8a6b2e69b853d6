package mapping

import (
	"github.com/poledger/po_settlement_app/internal/core/domain"
	"github.com/poledger/po_settlement_app/internal/models"
)

// ToModelPurchaseOrder converts a domain PurchaseOrder to a model
// PurchaseOrder. Empty chain links and absent adjustments become NULLs.
func ToModelPurchaseOrder(d domain.PurchaseOrder) models.PurchaseOrder {
	m := models.PurchaseOrder{
		PurchaseOrderID:    d.PurchaseOrderID,
		PONumber:           d.PONumber,
		PONumberBase:       d.PONumberBase,
		ProjectCode:        d.ProjectCode,
		ClientName:         d.ClientName,
		Amount:             d.Amount,
		CurrencyCode:       d.CurrencyCode,
		ExchangeRate:       d.ExchangeRate,
		AmountMYR:          d.AmountMYR,
		ExchangeRateSource: string(d.ExchangeRateSource),
		AmountMYRAdjusted:  d.AmountMYRAdjusted,
		AdjustedAt:         d.AdjustedAt,
		RevisionNumber:     d.RevisionNumber,
		IsActive:           d.IsActive,
		RevisionDate:       d.RevisionDate,
		Status:             string(d.Status),
		ReceivedDate:       d.ReceivedDate,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
	m.AdjustmentReason = nullableString(d.AdjustmentReason)
	m.AdjustedBy = nullableString(d.AdjustedBy)
	m.Supersedes = nullableString(d.Supersedes)
	m.SupersededBy = nullableString(d.SupersededBy)
	m.RevisionReason = nullableString(d.RevisionReason)
	return m
}

// ToDomainPurchaseOrder converts a model PurchaseOrder to a domain
// PurchaseOrder.
func ToDomainPurchaseOrder(m models.PurchaseOrder) domain.PurchaseOrder {
	return domain.PurchaseOrder{
		PurchaseOrderID:    m.PurchaseOrderID,
		PONumber:           m.PONumber,
		PONumberBase:       m.PONumberBase,
		ProjectCode:        m.ProjectCode,
		ClientName:         m.ClientName,
		Amount:             m.Amount,
		CurrencyCode:       m.CurrencyCode,
		ExchangeRate:       m.ExchangeRate,
		AmountMYR:          m.AmountMYR,
		ExchangeRateSource: domain.ConversionSource(m.ExchangeRateSource),
		AmountMYRAdjusted:  m.AmountMYRAdjusted,
		AdjustmentReason:   stringValue(m.AdjustmentReason),
		AdjustedBy:         stringValue(m.AdjustedBy),
		AdjustedAt:         m.AdjustedAt,
		RevisionNumber:     m.RevisionNumber,
		IsActive:           m.IsActive,
		Supersedes:         stringValue(m.Supersedes),
		SupersededBy:       stringValue(m.SupersededBy),
		RevisionDate:       m.RevisionDate,
		RevisionReason:     stringValue(m.RevisionReason),
		Status:             domain.POStatus(m.Status),
		ReceivedDate:       m.ReceivedDate,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
