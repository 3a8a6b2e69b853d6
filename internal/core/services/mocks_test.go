package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/poledger/po_settlement_app/internal/core/domain"
	portsprov "github.com/poledger/po_settlement_app/internal/core/ports/providers"
	portsrepo "github.com/poledger/po_settlement_app/internal/core/ports/repositories"
)

// --- Mock ExchangeRateRepository ---

type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error {
	args := m.Called(ctx, rates)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) FindRateCandidates(ctx context.Context, fromCode, toCode string, asOf time.Time) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCode, toCode, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ListExchangeRates(ctx context.Context, filter portsrepo.ExchangeRateListFilter) ([]domain.ExchangeRate, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Int(1), args.Error(2)
}

// --- Mock PurchaseOrderRepository ---

type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindPurchaseOrderByID(ctx context.Context, purchaseOrderID string) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, purchaseOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindRevisionsByBase(ctx context.Context, poNumberBase string) ([]domain.PurchaseOrder, error) {
	args := m.Called(ctx, poNumberBase)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindActiveByBase(ctx context.Context, poNumberBase string) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, poNumberBase)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindActiveByProjectCode(ctx context.Context, projectCode string) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, projectCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) ListActivePurchaseOrders(ctx context.Context, filter portsrepo.PurchaseOrderListFilter) ([]domain.PurchaseOrder, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PurchaseOrder), args.Int(1), args.Error(2)
}

func (m *MockPurchaseOrderRepository) SavePurchaseOrder(ctx context.Context, po domain.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) CreateRevision(ctx context.Context, next domain.PurchaseOrder) error {
	args := m.Called(ctx, next)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) AdjustPurchaseOrder(ctx context.Context, purchaseOrderID string, adjusted decimal.Decimal, reason, actorID string, at time.Time) error {
	args := m.Called(ctx, purchaseOrderID, adjusted, reason, actorID, at)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) UpdateStatus(ctx context.Context, purchaseOrderID string, status domain.POStatus, actorID string, at time.Time) error {
	args := m.Called(ctx, purchaseOrderID, status, actorID, at)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) DeletePurchaseOrder(ctx context.Context, purchaseOrderID string) error {
	args := m.Called(ctx, purchaseOrderID)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock ProjectRepository ---

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindProjectByCode(ctx context.Context, projectCode string) (*domain.ProjectSummary, error) {
	args := m.Called(ctx, projectCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProjectSummary), args.Error(1)
}

func (m *MockProjectRepository) SaveProject(ctx context.Context, project domain.ProjectSummary) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

// --- Mock QuoteProvider ---

type MockQuoteProvider struct {
	mock.Mock
}

func (m *MockQuoteProvider) FetchLatest(ctx context.Context, baseCurrency string, symbols []string) (*portsprov.QuoteSnapshot, error) {
	args := m.Called(ctx, baseCurrency, symbols)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsprov.QuoteSnapshot), args.Error(1)
}

// --- Mock ConverterSvc ---

type MockConverterSvc struct {
	mock.Mock
}

func (m *MockConverterSvc) Convert(ctx context.Context, amount decimal.Decimal, fromCode string, asOf time.Time) (*domain.ConversionResult, error) {
	args := m.Called(ctx, amount, fromCode, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversionResult), args.Error(1)
}

// --- Mock ProjectReaderSvc ---

type MockProjectReaderSvc struct {
	mock.Mock
}

func (m *MockProjectReaderSvc) GetProject(ctx context.Context, projectCode string) (*domain.ProjectSummary, error) {
	args := m.Called(ctx, projectCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProjectSummary), args.Error(1)
}

func (m *MockProjectReaderSvc) HasActivePurchaseOrder(ctx context.Context, projectCode string) (bool, string, error) {
	args := m.Called(ctx, projectCode)
	return args.Bool(0), args.String(1), args.Error(2)
}
