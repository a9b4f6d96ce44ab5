package ordersync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/marketplace"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByExternalKey(ctx context.Context, tenantID uuid.UUID, key string) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, tenantID uuid.UUID, page, pageSize int) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, tenantID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

var _ catalog.ProductRepository = (*MockProductRepository)(nil)

// MockRecordRepository is a mock implementation of order.RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) FindByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*order.Record, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Record), args.Error(1)
}

func (m *MockRecordRepository) FindByRemoteOrderAndProduct(ctx context.Context, tenantID uuid.UUID, remoteOrderID string, productID uuid.UUID) (*order.Record, error) {
	args := m.Called(ctx, tenantID, remoteOrderID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Record), args.Error(1)
}

func (m *MockRecordRepository) FindByRemoteOrder(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) ([]order.Record, error) {
	args := m.Called(ctx, tenantID, remoteOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Record), args.Error(1)
}

func (m *MockRecordRepository) FindAll(ctx context.Context, tenantID uuid.UUID, page, pageSize int) ([]order.Record, int64, error) {
	args := m.Called(ctx, tenantID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]order.Record), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecordRepository) Create(ctx context.Context, record *order.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) Update(ctx context.Context, record *order.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

var _ order.RecordRepository = (*MockRecordRepository)(nil)

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	callArgs := make([]interface{}, 0, len(events)+1)
	callArgs = append(callArgs, ctx)
	for _, e := range events {
		callArgs = append(callArgs, e)
	}
	args := m.Called(callArgs...)
	return args.Error(0)
}

var _ shared.EventPublisher = (*MockEventPublisher)(nil)

// MockPlatform is a mock implementation of marketplace.Platform
type MockPlatform struct {
	mock.Mock
}

func (m *MockPlatform) GetOrder(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) (*marketplace.RemoteOrder, error) {
	args := m.Called(ctx, tenantID, remoteOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketplace.RemoteOrder), args.Error(1)
}

func (m *MockPlatform) ListOffers(ctx context.Context, tenantID uuid.UUID) ([]marketplace.RemoteOffer, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketplace.RemoteOffer), args.Error(1)
}

func (m *MockPlatform) ListRecentOrders(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]marketplace.RemoteOrder, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketplace.RemoteOrder), args.Error(1)
}

func (m *MockPlatform) DeliverDigitalGoods(ctx context.Context, tenantID uuid.UUID, remoteOrderID string, items []marketplace.DigitalGoods) error {
	args := m.Called(ctx, tenantID, remoteOrderID, items)
	return args.Error(0)
}

var _ marketplace.Platform = (*MockPlatform)(nil)

// MockOrderSyncer is a mock implementation of OrderSyncer
type MockOrderSyncer struct {
	mock.Mock
}

func (m *MockOrderSyncer) SyncOrder(ctx context.Context, tenantID uuid.UUID, remote *marketplace.RemoteOrder) (*SyncOrderResult, error) {
	args := m.Called(ctx, tenantID, remote)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SyncOrderResult), args.Error(1)
}

var _ OrderSyncer = (*MockOrderSyncer)(nil)

// MockCatalogSyncer is a mock implementation of CatalogSyncer
type MockCatalogSyncer struct {
	mock.Mock
}

func (m *MockCatalogSyncer) SyncCatalog(ctx context.Context, tenantID uuid.UUID) (*CatalogSyncResult, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CatalogSyncResult), args.Error(1)
}

var _ CatalogSyncer = (*MockCatalogSyncer)(nil)

// MockAutoFulfiller is a mock implementation of AutoFulfiller
type MockAutoFulfiller struct {
	mock.Mock
}

func (m *MockAutoFulfiller) TryFulfill(ctx context.Context, tenantID uuid.UUID, remoteOrderID string, triggerProductID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, remoteOrderID, triggerProductID)
	return args.Bool(0), args.Error(1)
}

var _ AutoFulfiller = (*MockAutoFulfiller)(nil)

// StubTxManager satisfies shared.TxManager without a database. It runs the
// unit function directly and counts how many units aborted, standing in for
// a rollback.
type StubTxManager struct {
	Units      int
	RolledBack int
}

func (s *StubTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.Units++
	if err := fn(ctx); err != nil {
		s.RolledBack++
		return err
	}
	return nil
}

var _ shared.TxManager = (*StubTxManager)(nil)
