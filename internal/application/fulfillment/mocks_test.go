package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/storefront/backend/internal/application/ordersync"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/fulfillment"
	"github.com/storefront/backend/internal/domain/marketplace"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/tenant"
)

// MockMatcher is a mock implementation of Matcher
type MockMatcher struct {
	mock.Mock
}

func (m *MockMatcher) Match(ctx context.Context, tenantID uuid.UUID, item marketplace.RemoteOrderItem) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

var _ Matcher = (*MockMatcher)(nil)

// MockSyncer is a mock implementation of Syncer
type MockSyncer struct {
	mock.Mock
}

func (m *MockSyncer) SyncOrder(ctx context.Context, tenantID uuid.UUID, remote *marketplace.RemoteOrder) (*ordersync.SyncOrderResult, error) {
	args := m.Called(ctx, tenantID, remote)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordersync.SyncOrderResult), args.Error(1)
}

var _ Syncer = (*MockSyncer)(nil)

// MockCompleter is a mock implementation of Completer
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, tenantID uuid.UUID, remoteOrderID string, manualCodes map[uuid.UUID]string) (*CompleteResult, error) {
	args := m.Called(ctx, tenantID, remoteOrderID, manualCodes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CompleteResult), args.Error(1)
}

var _ Completer = (*MockCompleter)(nil)

// MockDispatchGuard is a mock implementation of DispatchGuard
type MockDispatchGuard struct {
	mock.Mock
}

func (m *MockDispatchGuard) TryAcquire(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) (bool, error) {
	args := m.Called(ctx, tenantID, remoteOrderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDispatchGuard) Release(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) {
	m.Called(ctx, tenantID, remoteOrderID)
}

var _ DispatchGuard = (*MockDispatchGuard)(nil)

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

// MockCredentialRepository is a mock implementation of fulfillment.CredentialRepository
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) FindByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*fulfillment.Credential, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.Credential), args.Error(1)
}

func (m *MockCredentialRepository) FindUnusedByProduct(ctx context.Context, tenantID uuid.UUID, productID uuid.UUID) (*fulfillment.Credential, error) {
	args := m.Called(ctx, tenantID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.Credential), args.Error(1)
}

func (m *MockCredentialRepository) CountUnusedByProduct(ctx context.Context, tenantID uuid.UUID, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCredentialRepository) Save(ctx context.Context, credential *fulfillment.Credential) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

var _ fulfillment.CredentialRepository = (*MockCredentialRepository)(nil)

// MockTemplateRepository is a mock implementation of fulfillment.TemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*fulfillment.Template, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.Template), args.Error(1)
}

var _ fulfillment.TemplateRepository = (*MockTemplateRepository)(nil)

// MockSettingsRepository is a mock implementation of tenant.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*tenant.Settings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.Settings), args.Error(1)
}

func (m *MockSettingsRepository) FindAll(ctx context.Context) ([]tenant.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tenant.Settings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, settings *tenant.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

var _ tenant.SettingsRepository = (*MockSettingsRepository)(nil)

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
