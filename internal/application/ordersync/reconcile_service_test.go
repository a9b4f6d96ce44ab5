package ordersync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/marketplace"
)

func newTestReconciler(platform *MockPlatform, catalogSync *MockCatalogSyncer, orders *MockOrderSyncer, fulfiller *MockAutoFulfiller) *Reconciler {
	return NewReconciler(platform, catalogSync, orders, fulfiller, time.Hour, zap.NewNop())
}

func TestReconcileTenant_SyncsAndTriggersEveryOrder(t *testing.T) {
	mockPlatform := new(MockPlatform)
	mockCatalog := new(MockCatalogSyncer)
	mockOrders := new(MockOrderSyncer)
	mockFulfiller := new(MockAutoFulfiller)
	reconciler := newTestReconciler(mockPlatform, mockCatalog, mockOrders, mockFulfiller)
	ctx := context.Background()

	first := makeRemoteOrder("PROCESSING")
	second := makeRemoteOrder("DELIVERED")
	second.ID = "555002"
	productA := uuid.New()
	productB := uuid.New()

	mockCatalog.On("SyncCatalog", ctx, testTenantID).Return(&CatalogSyncResult{}, nil)
	mockPlatform.On("ListRecentOrders", ctx, testTenantID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]marketplace.RemoteOrder{*first, *second}, nil)
	mockOrders.On("SyncOrder", ctx, testTenantID, mock.MatchedBy(func(o *marketplace.RemoteOrder) bool { return o.ID == "555001" })).
		Return(&SyncOrderResult{DigitalProductIDs: []uuid.UUID{productA}}, nil)
	mockOrders.On("SyncOrder", ctx, testTenantID, mock.MatchedBy(func(o *marketplace.RemoteOrder) bool { return o.ID == "555002" })).
		Return(&SyncOrderResult{DigitalProductIDs: []uuid.UUID{productB}}, nil)
	mockFulfiller.On("TryFulfill", ctx, testTenantID, "555001", productA).Return(true, nil)
	mockFulfiller.On("TryFulfill", ctx, testTenantID, "555002", productB).Return(false, nil)

	result, err := reconciler.ReconcileTenant(ctx, testTenantID)

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Orders)
	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 1, result.AutoFulfilled)
	mockOrders.AssertNumberOfCalls(t, "SyncOrder", 2)
	mockFulfiller.AssertExpectations(t)
}

func TestReconcileTenant_OneBadOrderDoesNotHaltTheBatch(t *testing.T) {
	mockPlatform := new(MockPlatform)
	mockCatalog := new(MockCatalogSyncer)
	mockOrders := new(MockOrderSyncer)
	mockFulfiller := new(MockAutoFulfiller)
	reconciler := newTestReconciler(mockPlatform, mockCatalog, mockOrders, mockFulfiller)
	ctx := context.Background()

	broken := makeRemoteOrder("PROCESSING")
	healthy := makeRemoteOrder("PROCESSING")
	healthy.ID = "555002"

	mockCatalog.On("SyncCatalog", ctx, testTenantID).Return(&CatalogSyncResult{}, nil)
	mockPlatform.On("ListRecentOrders", ctx, testTenantID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]marketplace.RemoteOrder{*broken, *healthy}, nil)
	mockOrders.On("SyncOrder", ctx, testTenantID, mock.MatchedBy(func(o *marketplace.RemoteOrder) bool { return o.ID == "555001" })).
		Return(nil, errors.New("boom"))
	healthyProduct := uuid.New()
	mockOrders.On("SyncOrder", ctx, testTenantID, mock.MatchedBy(func(o *marketplace.RemoteOrder) bool { return o.ID == "555002" })).
		Return(&SyncOrderResult{DigitalProductIDs: []uuid.UUID{healthyProduct}}, nil)
	mockFulfiller.On("TryFulfill", ctx, testTenantID, "555002", healthyProduct).Return(false, nil)

	result, err := reconciler.ReconcileTenant(ctx, testTenantID)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 1, result.Failed)
	mockFulfiller.AssertNotCalled(t, "TryFulfill", ctx, testTenantID, "555001", mock.Anything)
}

func TestReconcileTenant_CatalogFailureStillSyncsOrders(t *testing.T) {
	mockPlatform := new(MockPlatform)
	mockCatalog := new(MockCatalogSyncer)
	mockOrders := new(MockOrderSyncer)
	mockFulfiller := new(MockAutoFulfiller)
	reconciler := newTestReconciler(mockPlatform, mockCatalog, mockOrders, mockFulfiller)
	ctx := context.Background()

	mockCatalog.On("SyncCatalog", ctx, testTenantID).Return(nil, errors.New("offers endpoint down"))
	mockPlatform.On("ListRecentOrders", ctx, testTenantID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]marketplace.RemoteOrder{}, nil)

	result, err := reconciler.ReconcileTenant(ctx, testTenantID)

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Orders)
	mockPlatform.AssertExpectations(t)
}

func TestReconcileTenant_DispatchFailureDoesNotFailTheOrder(t *testing.T) {
	mockPlatform := new(MockPlatform)
	mockCatalog := new(MockCatalogSyncer)
	mockOrders := new(MockOrderSyncer)
	mockFulfiller := new(MockAutoFulfiller)
	reconciler := newTestReconciler(mockPlatform, mockCatalog, mockOrders, mockFulfiller)
	ctx := context.Background()

	remote := makeRemoteOrder("PROCESSING")
	touched := uuid.New()
	mockCatalog.On("SyncCatalog", ctx, testTenantID).Return(&CatalogSyncResult{}, nil)
	mockPlatform.On("ListRecentOrders", ctx, testTenantID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]marketplace.RemoteOrder{*remote}, nil)
	mockOrders.On("SyncOrder", ctx, testTenantID, mock.AnythingOfType("*marketplace.RemoteOrder")).
		Return(&SyncOrderResult{DigitalProductIDs: []uuid.UUID{touched}}, nil)
	mockFulfiller.On("TryFulfill", ctx, testTenantID, "555001", touched).Return(false, errors.New("guard unavailable"))

	result, err := reconciler.ReconcileTenant(ctx, testTenantID)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 0, result.AutoFulfilled)
}
