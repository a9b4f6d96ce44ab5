package ordersync

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/marketplace"
)

// ItemMatcher resolves a remote order line item to a local catalog product.
// Matching runs an ordered set of strategies and stops at the first hit:
//
//  1. The item's offer ID or shop SKU equals a product's external ID or
//     external SKU (four-way OR through the key lookup).
//  2. The market-level SKU, when present, is tried against the same columns.
//  3. Every active product's snapshot blob is scanned for a nested field equal
//     to any of the item's identifiers. This covers products whose remote
//     identifiers only live inside richer card data.
//
// The matcher has no side effects and is re-run against a freshly fetched
// snapshot at fulfillment time instead of reusing a cached result.
type ItemMatcher struct {
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewItemMatcher creates a new ItemMatcher
func NewItemMatcher(products catalog.ProductRepository, logger *zap.Logger) *ItemMatcher {
	return &ItemMatcher{
		products: products,
		logger:   logger,
	}
}

// Match resolves a remote item to a product. A miss returns (nil, nil): an
// unmatched item may simply belong to another seller on a shared order, so it
// is a skip, not an error.
func (m *ItemMatcher) Match(ctx context.Context, tenantID uuid.UUID, item marketplace.RemoteOrderItem) (*catalog.Product, error) {
	// Strategy 1: flat-column lookup by offer ID or shop SKU.
	for _, key := range []string{item.OfferID, item.ShopSKU} {
		if key == "" {
			continue
		}
		product, err := m.products.FindByExternalKey(ctx, tenantID, key)
		if err == nil {
			return product, nil
		}
		if err != catalog.ErrProductNotFound {
			return nil, err
		}
	}

	// Strategy 2: market-level SKU against the same columns.
	if item.MarketSKU != "" {
		product, err := m.products.FindByExternalKey(ctx, tenantID, item.MarketSKU)
		if err == nil {
			return product, nil
		}
		if err != catalog.ErrProductNotFound {
			return nil, err
		}
	}

	// Strategy 3: structural scan of snapshot blobs.
	active, err := m.products.FindActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for i := range active {
		if active[i].Snapshot.ContainsValue(item.OfferID, item.ShopSKU, item.MarketSKU) {
			return &active[i], nil
		}
	}

	m.logger.Debug("remote item did not match any product",
		zap.String("tenant_id", tenantID.String()),
		zap.String("offer_id", item.OfferID),
		zap.String("shop_sku", item.ShopSKU),
		zap.String("market_sku", item.MarketSKU),
	)
	return nil, nil
}
