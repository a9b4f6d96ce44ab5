package ordersync

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/marketplace"
)

// CatalogSyncResult reports what one catalog pass did for a tenant
type CatalogSyncResult struct {
	Created int
	Updated int
	Skipped int
}

// CatalogSyncService mirrors the tenant's remote offer list into the local
// catalog. Only marketplace-owned fields are written; cost price, supplier and
// template bindings belong to the merchant and survive every pass.
type CatalogSyncService struct {
	platform marketplace.Platform
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewCatalogSyncService creates a new CatalogSyncService
func NewCatalogSyncService(platform marketplace.Platform, products catalog.ProductRepository, logger *zap.Logger) *CatalogSyncService {
	return &CatalogSyncService{
		platform: platform,
		products: products,
		logger:   logger,
	}
}

// SyncCatalog pulls every remote offer and creates or refreshes the matching
// product. New products default to PHYSICAL; marking one DIGITAL is a
// deliberate merchant action, not something inferred from a listing.
func (s *CatalogSyncService) SyncCatalog(ctx context.Context, tenantID uuid.UUID) (*CatalogSyncResult, error) {
	offers, err := s.platform.ListOffers(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	result := &CatalogSyncResult{}
	for _, offer := range offers {
		created, err := s.syncOffer(ctx, tenantID, offer)
		if err != nil {
			return nil, err
		}
		switch created {
		case offerCreated:
			result.Created++
		case offerUpdated:
			result.Updated++
		default:
			result.Skipped++
		}
	}

	s.logger.Info("catalog sync finished",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

type offerOutcome int

const (
	offerSkipped offerOutcome = iota
	offerCreated
	offerUpdated
)

func (s *CatalogSyncService) syncOffer(ctx context.Context, tenantID uuid.UUID, offer marketplace.RemoteOffer) (offerOutcome, error) {
	if offer.OfferID == "" && offer.ShopSKU == "" {
		return offerSkipped, nil
	}

	product, err := s.findByOffer(ctx, tenantID, offer)
	if err != nil {
		return offerSkipped, err
	}

	externalID := optional(offer.OfferID)
	externalSKU := optional(offer.ShopSKU)
	snapshot := catalog.Snapshot(offer.Raw)

	if product != nil {
		product.ApplyRemoteOffer(offer.Name, externalID, externalSKU, snapshot)
		if err := s.products.Save(ctx, product); err != nil {
			return offerSkipped, err
		}
		return offerUpdated, nil
	}

	if offer.Name == "" {
		return offerSkipped, nil
	}
	product, err = catalog.NewProduct(tenantID, offer.Name, catalog.ProductTypePhysical)
	if err != nil {
		return offerSkipped, err
	}
	product.ApplyRemoteOffer(offer.Name, externalID, externalSKU, snapshot)
	if err := s.products.Save(ctx, product); err != nil {
		return offerSkipped, err
	}
	return offerCreated, nil
}

func (s *CatalogSyncService) findByOffer(ctx context.Context, tenantID uuid.UUID, offer marketplace.RemoteOffer) (*catalog.Product, error) {
	for _, key := range []string{offer.OfferID, offer.ShopSKU} {
		if key == "" {
			continue
		}
		product, err := s.products.FindByExternalKey(ctx, tenantID, key)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, catalog.ErrProductNotFound) {
			return nil, err
		}
	}
	return nil, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
