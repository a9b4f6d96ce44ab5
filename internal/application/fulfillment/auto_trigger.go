package fulfillment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/fulfillment"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/tenant"
)

// Completer dispatches a fulfillment pass for one remote order
type Completer interface {
	Complete(ctx context.Context, tenantID uuid.UUID, remoteOrderID string, manualCodes map[uuid.UUID]string) (*CompleteResult, error)
}

// DispatchGuard is the idempotency store preventing two workers from
// dispatching fulfillment for the same remote order at the same time.
type DispatchGuard interface {
	// TryAcquire claims the dispatch slot for a remote order. Returns false
	// when another worker already holds it.
	TryAcquire(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) (bool, error)

	// Release frees the dispatch slot once the pass settles. The sent flag
	// on the records, not the slot, keeps a delivered order from being
	// dispatched again.
	Release(ctx context.Context, tenantID uuid.UUID, remoteOrderID string)
}

// AutoTrigger decides whether a just-synced order qualifies for unattended
// fulfillment. The gates run against every digital sibling of the order
// group: one digital sibling that cannot be auto-fulfilled holds back the
// entire order, because delivery is a single all-or-nothing call. Physical
// siblings ship on their own and never gate the decision.
type AutoTrigger struct {
	settings    tenant.SettingsRepository
	products    catalog.ProductRepository
	templates   fulfillment.TemplateRepository
	credentials fulfillment.CredentialRepository
	records     order.RecordRepository
	guard       DispatchGuard
	completer   Completer
	logger      *zap.Logger
}

// NewAutoTrigger creates a new AutoTrigger
func NewAutoTrigger(
	settings tenant.SettingsRepository,
	products catalog.ProductRepository,
	templates fulfillment.TemplateRepository,
	credentials fulfillment.CredentialRepository,
	records order.RecordRepository,
	guard DispatchGuard,
	completer Completer,
	logger *zap.Logger,
) *AutoTrigger {
	return &AutoTrigger{
		settings:    settings,
		products:    products,
		templates:   templates,
		credentials: credentials,
		records:     records,
		guard:       guard,
		completer:   completer,
		logger:      logger,
	}
}

// TryFulfill runs the auto-fulfillment gates for a remote order after an
// upsert touched the record of triggerProductID, and dispatches Complete when
// every gate passes. A declined gate is a normal outcome, logged and reported
// as (false, nil). The triggering record may be assigned a credential on the
// spot; every other digital sibling must already carry one from an earlier
// pass. Settings are read fresh so toggling the tenant switch takes effect on
// the next order without a restart.
func (t *AutoTrigger) TryFulfill(ctx context.Context, tenantID uuid.UUID, remoteOrderID string, triggerProductID uuid.UUID) (bool, error) {
	enabled, err := t.autoActivationEnabled(ctx, tenantID)
	if err != nil {
		return false, err
	}
	if !enabled {
		return false, nil
	}

	group, err := t.records.FindByRemoteOrder(ctx, tenantID, remoteOrderID)
	if err != nil {
		return false, err
	}

	digital := 0
	for i := range group {
		isDigital, reason, err := t.gateRecord(ctx, tenantID, &group[i], triggerProductID)
		if err != nil {
			return false, err
		}
		if reason != "" {
			t.logger.Debug("auto-fulfillment declined",
				zap.String("tenant_id", tenantID.String()),
				zap.String("remote_order_id", remoteOrderID),
				zap.String("reason", reason),
			)
			return false, nil
		}
		if isDigital {
			digital++
		}
	}
	if digital == 0 {
		return false, nil
	}

	acquired, err := t.guard.TryAcquire(ctx, tenantID, remoteOrderID)
	if err != nil {
		return false, err
	}
	if !acquired {
		return false, nil
	}
	defer t.guard.Release(ctx, tenantID, remoteOrderID)

	if _, err := t.completer.Complete(ctx, tenantID, remoteOrderID, nil); err != nil {
		return false, err
	}
	return true, nil
}

// gateRecord checks one sibling against the auto-fulfillment gates. Physical
// siblings pass without counting toward the dispatch. A non-empty reason
// declines the whole group.
func (t *AutoTrigger) gateRecord(ctx context.Context, tenantID uuid.UUID, record *order.Record, triggerProductID uuid.UUID) (isDigital bool, reason string, err error) {
	if record.Sent {
		return false, "already sent", nil
	}

	product, err := t.products.FindByID(ctx, tenantID, record.ProductID)
	if err != nil {
		return false, "product lookup failed: " + err.Error(), nil
	}
	if !product.IsDigital() {
		return false, "", nil
	}

	if record.Status != order.StatusProcessing {
		return true, "order not in processing", nil
	}
	if !product.HasTemplate() {
		return true, "product has no template", nil
	}

	template, err := t.templates.FindByID(ctx, tenantID, *product.TemplateID)
	if err != nil {
		return true, "template lookup failed: " + err.Error(), nil
	}
	if !template.AutoGenerated {
		return true, "template requires manual codes", nil
	}

	if !record.HasCredential() && record.ProductID == triggerProductID {
		if err := t.ensureCredential(ctx, tenantID, record); err != nil {
			return true, "", err
		}
	}
	if !record.HasCredential() {
		return true, "sibling has no credential bound", nil
	}
	return true, "", nil
}

// ensureCredential binds an activation credential to a record that lacks one,
// preferring the unused pool before generating a fresh code.
func (t *AutoTrigger) ensureCredential(ctx context.Context, tenantID uuid.UUID, record *order.Record) error {
	if record.HasCredential() {
		return nil
	}

	credential, err := t.credentials.FindUnusedByProduct(ctx, tenantID, record.ProductID)
	if err != nil {
		if !errors.Is(err, fulfillment.ErrCredentialNotFound) {
			return err
		}
		credential, err = fulfillment.GenerateCredential(tenantID, record.ProductID)
		if err != nil {
			return err
		}
	}

	if err := credential.MarkUsed(record.GetID()); err != nil {
		return err
	}
	if err := t.credentials.Save(ctx, credential); err != nil {
		return err
	}
	record.BindCredential(credential.GetID())
	return t.records.Update(ctx, record)
}

// autoActivationEnabled reads the tenant switch; a missing settings row means
// the feature is off.
func (t *AutoTrigger) autoActivationEnabled(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	cfg, err := t.settings.FindByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrSettingsNotFound) {
			return false, nil
		}
		return false, err
	}
	return cfg.AutoActivationEnabled, nil
}
