package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/application/ordersync"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/fulfillment"
	"github.com/storefront/backend/internal/domain/marketplace"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/tenant"
)

var (
	ErrNoDeliverableItems    = errors.New("fulfillment: order has no deliverable digital items")
	ErrNoCredentialAvailable = errors.New("fulfillment: no activation credential available")
	ErrRemoteDeliveryFailed  = errors.New("fulfillment: remote digital goods delivery failed")
	ErrNothingToFinish       = errors.New("fulfillment: all order records already finished")
)

// MissingTemplatesError aborts fulfillment before anything is sent when any
// deliverable product lacks a template. Delivery is a single all-or-nothing
// platform call, so a partial set of instructions is never acceptable.
type MissingTemplatesError struct {
	Products []string
}

func (e *MissingTemplatesError) Error() string {
	return "fulfillment: products without a template: " + strings.Join(e.Products, ", ")
}

// Matcher resolves a remote line item to a local catalog product
type Matcher interface {
	Match(ctx context.Context, tenantID uuid.UUID, item marketplace.RemoteOrderItem) (*catalog.Product, error)
}

// Syncer mirrors a remote order snapshot into local order records
type Syncer interface {
	SyncOrder(ctx context.Context, tenantID uuid.UUID, remote *marketplace.RemoteOrder) (*ordersync.SyncOrderResult, error)
}

// CompleteResult reports what one fulfillment pass delivered
type CompleteResult struct {
	RemoteOrderID string
	Delivered     int
}

// deliverable pairs one digital line item with its local state for the
// duration of a fulfillment pass.
type deliverable struct {
	item     marketplace.RemoteOrderItem
	product  *catalog.Product
	record   *order.Record
	template *fulfillment.Template
	code     string
}

// Engine performs digital fulfillment: it resolves activation credentials for
// every deliverable item of a remote order and submits them to the platform in
// one call. Credentials consumed by a pass that later fails at the platform
// stay consumed; a retry reuses the codes already bound to the records.
type Engine struct {
	platform    marketplace.Platform
	matcher     Matcher
	syncer      Syncer
	records     order.RecordRepository
	credentials fulfillment.CredentialRepository
	templates   fulfillment.TemplateRepository
	settings    tenant.SettingsRepository
	tx          shared.TxManager
	logger      *zap.Logger
}

// NewEngine creates a new fulfillment Engine
func NewEngine(
	platform marketplace.Platform,
	matcher Matcher,
	syncer Syncer,
	records order.RecordRepository,
	credentials fulfillment.CredentialRepository,
	templates fulfillment.TemplateRepository,
	settings tenant.SettingsRepository,
	tx shared.TxManager,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		platform:    platform,
		matcher:     matcher,
		syncer:      syncer,
		records:     records,
		credentials: credentials,
		templates:   templates,
		settings:    settings,
		tx:          tx,
		logger:      logger,
	}
}

// Complete fulfills one remote order. The order is refetched from the platform
// so decisions run against the canonical snapshot, not a possibly stale local
// one. manualCodes, keyed by product ID, take priority over bound, pooled and
// generated credentials. Already-sent records are skipped, so calling Complete
// twice delivers nothing twice.
func (e *Engine) Complete(ctx context.Context, tenantID uuid.UUID, remoteOrderID string, manualCodes map[uuid.UUID]string) (*CompleteResult, error) {
	remote, err := e.platform.GetOrder(ctx, tenantID, remoteOrderID)
	if err != nil {
		return nil, err
	}

	if _, err := e.syncer.SyncOrder(ctx, tenantID, remote); err != nil {
		return nil, fmt.Errorf("sync before fulfillment: %w", err)
	}

	deliverables, sawDigital, err := e.collectDeliverables(ctx, tenantID, remote)
	if err != nil {
		return nil, err
	}
	result := &CompleteResult{RemoteOrderID: remoteOrderID}
	if len(deliverables) == 0 {
		if sawDigital {
			// Every digital item was already delivered.
			return result, nil
		}
		return nil, ErrNoDeliverableItems
	}

	if err := e.loadTemplates(ctx, tenantID, deliverables); err != nil {
		return nil, err
	}

	cfg, err := e.tenantSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	for _, d := range deliverables {
		if err := e.resolveCredential(ctx, tenantID, d, manualCodes); err != nil {
			return nil, err
		}
	}

	goods := make([]marketplace.DigitalGoods, 0, len(deliverables))
	now := time.Now()
	for _, d := range deliverables {
		activateTill := d.template.ExpiryDate(now).Format(marketplace.ActivateTillLayout)
		goods = append(goods, marketplace.DigitalGoods{
			ItemID: d.item.ID,
			Codes:  []string{d.code},
			Instructions: d.template.Render(fulfillment.TemplateVars{
				Code:           d.code,
				ProcessingTime: cfg.ProcessingTimeText,
				ContactEmail:   cfg.ContactEmail,
				ActivateTill:   activateTill,
			}),
			ActivateTill: activateTill,
		})
	}

	if err := e.platform.DeliverDigitalGoods(ctx, tenantID, remoteOrderID, goods); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteDeliveryFailed, err)
	}

	// The delivery succeeded remotely, so the whole batch flips to sent in
	// one transaction. Credential writes stay outside it on purpose: codes
	// consumed by a pass that fails later must survive for the retry.
	err = e.tx.WithinTx(ctx, func(txCtx context.Context) error {
		for _, d := range deliverables {
			d.record.MarkSent()
			if err := e.records.Update(txCtx, d.record); err != nil {
				return err
			}
			result.Delivered++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.resyncAfterDelivery(ctx, tenantID, remoteOrderID)
	return result, nil
}

// Finish manually finalizes every record of a remote order. A finished record
// only leaves FINISHED on an observed remote cancellation.
func (e *Engine) Finish(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) error {
	group, err := e.records.FindByRemoteOrder(ctx, tenantID, remoteOrderID)
	if err != nil {
		return err
	}
	if len(group) == 0 {
		return order.ErrRecordNotFound
	}

	finished := 0
	for i := range group {
		if err := group[i].MarkFinished(); err != nil {
			continue
		}
		if err := e.records.Update(ctx, &group[i]); err != nil {
			return err
		}
		finished++
	}
	if finished == 0 {
		return ErrNothingToFinish
	}
	return nil
}

// collectDeliverables matches every remote item and keeps the digital ones
// whose record has not been sent yet. sawDigital distinguishes an order with
// nothing digital from one already fully delivered.
func (e *Engine) collectDeliverables(ctx context.Context, tenantID uuid.UUID, remote *marketplace.RemoteOrder) ([]*deliverable, bool, error) {
	var out []*deliverable
	sawDigital := false

	for _, item := range remote.Items {
		product, err := e.matcher.Match(ctx, tenantID, item)
		if err != nil {
			return nil, false, err
		}
		if product == nil || !product.IsDigital() {
			continue
		}
		sawDigital = true

		record, err := e.records.FindByRemoteOrderAndProduct(ctx, tenantID, remote.ID, product.GetID())
		if err != nil {
			if errors.Is(err, order.ErrRecordNotFound) {
				e.logger.Warn("matched item has no order record after sync",
					zap.String("remote_order_id", remote.ID),
					zap.String("product_id", product.GetID().String()),
				)
				continue
			}
			return nil, false, err
		}
		if record.Sent {
			continue
		}

		out = append(out, &deliverable{item: item, product: product, record: record})
	}
	return out, sawDigital, nil
}

// loadTemplates resolves the template of every deliverable, or fails with the
// full list of offending products.
func (e *Engine) loadTemplates(ctx context.Context, tenantID uuid.UUID, deliverables []*deliverable) error {
	var missing []string
	for _, d := range deliverables {
		if !d.product.HasTemplate() {
			missing = append(missing, d.product.Name)
			continue
		}
		tpl, err := e.templates.FindByID(ctx, tenantID, *d.product.TemplateID)
		if err != nil {
			if errors.Is(err, fulfillment.ErrTemplateNotFound) {
				missing = append(missing, d.product.Name)
				continue
			}
			return err
		}
		d.template = tpl
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingTemplatesError{Products: missing}
	}
	return nil
}

// resolveCredential binds an activation code to a deliverable. Priority:
// manual code, credential already bound to the record, unused pool credential,
// freshly generated code when the template allows it.
func (e *Engine) resolveCredential(ctx context.Context, tenantID uuid.UUID, d *deliverable, manualCodes map[uuid.UUID]string) error {
	if code, ok := manualCodes[d.product.GetID()]; ok && code != "" {
		credential, err := fulfillment.NewCredential(tenantID, d.product.GetID(), code)
		if err != nil {
			return err
		}
		return e.consume(ctx, d, credential)
	}

	if d.record.HasCredential() {
		credential, err := e.credentials.FindByID(ctx, tenantID, *d.record.CredentialID)
		if err != nil {
			return err
		}
		if !credential.Used {
			if err := credential.MarkUsed(d.record.GetID()); err != nil {
				return err
			}
			if err := e.credentials.Save(ctx, credential); err != nil {
				return err
			}
		}
		d.code = credential.Code
		return nil
	}

	credential, err := e.credentials.FindUnusedByProduct(ctx, tenantID, d.product.GetID())
	if err != nil && !errors.Is(err, fulfillment.ErrCredentialNotFound) {
		return err
	}
	if credential != nil {
		return e.consume(ctx, d, credential)
	}

	if !d.template.AutoGenerated {
		return fmt.Errorf("%w: product %s", ErrNoCredentialAvailable, d.product.Name)
	}
	credential, err = fulfillment.GenerateCredential(tenantID, d.product.GetID())
	if err != nil {
		return err
	}
	return e.consume(ctx, d, credential)
}

// consume marks a credential used, persists it and binds it to the record
func (e *Engine) consume(ctx context.Context, d *deliverable, credential *fulfillment.Credential) error {
	if err := credential.MarkUsed(d.record.GetID()); err != nil {
		return err
	}
	if err := e.credentials.Save(ctx, credential); err != nil {
		return err
	}
	d.record.BindCredential(credential.GetID())
	if err := e.records.Update(ctx, d.record); err != nil {
		return err
	}
	d.code = credential.Code
	return nil
}

// tenantSettings loads the tenant knobs, falling back to empty defaults so a
// tenant without a settings row can still fulfill manually.
func (e *Engine) tenantSettings(ctx context.Context, tenantID uuid.UUID) (*tenant.Settings, error) {
	cfg, err := e.settings.FindByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrSettingsNotFound) {
			return &tenant.Settings{TenantID: tenantID}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// resyncAfterDelivery refreshes local state so a DELIVERED status reported
// right after the call is picked up without waiting for the next poll.
// Failures here are logged only; the delivery itself already succeeded.
func (e *Engine) resyncAfterDelivery(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) {
	remote, err := e.platform.GetOrder(ctx, tenantID, remoteOrderID)
	if err != nil {
		e.logger.Warn("post-delivery refetch failed",
			zap.String("remote_order_id", remoteOrderID),
			zap.Error(err),
		)
		return
	}
	if _, err := e.syncer.SyncOrder(ctx, tenantID, remote); err != nil {
		e.logger.Warn("post-delivery sync failed",
			zap.String("remote_order_id", remoteOrderID),
			zap.Error(err),
		)
	}
}
