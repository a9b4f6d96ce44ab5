package ordersync

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/marketplace"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// SyncOrderResult reports what one upsert pass did for a remote order
type SyncOrderResult struct {
	RemoteOrderID string
	Status        order.Status
	Created       int
	Updated       int
	Skipped       int
	AutoCompleted bool

	// DigitalProductIDs lists the digital products whose records this pass
	// created or refreshed, in line-item order. Callers use them as the
	// trigger set for auto-fulfillment.
	DigitalProductIDs []uuid.UUID
}

// UpsertService mirrors a remote order into local order records: one record
// per matched line item, keyed by (remote order, product). Both the webhook
// ingress and the periodic poll funnel through SyncOrder so push and pull get
// identical semantics.
type UpsertService struct {
	records order.RecordRepository
	matcher *ItemMatcher
	tx      shared.TxManager
	events  shared.EventPublisher
	logger  *zap.Logger
}

// NewUpsertService creates a new UpsertService
func NewUpsertService(records order.RecordRepository, matcher *ItemMatcher, tx shared.TxManager, events shared.EventPublisher, logger *zap.Logger) *UpsertService {
	return &UpsertService{
		records: records,
		matcher: matcher,
		tx:      tx,
		events:  events,
		logger:  logger,
	}
}

// SyncOrder reconciles one remote order snapshot against the local records.
// Unmatched items are skipped. Existing records are refreshed through the
// state-transition guard so a manually finished record is never resurrected.
// The whole pass runs inside one transaction; a failure mid-order leaves no
// partial records behind. Events fire only after the unit committed.
func (s *UpsertService) SyncOrder(ctx context.Context, tenantID uuid.UUID, remote *marketplace.RemoteOrder) (*SyncOrderResult, error) {
	mapped := order.MapRemoteStatus(remote.Status)
	snapshot := order.RemoteSnapshot(remote.Raw)
	result := &SyncOrderResult{
		RemoteOrderID: remote.ID,
		Status:        mapped,
	}
	var events []shared.DomainEvent

	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		before, err := s.records.FindByRemoteOrder(txCtx, tenantID, remote.ID)
		if err != nil {
			return err
		}
		wasCancelled := len(before) > 0 && allInStatus(before, order.StatusCancelled)
		wasCompleted := len(before) > 0 && allInStatus(before, order.StatusCompleted)

		for _, item := range remote.Items {
			product, err := s.matcher.Match(txCtx, tenantID, item)
			if err != nil {
				return err
			}
			if product == nil {
				result.Skipped++
				continue
			}

			amount := item.Price.Mul(decimal.NewFromInt(int64(item.Count)))
			created, err := s.upsertRecord(txCtx, tenantID, remote, item, product.GetID(), amount, snapshot)
			if err != nil {
				return err
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
			if product.IsDigital() {
				result.DigitalProductIDs = append(result.DigitalProductIDs, product.GetID())
			}
		}

		group, err := s.records.FindByRemoteOrder(txCtx, tenantID, remote.ID)
		if err != nil {
			return err
		}

		if mapped == order.StatusCompleted {
			eligible, promoted, err := s.autoComplete(txCtx, group)
			if err != nil {
				return err
			}
			result.AutoCompleted = promoted
			if eligible && !wasCompleted {
				events = append(events, order.NewFinalizedEvent(tenantID, group[0].GetID(), remote.ID, snapshot.BuyerID()))
			}
		}

		if mapped == order.StatusCancelled && !wasCancelled && len(group) > 0 {
			events = append(events, order.NewCancelledEvent(tenantID, group[0].GetID(), remote.ID, snapshot.BuyerID()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, event := range events {
		s.publish(ctx, event)
	}
	return result, nil
}

// upsertRecord creates or refreshes the record for one matched item. A
// duplicate-key conflict from a racing sync pass falls through to the update
// path instead of surfacing.
func (s *UpsertService) upsertRecord(ctx context.Context, tenantID uuid.UUID, remote *marketplace.RemoteOrder, item marketplace.RemoteOrderItem, productID uuid.UUID, amount decimal.Decimal, snapshot order.RemoteSnapshot) (created bool, err error) {
	existing, err := s.records.FindByRemoteOrderAndProduct(ctx, tenantID, remote.ID, productID)
	if err != nil && !errors.Is(err, order.ErrRecordNotFound) {
		return false, err
	}

	if existing == nil {
		record, err := order.NewRecord(tenantID, remote.ID, productID, item.Count, amount, remote.Status, snapshot)
		if err != nil {
			return false, err
		}
		err = s.records.Create(ctx, record)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return false, err
		}
		// Lost the insert race; treat as an update of the winner's row.
		existing, err = s.records.FindByRemoteOrderAndProduct(ctx, tenantID, remote.ID, productID)
		if err != nil {
			return false, err
		}
	}

	existing.Refresh(item.Count, amount, remote.Status, snapshot)
	if err := s.records.Update(ctx, existing); err != nil {
		return false, err
	}
	return false, nil
}

// autoComplete promotes the whole group to COMPLETED once the platform
// reports delivery and every sibling's code went out. Groups containing a
// finished record are left alone. eligible reports whether the group passed
// the gates, promoted whether any sibling actually changed.
func (s *UpsertService) autoComplete(ctx context.Context, group []order.Record) (eligible, promoted bool, err error) {
	if len(group) == 0 {
		return false, false, nil
	}
	for i := range group {
		if group[i].IsFinished() || !group[i].Sent {
			return false, false, nil
		}
	}

	for i := range group {
		if group[i].Status == order.StatusCompleted {
			continue
		}
		group[i].Complete()
		if err := s.records.Update(ctx, &group[i]); err != nil {
			return true, promoted, err
		}
		promoted = true
	}
	return true, promoted, nil
}

// publish emits a domain event; collaborator failures must never fail the
// reconciliation unit, so errors are only logged.
func (s *UpsertService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Error(err),
		)
	}
}

func allInStatus(records []order.Record, status order.Status) bool {
	for i := range records {
		if records[i].Status != status {
			return false
		}
	}
	return true
}
