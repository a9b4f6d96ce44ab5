package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/tenant"
)

// TenantProvider enumerates the tenants eligible for scheduled reconciliation
type TenantProvider interface {
	ListTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// SettingsTenantProvider enumerates tenants from their stored settings. A
// tenant without a settings row has never been onboarded and is not synced.
type SettingsTenantProvider struct {
	settings tenant.SettingsRepository
}

// NewSettingsTenantProvider creates a new SettingsTenantProvider
func NewSettingsTenantProvider(settings tenant.SettingsRepository) *SettingsTenantProvider {
	return &SettingsTenantProvider{settings: settings}
}

// ListTenantIDs returns the tenant IDs of every stored settings row
func (p *SettingsTenantProvider) ListTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	all, err := p.settings.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(all))
	for _, s := range all {
		ids = append(ids, s.TenantID)
	}
	return ids, nil
}

// CronTrigger fires a fleet-wide reconciliation pass on a cron schedule,
// queueing one job per tenant on the scheduler's worker pool.
type CronTrigger struct {
	schedule  string
	scheduler *ReconcileScheduler
	tenants   TenantProvider
	logger    *zap.Logger

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(schedule string, scheduler *ReconcileScheduler, tenants TenantProvider, logger *zap.Logger) *CronTrigger {
	return &CronTrigger{
		schedule:  schedule,
		scheduler: scheduler,
		tenants:   tenants,
		logger:    logger,
		cron:      cron.New(),
	}
}

// Start registers the schedule and starts the cron loop
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isRunning {
		return nil
	}

	if _, err := c.cron.AddFunc(c.schedule, func() {
		c.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidCronSchedule, c.schedule, err)
	}

	c.cron.Start()
	c.isRunning = true

	c.logger.Info("reconcile cron trigger started",
		zap.String("schedule", c.schedule),
	)
	return nil
}

// Stop stops the cron loop, waiting for an in-flight trigger to finish
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isRunning {
		return nil
	}
	c.isRunning = false

	select {
	case <-c.cron.Stop().Done():
		c.logger.Info("reconcile cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce queues a reconciliation pass for every known tenant. It is called
// by the cron loop and by the manual sync endpoint. Returns the number of
// jobs queued.
func (c *CronTrigger) RunOnce(ctx context.Context) int {
	tenantIDs, err := c.tenants.ListTenantIDs(ctx)
	if err != nil {
		c.logger.Error("failed to enumerate tenants for reconciliation", zap.Error(err))
		return 0
	}

	queued := 0
	for _, tenantID := range tenantIDs {
		if err := c.scheduler.ScheduleTenant(tenantID); err != nil {
			c.logger.Error("failed to queue reconcile job",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
			continue
		}
		queued++
	}

	c.logger.Info("reconciliation sweep queued",
		zap.Int("tenants", len(tenantIDs)),
		zap.Int("queued", queued),
	)
	return queued
}

// TriggerTenant queues an immediate pass for one tenant
func (c *CronTrigger) TriggerTenant(tenantID uuid.UUID) error {
	return c.scheduler.ScheduleTenant(tenantID)
}
