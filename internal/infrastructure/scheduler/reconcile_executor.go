package scheduler

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/application/ordersync"
	"github.com/storefront/backend/internal/domain/marketplace"
)

// TenantReconciler runs one reconciliation pass for a tenant
type TenantReconciler interface {
	ReconcileTenant(ctx context.Context, tenantID uuid.UUID) (*ordersync.ReconcileResult, error)
}

// ReconcileExecutorImpl bridges the worker pool to the reconciliation service
type ReconcileExecutorImpl struct {
	reconciler TenantReconciler
	logger     *zap.Logger

	// Optional hook invoked after every completed pass
	onPassCompleted func(ctx context.Context, job *ReconcileJob)
}

// NewReconcileExecutor creates a new reconcile executor
func NewReconcileExecutor(reconciler TenantReconciler, logger *zap.Logger) *ReconcileExecutorImpl {
	return &ReconcileExecutorImpl{
		reconciler: reconciler,
		logger:     logger,
	}
}

// SetOnPassCompleted sets the hook invoked after every completed pass
func (e *ReconcileExecutorImpl) SetOnPassCompleted(hook func(ctx context.Context, job *ReconcileJob)) {
	e.onPassCompleted = hook
}

// Execute runs the pass and copies its counters onto the job. A tenant with
// no marketplace credentials configured completes as an empty pass rather
// than a failure, so it never burns the retry budget.
func (e *ReconcileExecutorImpl) Execute(ctx context.Context, job *ReconcileJob) error {
	result, err := e.reconciler.ReconcileTenant(ctx, job.TenantID)
	if err != nil {
		if errors.Is(err, marketplace.ErrPlatformNotConfigured) {
			e.logger.Debug("tenant has no marketplace configuration, skipping",
				zap.String("tenant_id", job.TenantID.String()),
			)
			job.Complete(0, 0, 0, 0)
			return nil
		}
		return err
	}

	job.Complete(result.Orders, result.Synced, result.Failed, result.AutoFulfilled)

	if e.onPassCompleted != nil {
		e.onPassCompleted(ctx, job)
	}
	return nil
}

// Ensure ReconcileExecutorImpl implements ReconcileExecutor
var _ ReconcileExecutor = (*ReconcileExecutorImpl)(nil)
