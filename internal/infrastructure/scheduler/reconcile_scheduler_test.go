package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/application/ordersync"
	"github.com/storefront/backend/internal/domain/marketplace"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

type executorFunc func(ctx context.Context, job *ReconcileJob) error

func (f executorFunc) Execute(ctx context.Context, job *ReconcileJob) error {
	return f(ctx, job)
}

type reconcilerFunc func(ctx context.Context, tenantID uuid.UUID) (*ordersync.ReconcileResult, error)

func (f reconcilerFunc) ReconcileTenant(ctx context.Context, tenantID uuid.UUID) (*ordersync.ReconcileResult, error) {
	return f(ctx, tenantID)
}

// ---------------------------------------------------------------------------
// ReconcileJob Tests
// ---------------------------------------------------------------------------

func TestNewReconcileJob(t *testing.T) {
	tenantID := uuid.New()

	job := NewReconcileJob(tenantID, 2)

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, tenantID, job.TenantID)
	assert.Equal(t, ReconcileJobStatusPending, job.Status)
	assert.Equal(t, 2, job.MaxRetries)
	assert.Nil(t, job.StartedAt)
	assert.Nil(t, job.CompletedAt)
}

func TestReconcileJob_Start(t *testing.T) {
	job := NewReconcileJob(uuid.New(), 2)
	job.Error = "previous error"

	job.Start()

	assert.Equal(t, ReconcileJobStatusRunning, job.Status)
	assert.NotNil(t, job.StartedAt)
	assert.Empty(t, job.Error)
}

func TestReconcileJob_Complete(t *testing.T) {
	tests := []struct {
		name           string
		orders, synced int
		failed         int
		want           ReconcileJobStatus
	}{
		{"all synced", 10, 10, 0, ReconcileJobStatusSuccess},
		{"empty pass", 0, 0, 0, ReconcileJobStatusSuccess},
		{"some failed", 10, 8, 2, ReconcileJobStatusPartial},
		{"all failed", 10, 0, 10, ReconcileJobStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := NewReconcileJob(uuid.New(), 2)
			job.Start()

			job.Complete(tt.orders, tt.synced, tt.failed, 0)

			assert.Equal(t, tt.want, job.Status)
			assert.NotNil(t, job.CompletedAt)
			assert.Equal(t, tt.orders, job.Orders)
			assert.Equal(t, tt.synced, job.Synced)
			assert.Equal(t, tt.failed, job.Failed)
		})
	}
}

func TestReconcileJob_ShouldRetry(t *testing.T) {
	tests := []struct {
		name       string
		status     ReconcileJobStatus
		retryCount int
		maxRetries int
		expected   bool
	}{
		{"failed with retries left", ReconcileJobStatusFailed, 0, 2, true},
		{"failed max retries reached", ReconcileJobStatusFailed, 2, 2, false},
		{"success never retries", ReconcileJobStatusSuccess, 0, 2, false},
		{"partial never retries", ReconcileJobStatusPartial, 0, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := &ReconcileJob{
				Status:     tt.status,
				RetryCount: tt.retryCount,
				MaxRetries: tt.maxRetries,
			}
			assert.Equal(t, tt.expected, job.ShouldRetry())
		})
	}
}

func TestReconcileJob_ScheduleRetry_ExponentialBackoff(t *testing.T) {
	job := NewReconcileJob(uuid.New(), 5)
	job.Status = ReconcileJobStatusFailed
	baseDelay := time.Minute

	job.ScheduleRetry(baseDelay)
	assert.Equal(t, 1, job.RetryCount)
	assert.Equal(t, ReconcileJobStatusPending, job.Status)
	require.NotNil(t, job.NextRetryAt)
	firstDelay := time.Until(*job.NextRetryAt)
	assert.True(t, firstDelay > 50*time.Second && firstDelay <= time.Minute+time.Second)

	job.Status = ReconcileJobStatusFailed
	job.ScheduleRetry(baseDelay)
	assert.Equal(t, 2, job.RetryCount)
	secondDelay := time.Until(*job.NextRetryAt)
	assert.True(t, secondDelay > 110*time.Second && secondDelay <= 2*time.Minute+time.Second)
}

// ---------------------------------------------------------------------------
// ReconcileSchedulerConfig Tests
// ---------------------------------------------------------------------------

func TestReconcileSchedulerConfig_Validate(t *testing.T) {
	valid := DefaultReconcileSchedulerConfig()
	assert.NoError(t, valid.Validate())

	noWorkers := valid
	noWorkers.MaxConcurrentJobs = 0
	assert.ErrorIs(t, noWorkers.Validate(), ErrInvalidConfig)

	noTimeout := valid
	noTimeout.JobTimeout = 0
	assert.ErrorIs(t, noTimeout.Validate(), ErrInvalidConfig)

	negativeRetries := valid
	negativeRetries.RetryAttempts = -1
	assert.ErrorIs(t, negativeRetries.Validate(), ErrInvalidConfig)
}

// ---------------------------------------------------------------------------
// ReconcileScheduler Tests
// ---------------------------------------------------------------------------

func TestReconcileScheduler_SubmitBeforeStart(t *testing.T) {
	sched, err := NewReconcileScheduler(DefaultReconcileSchedulerConfig(), executorFunc(func(ctx context.Context, job *ReconcileJob) error {
		return nil
	}), zap.NewNop())
	require.NoError(t, err)

	err = sched.Submit(NewReconcileJob(uuid.New(), 0))
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestReconcileScheduler_ProcessesJobs(t *testing.T) {
	var executed atomic.Int32
	executor := executorFunc(func(ctx context.Context, job *ReconcileJob) error {
		executed.Add(1)
		job.Complete(3, 3, 0, 1)
		return nil
	})

	sched, err := NewReconcileScheduler(DefaultReconcileSchedulerConfig(), executor, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, sched.Start(context.Background()))
	defer sched.Stop(context.Background())

	for i := 0; i < 5; i++ {
		require.NoError(t, sched.ScheduleTenant(uuid.New()))
	}

	require.Eventually(t, func() bool {
		return executed.Load() == 5
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return len(sched.History(10)) == 5
	}, 2*time.Second, 10*time.Millisecond)
	for _, job := range sched.History(10) {
		assert.Equal(t, ReconcileJobStatusSuccess, job.Status)
		assert.Equal(t, 1, job.AutoFulfilled)
	}
}

func TestReconcileScheduler_FailedJobKeepsErrorInHistory(t *testing.T) {
	executor := executorFunc(func(ctx context.Context, job *ReconcileJob) error {
		return errors.New("marketplace unreachable")
	})

	config := DefaultReconcileSchedulerConfig()
	config.RetryAttempts = 0

	sched, err := NewReconcileScheduler(config, executor, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, sched.Start(context.Background()))
	defer sched.Stop(context.Background())

	tenantID := uuid.New()
	require.NoError(t, sched.ScheduleTenant(tenantID))

	require.Eventually(t, func() bool {
		return len(sched.HistoryByTenant(tenantID, 1)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	job := sched.HistoryByTenant(tenantID, 1)[0]
	assert.Equal(t, ReconcileJobStatusFailed, job.Status)
	assert.Equal(t, "marketplace unreachable", job.Error)
}

func TestReconcileScheduler_StopDrainsWorkers(t *testing.T) {
	sched, err := NewReconcileScheduler(DefaultReconcileSchedulerConfig(), executorFunc(func(ctx context.Context, job *ReconcileJob) error {
		job.Complete(0, 0, 0, 0)
		return nil
	}), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, sched.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, sched.Stop(ctx))

	// Stopping twice is a no-op.
	assert.NoError(t, sched.Stop(ctx))
}

// ---------------------------------------------------------------------------
// ReconcileExecutor Tests
// ---------------------------------------------------------------------------

func TestReconcileExecutor_CopiesResultOntoJob(t *testing.T) {
	tenantID := uuid.New()
	executor := NewReconcileExecutor(reconcilerFunc(func(ctx context.Context, id uuid.UUID) (*ordersync.ReconcileResult, error) {
		assert.Equal(t, tenantID, id)
		return &ordersync.ReconcileResult{TenantID: id, Orders: 4, Synced: 3, Failed: 1, AutoFulfilled: 2}, nil
	}), zap.NewNop())

	var hooked *ReconcileJob
	executor.SetOnPassCompleted(func(ctx context.Context, job *ReconcileJob) {
		hooked = job
	})

	job := NewReconcileJob(tenantID, 0)
	job.Start()
	err := executor.Execute(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, ReconcileJobStatusPartial, job.Status)
	assert.Equal(t, 4, job.Orders)
	assert.Equal(t, 3, job.Synced)
	assert.Equal(t, 1, job.Failed)
	assert.Equal(t, 2, job.AutoFulfilled)
	assert.Same(t, job, hooked)
}

func TestReconcileExecutor_UnconfiguredTenantCompletesEmpty(t *testing.T) {
	executor := NewReconcileExecutor(reconcilerFunc(func(ctx context.Context, id uuid.UUID) (*ordersync.ReconcileResult, error) {
		return nil, marketplace.ErrPlatformNotConfigured
	}), zap.NewNop())

	job := NewReconcileJob(uuid.New(), 2)
	job.Start()
	err := executor.Execute(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, ReconcileJobStatusSuccess, job.Status)
	assert.Equal(t, 0, job.Orders)
	assert.False(t, job.ShouldRetry())
}

func TestReconcileExecutor_PropagatesFailure(t *testing.T) {
	wantErr := errors.New("listing failed")
	executor := NewReconcileExecutor(reconcilerFunc(func(ctx context.Context, id uuid.UUID) (*ordersync.ReconcileResult, error) {
		return nil, wantErr
	}), zap.NewNop())

	job := NewReconcileJob(uuid.New(), 2)
	job.Start()
	err := executor.Execute(context.Background(), job)

	assert.ErrorIs(t, err, wantErr)
}
