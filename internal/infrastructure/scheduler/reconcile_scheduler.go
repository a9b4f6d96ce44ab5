package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// Reconcile Job Types
// ---------------------------------------------------------------------------

// ReconcileJobStatus represents the status of a reconciliation job
type ReconcileJobStatus string

const (
	ReconcileJobStatusPending ReconcileJobStatus = "PENDING"
	ReconcileJobStatusRunning ReconcileJobStatus = "RUNNING"
	ReconcileJobStatusSuccess ReconcileJobStatus = "SUCCESS"
	ReconcileJobStatusPartial ReconcileJobStatus = "PARTIAL"
	ReconcileJobStatusFailed  ReconcileJobStatus = "FAILED"
)

// ReconcileJob represents one queued reconciliation pass for a tenant
type ReconcileJob struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Status      ReconcileJobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time

	// Pass results
	Orders        int
	Synced        int
	Failed        int
	AutoFulfilled int
}

// NewReconcileJob creates a pending reconciliation job for a tenant
func NewReconcileJob(tenantID uuid.UUID, maxRetries int) *ReconcileJob {
	return &ReconcileJob{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Status:     ReconcileJobStatusPending,
		MaxRetries: maxRetries,
	}
}

// Start marks the job as running
func (j *ReconcileJob) Start() {
	now := time.Now()
	j.Status = ReconcileJobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete records the pass results and derives the final status
func (j *ReconcileJob) Complete(orders, synced, failed, autoFulfilled int) {
	now := time.Now()
	j.Orders = orders
	j.Synced = synced
	j.Failed = failed
	j.AutoFulfilled = autoFulfilled
	j.CompletedAt = &now

	if failed == 0 {
		j.Status = ReconcileJobStatusSuccess
	} else if synced > 0 {
		j.Status = ReconcileJobStatusPartial
	} else {
		j.Status = ReconcileJobStatusFailed
	}
}

// Fail marks the job as failed
func (j *ReconcileJob) Fail(err string) {
	now := time.Now()
	j.Status = ReconcileJobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job should be retried
func (j *ReconcileJob) ShouldRetry() bool {
	return j.Status == ReconcileJobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry re-queues the job with exponential backoff, capped at
// 30 minutes so a flapping tenant does not fall out of rotation entirely.
func (j *ReconcileJob) ScheduleRetry(baseDelay time.Duration) {
	j.RetryCount++
	j.Status = ReconcileJobStatusPending
	delay := baseDelay * time.Duration(1<<(j.RetryCount-1))
	if delay > 30*time.Minute {
		delay = 30 * time.Minute
	}
	nextRetry := time.Now().Add(delay)
	j.NextRetryAt = &nextRetry
	j.Error = ""
}

// ---------------------------------------------------------------------------
// ReconcileExecutor Interface
// ---------------------------------------------------------------------------

// ReconcileExecutor runs one reconciliation pass and fills in the job results
type ReconcileExecutor interface {
	Execute(ctx context.Context, job *ReconcileJob) error
}

// ---------------------------------------------------------------------------
// ReconcileSchedulerConfig
// ---------------------------------------------------------------------------

// ReconcileSchedulerConfig holds configuration for the reconcile scheduler
type ReconcileSchedulerConfig struct {
	// MaxConcurrentJobs is the number of workers draining the job queue
	MaxConcurrentJobs int
	// JobTimeout is the maximum time one tenant pass can run
	JobTimeout time.Duration
	// RetryAttempts is the number of retries for a failed pass
	RetryAttempts int
	// RetryDelay is the base delay between retries, doubled per attempt
	RetryDelay time.Duration
	// QueueSize is the job queue capacity
	QueueSize int
}

// DefaultReconcileSchedulerConfig returns default configuration
func DefaultReconcileSchedulerConfig() ReconcileSchedulerConfig {
	return ReconcileSchedulerConfig{
		MaxConcurrentJobs: 3,
		JobTimeout:        10 * time.Minute,
		RetryAttempts:     2,
		RetryDelay:        time.Minute,
		QueueSize:         100,
	}
}

// Validate validates the configuration
func (c *ReconcileSchedulerConfig) Validate() error {
	if c.MaxConcurrentJobs <= 0 {
		return ErrInvalidConfig
	}
	if c.JobTimeout <= 0 {
		return ErrInvalidConfig
	}
	if c.RetryAttempts < 0 {
		return ErrInvalidConfig
	}
	if c.QueueSize <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// ---------------------------------------------------------------------------
// ReconcileScheduler
// ---------------------------------------------------------------------------

// ReconcileScheduler drains queued reconciliation jobs through a bounded
// worker pool. One slow tenant occupies one worker; the rest of the fleet
// keeps moving.
type ReconcileScheduler struct {
	config   ReconcileSchedulerConfig
	executor ReconcileExecutor
	logger   *zap.Logger

	jobs      chan *ReconcileJob
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	// Completed jobs kept in memory for the sync status endpoint
	historyMu  sync.RWMutex
	history    []*ReconcileJob
	maxHistory int
}

// NewReconcileScheduler creates a new reconcile scheduler
func NewReconcileScheduler(config ReconcileSchedulerConfig, executor ReconcileExecutor, logger *zap.Logger) (*ReconcileScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &ReconcileScheduler{
		config:     config,
		executor:   executor,
		logger:     logger,
		jobs:       make(chan *ReconcileJob, config.QueueSize),
		history:    make([]*ReconcileJob, 0, 100),
		maxHistory: 100,
	}, nil
}

// Start starts the worker pool
func (s *ReconcileScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("reconcile scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)

	return nil
}

// Stop gracefully stops the scheduler, waiting for in-flight passes
func (s *ReconcileScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	close(s.jobs)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("reconcile scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("reconcile scheduler stop timed out")
		return ctx.Err()
	}
}

// Submit queues a reconciliation pass for a tenant
func (s *ReconcileScheduler) Submit(job *ReconcileJob) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	select {
	case s.jobs <- job:
		s.logger.Debug("reconcile job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("tenant_id", job.TenantID.String()),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

// ScheduleTenant queues a pass for one tenant with the configured retry budget
func (s *ReconcileScheduler) ScheduleTenant(tenantID uuid.UUID) error {
	return s.Submit(NewReconcileJob(tenantID, s.config.RetryAttempts))
}

func (s *ReconcileScheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-s.jobs:
			if !ok {
				return
			}
			s.processJob(ctx, job, workerID)
		}
	}
}

func (s *ReconcileScheduler) processJob(ctx context.Context, job *ReconcileJob, workerID int) {
	// A retried job may surface before its backoff elapsed; push it back.
	if job.NextRetryAt != nil && time.Now().Before(*job.NextRetryAt) {
		select {
		case s.jobs <- job:
		default:
			s.logger.Warn("failed to re-queue reconcile job",
				zap.String("job_id", job.ID.String()),
			)
		}
		return
	}

	job.Start()
	s.logger.Info("processing reconcile job",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("tenant_id", job.TenantID.String()),
	)

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	if err := s.executor.Execute(jobCtx, job); err != nil {
		job.Fail(err.Error())
		s.logger.Error("reconcile job failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("tenant_id", job.TenantID.String()),
			zap.Error(err),
		)

		if job.ShouldRetry() {
			job.ScheduleRetry(s.config.RetryDelay)
			s.logger.Info("reconcile job scheduled for retry",
				zap.String("job_id", job.ID.String()),
				zap.Int("retry_count", job.RetryCount),
				zap.Time("next_retry_at", *job.NextRetryAt),
			)
			select {
			case s.jobs <- job:
			default:
				s.logger.Warn("failed to re-queue reconcile job",
					zap.String("job_id", job.ID.String()),
				)
			}
		}

		s.addToHistory(job)
		return
	}

	s.logger.Info("reconcile job completed",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("tenant_id", job.TenantID.String()),
		zap.String("status", string(job.Status)),
		zap.Int("orders", job.Orders),
		zap.Int("synced", job.Synced),
		zap.Int("failed", job.Failed),
		zap.Int("auto_fulfilled", job.AutoFulfilled),
	)

	s.addToHistory(job)
}

func (s *ReconcileScheduler) addToHistory(job *ReconcileJob) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	s.history = append([]*ReconcileJob{job}, s.history...)
	if len(s.history) > s.maxHistory {
		s.history = s.history[:s.maxHistory]
	}
}

// History returns the most recent completed jobs, newest first
func (s *ReconcileScheduler) History(limit int) []*ReconcileJob {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	if limit <= 0 || limit > len(s.history) {
		limit = len(s.history)
	}

	result := make([]*ReconcileJob, limit)
	copy(result, s.history[:limit])
	return result
}

// HistoryByTenant returns recent completed jobs for one tenant, newest first
func (s *ReconcileScheduler) HistoryByTenant(tenantID uuid.UUID, limit int) []*ReconcileJob {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	result := make([]*ReconcileJob, 0, limit)
	for _, job := range s.history {
		if job.TenantID == tenantID {
			result = append(result, job)
			if len(result) >= limit {
				break
			}
		}
	}
	return result
}
