package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when submitting a job to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull is returned when the job queue is full
	ErrJobQueueFull = errors.New("job queue is full")

	// ErrInvalidConfig is returned when the scheduler configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrInvalidCronSchedule is returned when the cron expression cannot be parsed
	ErrInvalidCronSchedule = errors.New("invalid cron schedule")
)
