package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/hibiken/asynq"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	"github.com/SscSPs/invoice_flow_app/internal/middleware"
)

// DefaultLockTTL bounds how long a crashed sweeper can block the next run.
const DefaultLockTTL = 15 * time.Minute

// RecurringSweeper generates the successors of due recurring invoices.
type RecurringSweeper interface {
	SweepDueRecurring(ctx context.Context, now time.Time) (domain.SweepReport, error)
}

// OverdueMarker moves unpaid invoices past their due date to OVERDUE.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, today time.Time) (domain.SweepReport, error)
}

// SweepJob runs the periodic sweeps under a Redis lock so only one worker sweeps at a time.
type SweepJob struct {
	Recurring RecurringSweeper
	Overdue   OverdueMarker
	Locker    *redislock.Client
	Logger    *slog.Logger
	LockTTL   time.Duration
	clock     func() time.Time
}

// NewSweepJob wires the sweep handlers.
func NewSweepJob(recurring RecurringSweeper, overdue OverdueMarker, locker *redislock.Client, logger *slog.Logger) *SweepJob {
	return &SweepJob{
		Recurring: recurring,
		Overdue:   overdue,
		Locker:    locker,
		Logger:    logger,
		LockTTL:   DefaultLockTTL,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// HandleRecurringSweep processes TaskRecurringSweep tasks.
func (j *SweepJob) HandleRecurringSweep(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Recurring == nil {
		return errors.New("recurring sweep: handler not configured")
	}
	_, err := j.RunRecurringSweep(ctx)
	return err
}

// HandleMarkOverdue processes TaskMarkOverdue tasks.
func (j *SweepJob) HandleMarkOverdue(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Overdue == nil {
		return errors.New("mark overdue: handler not configured")
	}
	_, err := j.RunMarkOverdue(ctx)
	return err
}

// RunRecurringSweep generates due recurring invoices. A nil report means another worker holds the lock.
func (j *SweepJob) RunRecurringSweep(ctx context.Context) (*domain.SweepReport, error) {
	now := j.now()
	return j.locked(ctx, TaskRecurringSweep, func(ctx context.Context) (domain.SweepReport, error) {
		return j.Recurring.SweepDueRecurring(ctx, now)
	})
}

// RunMarkOverdue marks invoices due before today as overdue. A nil report means another worker holds the lock.
func (j *SweepJob) RunMarkOverdue(ctx context.Context) (*domain.SweepReport, error) {
	now := j.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return j.locked(ctx, TaskMarkOverdue, func(ctx context.Context) (domain.SweepReport, error) {
		return j.Overdue.MarkOverdue(ctx, today)
	})
}

func (j *SweepJob) locked(ctx context.Context, name string, run func(context.Context) (domain.SweepReport, error)) (*domain.SweepReport, error) {
	logger := j.logger().With(slog.String("job", name))
	ctx = middleware.WithLogger(ctx, logger)

	if j.Locker != nil {
		lock, err := j.Locker.Obtain(ctx, "lock:"+name, j.lockTTL(), nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			logger.Info("Sweep already running elsewhere, skipping")
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("obtain %s lock: %w", name, err)
		}
		defer func() {
			if releaseErr := lock.Release(context.WithoutCancel(ctx)); releaseErr != nil && !errors.Is(releaseErr, redislock.ErrLockNotHeld) {
				logger.Warn("Failed to release sweep lock", slog.String("error", releaseErr.Error()))
			}
		}()
	}

	start := time.Now()
	logger.Info("Starting sweep")
	report, err := run(ctx)
	if err != nil {
		logger.Error("Sweep failed", slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Completed sweep",
		slog.Int("processed", report.Processed),
		slog.Int("succeeded", len(report.Succeeded)),
		slog.Int("failed", len(report.Failures)),
		slog.Duration("duration", time.Since(start)))
	return &report, nil
}

func (j *SweepJob) lockTTL() time.Duration {
	if j.LockTTL > 0 {
		return j.LockTTL
	}
	return DefaultLockTTL
}

func (j *SweepJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *SweepJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
