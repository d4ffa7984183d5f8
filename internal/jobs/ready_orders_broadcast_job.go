package jobs

import (
	"context"
	"log/slog"

	"marketplace/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// DefaultReadyBroadcastSchedule runs the broadcast every 30 seconds.
const DefaultReadyBroadcastSchedule = "*/30 * * * * *"

// ReadyOrdersCounter is satisfied by queries.CountReadyOrdersQueryHandler.
type ReadyOrdersCounter interface {
	Handle(ctx context.Context, query queries.CountReadyOrdersQuery) (int64, error)
}

// CourierBoardNotifier is the part of ports.Notifier the job needs.
type CourierBoardNotifier interface {
	CourierReadyOrdersChanged(ctx context.Context) error
}

// ReadyOrdersBroadcastJob re-announces the courier board while ready orders
// exist, so a courier that missed a live signal still refreshes.
type ReadyOrdersBroadcastJob struct {
	counter  ReadyOrdersCounter
	notifier CourierBoardNotifier
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewReadyOrdersBroadcastJob takes a six-field cron schedule (with seconds).
// An empty schedule falls back to DefaultReadyBroadcastSchedule.
func NewReadyOrdersBroadcastJob(
	counter ReadyOrdersCounter,
	notifier CourierBoardNotifier,
	schedule string,
	logger *slog.Logger,
) *ReadyOrdersBroadcastJob {
	if schedule == "" {
		schedule = DefaultReadyBroadcastSchedule
	}
	return &ReadyOrdersBroadcastJob{
		counter:  counter,
		notifier: notifier,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "ready_orders_broadcast_job"),
	}
}

// Start registers the schedule and starts the cron runner. An invalid
// schedule fails here.
func (j *ReadyOrdersBroadcastJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Ready orders broadcast job started", "schedule", j.schedule)
	return nil
}

// Run performs one tick. It is exported so the tick can be driven without
// waiting on the scheduler.
func (j *ReadyOrdersBroadcastJob) Run(ctx context.Context) {
	count, err := j.counter.Handle(ctx, queries.NewCountReadyOrdersQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Counting ready orders failed", "error", err)
		return
	}
	if count == 0 {
		return
	}

	if err = j.notifier.CourierReadyOrdersChanged(ctx); err != nil {
		j.logger.WarnContext(ctx, "Courier board broadcast failed", "error", err, "ready", count)
		return
	}
	j.logger.DebugContext(ctx, "Courier board broadcast", "ready", count)
}

// Stop waits for a running tick to finish.
func (j *ReadyOrdersBroadcastJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Ready orders broadcast job stopped")
}
