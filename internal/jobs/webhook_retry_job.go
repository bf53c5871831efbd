package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// DefaultWebhookRetrySchedule runs the sweep every 30 seconds.
const DefaultWebhookRetrySchedule = "*/30 * * * * *"

// WebhookRetrier re-queues webhook deliveries whose next attempt is due.
type WebhookRetrier interface {
	RetryDue(ctx context.Context) int
}

// WebhookRetryJob sweeps failed webhook deliveries on a cron schedule
// (six fields, seconds first).
type WebhookRetryJob struct {
	retrier  WebhookRetrier
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewWebhookRetryJob(retrier WebhookRetrier, schedule string, logger *slog.Logger) *WebhookRetryJob {
	if schedule == "" {
		schedule = DefaultWebhookRetrySchedule
	}
	return &WebhookRetryJob{
		retrier:  retrier,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "webhook_retry_job"),
	}
}

// Start registers the sweep and starts the scheduler. An invalid schedule
// is returned as an error.
func (j *WebhookRetryJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Webhook retry job started", "schedule", j.schedule)
	return nil
}

// Run performs one sweep.
func (j *WebhookRetryJob) Run(ctx context.Context) {
	if queued := j.retrier.RetryDue(ctx); queued > 0 {
		j.logger.InfoContext(ctx, "Webhook deliveries re-queued", "count", queued)
	}
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (j *WebhookRetryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Webhook retry job stopped")
}
