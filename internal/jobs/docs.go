// Package jobs provides scheduled background tasks for the storefront.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Schedules use six fields with seconds first.
//
// # Available Jobs
//
// 1. WebhookRetryJob - Re-queues failed webhook deliveries whose backoff has elapsed
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(dispatcher, cfg.WebhookRetrySchedule, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Delivery failures are recorded by the dispatcher, not by the job. An
// invalid schedule fails StartAll.
package jobs
