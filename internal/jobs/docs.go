// Package jobs provides scheduled background tasks for the marketplace.
//
// Jobs are cron-based (github.com/robfig/cron/v3, six-field specs with
// seconds) and managed through JobManager:
//
//	broadcast := jobs.NewReadyOrdersBroadcastJob(countHandler, notifier, cfg.ReadyBroadcastSchedule, logger)
//	jobManager := jobs.NewJobManager(broadcast)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// ReadyOrdersBroadcastJob re-emits the courier board signal while ready orders
// exist. Live signals are best-effort; this bounds how long a courier can miss
// a ready order.
package jobs
