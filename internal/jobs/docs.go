// Package jobs provides the scheduled background work of the fulfillment
// engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to drive the periodic sweeps the pipeline depends on.
//
// # Available Jobs
//
// 1. ReservationRetryJob - Re-attempts stock reservation for orders parked
// on backorder hold.
// 2. NotificationDispatchJob - Drains due notification tasks through the
// channel providers.
// 3. RoutePlanningJob - Kicks off the daily batch planning run per team.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(reservationJob, dispatchJob, planningJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Jobs process entities independently: a failure on one order or task is
// logged and the sweep moves on. Expected business outcomes (shortage,
// exhausted retry budget) are not logged as errors. Failed job starts stop
// any already running jobs.
package jobs
