// Package jobs provides scheduled background tasks for the circulation
// service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for order fulfillment.
//
// # Available Jobs
//
// 1. OrderFulfillmentJob - Runs every 30 seconds to fulfill confirmed
// reading-room orders whose member items have all been staged
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(fulfillReadyOrdersHandler, systemUserID, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The fulfillment sweep treats "nothing to fulfill" as a normal outcome:
// the underlying handler simply skips orders that are not ready, so every
// error the job logs indicates a real system issue.
package jobs
