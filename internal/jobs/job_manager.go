package jobs

import "fmt"

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	reservationRetryJob     *ReservationRetryJob
	notificationDispatchJob *NotificationDispatchJob
	routePlanningJob        *RoutePlanningJob
}

// NewJobManager creates a job manager over the given jobs.
func NewJobManager(
	reservationRetryJob *ReservationRetryJob,
	notificationDispatchJob *NotificationDispatchJob,
	routePlanningJob *RoutePlanningJob,
) *JobManager {
	return &JobManager{
		reservationRetryJob:     reservationRetryJob,
		notificationDispatchJob: notificationDispatchJob,
		routePlanningJob:        routePlanningJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.reservationRetryJob.Start(); err != nil {
		return fmt.Errorf("failed to start reservation retry job: %w", err)
	}

	if err := jm.notificationDispatchJob.Start(); err != nil {
		jm.reservationRetryJob.Stop()
		return fmt.Errorf("failed to start notification dispatch job: %w", err)
	}

	if err := jm.routePlanningJob.Start(); err != nil {
		jm.notificationDispatchJob.Stop()
		jm.reservationRetryJob.Stop()
		return fmt.Errorf("failed to start route planning job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.routePlanningJob.Stop()
	jm.notificationDispatchJob.Stop()
	jm.reservationRetryJob.Stop()
}
