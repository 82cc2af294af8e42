package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// RoutePlanningJob kicks off the daily batch planning run. Every morning
// it plans today's routes for each configured team; deliveries nothing
// could carry stay pooled and are reported unassigned.
type RoutePlanningJob struct {
	handler commands.PlanRoutesCommandHandler
	teams   []string
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewRoutePlanningJob creates the daily planning job for the given teams.
func NewRoutePlanningJob(
	handler commands.PlanRoutesCommandHandler,
	teams []string,
	logger *slog.Logger,
) *RoutePlanningJob {
	return &RoutePlanningJob{
		handler: handler,
		teams:   teams,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "route_planning_job"),
	}
}

// Start schedules the planning run for five o'clock every morning.
func (j *RoutePlanningJob) Start() error {
	_, err := j.cron.AddFunc("0 0 5 * * *", func() {
		j.planAll(context.Background(), time.Now())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Route planning job started (running daily at 05:00)")
	return nil
}

// Stop stops the planning job.
func (j *RoutePlanningJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Route planning job stopped")
}

func (j *RoutePlanningJob) planAll(ctx context.Context, date time.Time) {
	for _, team := range j.teams {
		cmd, cmdErr := commands.NewPlanRoutesCommand(date, team)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Failed to build planning command",
				"team", team, "error", cmdErr)
			continue
		}

		result, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Route planning failed", "team", team, "error", handleErr)
			continue
		}

		j.logger.InfoContext(ctx, "Route planning finished",
			"team", team,
			"routes", len(result.RouteIDs),
			"unassigned", len(result.Unassigned),
		)
	}
}
