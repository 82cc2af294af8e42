package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrGetRoutePlanSummaryQueryIsNotConstructed is returned when the query
// bypassed its constructor.
var ErrGetRoutePlanSummaryQueryIsNotConstructed = errors.New(
	"GetRoutePlanSummaryQuery must be created via NewGetRoutePlanSummaryQuery constructor",
)

// GetRoutePlanSummaryQuery retrieves the planned routes for one team on
// one day, with per-route stop counts, cost and surcharge flags. This is
// the dispatcher's view of what the planner produced.
//
// Example:
//
//	query, err := NewGetRoutePlanSummaryQuery(planDate, "north")
//	if err != nil {
//	    return err
//	}
//	handler := NewGetRoutePlanSummaryQueryHandler(db)
//
//	summary, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get route plan summary: %w", err)
//	}
type GetRoutePlanSummaryQuery struct {
	date time.Time
	team string

	guard guard.ConstructorGuard
}

// NewGetRoutePlanSummaryQuery creates a query for a team's route plan on
// a given day. The date is truncated to midnight to match how routes are
// stored.
func NewGetRoutePlanSummaryQuery(date time.Time, team string) (GetRoutePlanSummaryQuery, error) {
	if date.IsZero() {
		return GetRoutePlanSummaryQuery{}, errs.NewValueIsRequiredError("date")
	}
	if team == "" {
		return GetRoutePlanSummaryQuery{}, errs.NewValueIsRequiredError("team")
	}

	return GetRoutePlanSummaryQuery{
		date:  date.Truncate(24 * time.Hour),
		team:  team,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Date returns the plan date, truncated to midnight.
func (q GetRoutePlanSummaryQuery) Date() time.Time {
	return q.date
}

// Team returns the delivery team the plan belongs to.
func (q GetRoutePlanSummaryQuery) Team() string {
	return q.team
}

// Validate ensures the query was created through the constructor.
func (q GetRoutePlanSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetRoutePlanSummaryQueryIsNotConstructed)
}

// GetRoutePlanSummaryQueryResponse represents one planned route.
type GetRoutePlanSummaryQueryResponse struct {
	ID                kernel.UUID
	DriverID          kernel.UUID
	Status            string
	AdHoc             bool
	StopCount         int
	DistanceMeters    int
	DurationMinutes   int
	CostCents         int
	OptimizationScore float64
	Overtime          bool
	Weekend           bool
}
