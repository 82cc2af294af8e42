package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/route"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetRoutePlanSummaryQueryHandler retrieves a team's route plan from the
// database with raw SQL, bypassing the aggregates.
//
// Example:
//
//	handler := NewGetRoutePlanSummaryQueryHandler(db)
//	query, err := NewGetRoutePlanSummaryQuery(planDate, "north")
//	if err != nil {
//	    return err
//	}
//
//	summary, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get route plan summary: %v", err)
//	    return err
//	}
type GetRoutePlanSummaryQueryHandler struct {
	db *gorm.DB
}

// NewGetRoutePlanSummaryQueryHandler creates a handler for route plan
// summary queries. Requires a GORM database connection for query execution.
func NewGetRoutePlanSummaryQueryHandler(db *gorm.DB) GetRoutePlanSummaryQueryHandler {
	return GetRoutePlanSummaryQueryHandler{db: db}
}

// Handle executes the query. Cancelled routes are excluded; routes with
// the best optimization score come first.
func (h GetRoutePlanSummaryQueryHandler) Handle(
	ctx context.Context,
	query GetRoutePlanSummaryQuery,
) ([]GetRoutePlanSummaryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	routes := make([]GetRoutePlanSummaryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			r.id,
			r.driver_id,
			r.status,
			r.ad_hoc,
			COUNT(s.delivery_id),
			r.distance_meters,
			r.duration_minutes,
			r.cost_cents,
			r.optimization_score,
			r.overtime,
			r.weekend
		FROM routes r
		LEFT JOIN route_stops s ON s.route_id = r.id
		WHERE r.team = ? AND r.date = ? AND r.status <> ?
		GROUP BY r.id, r.driver_id, r.status, r.ad_hoc, r.distance_meters,
			r.duration_minutes, r.cost_cents, r.optimization_score,
			r.overtime, r.weekend
		ORDER BY r.optimization_score DESC, r.id
	`, query.Team(), query.Date(), int(route.Cancelled)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetRoutePlanSummaryQueryResponse
		var id, driverID uuid.UUID
		var status int

		err = rows.Scan(
			&id,
			&driverID,
			&status,
			&resp.AdHoc,
			&resp.StopCount,
			&resp.DistanceMeters,
			&resp.DurationMinutes,
			&resp.CostCents,
			&resp.OptimizationScore,
			&resp.Overtime,
			&resp.Weekend,
		)
		if err != nil {
			return nil, err
		}

		routeID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = routeID

		drvID, drvErr := kernel.UUIDFromBytes(driverID[:])
		if drvErr != nil {
			return nil, drvErr
		}
		resp.DriverID = drvID

		resp.Status = route.Status(status).String()
		routes = append(routes, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return routes, nil
}
