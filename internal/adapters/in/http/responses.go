package http

import "time"

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ActiveOrderResponse is one order still moving through the pipeline.
type ActiveOrderResponse struct {
	ID                string `json:"id"`
	CustomerID        string `json:"customer_id"`
	Status            string `json:"status"`
	Priority          string `json:"priority"`
	City              string `json:"city"`
	OnHold            bool   `json:"on_hold"`
	HoldReason        string `json:"hold_reason,omitempty"`
	BackorderAttempts int    `json:"backorder_attempts"`
	ItemCount         int    `json:"item_count"`
}

// PendingDeliveryResponse is one delivery waiting for a route.
type PendingDeliveryResponse struct {
	ID         string     `json:"id"`
	OrderID    string     `json:"order_id"`
	Street     string     `json:"street"`
	City       string     `json:"city"`
	Attempt    int        `json:"attempt"`
	AdHoc      bool       `json:"ad_hoc"`
	WindowFrom *time.Time `json:"window_from,omitempty"`
	WindowTo   *time.Time `json:"window_to,omitempty"`
}

// PlanRoutesResponse reports the outcome of one planning run.
type PlanRoutesResponse struct {
	RouteIDs   []string                     `json:"route_ids"`
	Unassigned []UnassignedDeliveryResponse `json:"unassigned"`
}

// UnassignedDeliveryResponse is one candidate the planner could not place.
type UnassignedDeliveryResponse struct {
	DeliveryID string `json:"delivery_id"`
	OrderID    string `json:"order_id"`
	Reason     string `json:"reason"`
}

// RouteSummaryResponse is one planned route with its aggregates.
type RouteSummaryResponse struct {
	ID                string  `json:"id"`
	DriverID          string  `json:"driver_id"`
	Status            string  `json:"status"`
	AdHoc             bool    `json:"ad_hoc"`
	StopCount         int     `json:"stop_count"`
	DistanceMeters    int     `json:"distance_meters"`
	DurationMinutes   int     `json:"duration_minutes"`
	CostCents         int     `json:"cost_cents"`
	OptimizationScore float64 `json:"optimization_score"`
	Overtime          bool    `json:"overtime"`
	Weekend           bool    `json:"weekend"`
}
