package http

import "time"

// CreateOrderRequest is the intake payload. The delivery address is
// resolved from the customer directory, so only the customer reference,
// priority and lines travel in the request.
type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id" validate:"required,uuid"`
	Priority   string             `json:"priority" validate:"required,oneof=low normal high urgent"`
	WindowFrom *time.Time         `json:"window_from" validate:"required_with=WindowTo"`
	WindowTo   *time.Time         `json:"window_to" validate:"required_with=WindowFrom"`
	Lines      []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// OrderLineRequest is one requested line item.
type OrderLineRequest struct {
	SKU             string `json:"sku" validate:"required,max=64"`
	Quantity        int    `json:"quantity" validate:"required,gt=0"`
	WeightGrams     int    `json:"weight_grams" validate:"required,gt=0"`
	VolumeCubicCm   int    `json:"volume_cubic_cm" validate:"required,gt=0"`
	SpecialHandling bool   `json:"special_handling"`
}

// ClaimTaskRequest identifies the warehouse worker claiming a task.
type ClaimTaskRequest struct {
	WorkerID string `json:"worker_id" validate:"required,uuid"`
}

// ResolveDefectRequest chooses how a reported defect is handled.
type ResolveDefectRequest struct {
	Resolution string `json:"resolution" validate:"required,oneof=replace remove"`
}

// PlanRoutesRequest scopes one planning run to a team and day.
type PlanRoutesRequest struct {
	Date time.Time `json:"date" validate:"required"`
	Team string    `json:"team" validate:"required,max=64"`
}

// CreateAdHocDeliveryRequest books a direct delivery outside batch
// planning.
type CreateAdHocDeliveryRequest struct {
	OrderID  string    `json:"order_id" validate:"required,uuid"`
	DriverID string    `json:"driver_id" validate:"required,uuid"`
	Date     time.Time `json:"date" validate:"required"`
}

// CompleteDeliveryRequest closes a delivery with proof of handover.
type CompleteDeliveryRequest struct {
	ProofKind      string    `json:"proof_kind" validate:"required,oneof=signature photo"`
	ProofReference string    `json:"proof_reference" validate:"required"`
	DeliveredAt    time.Time `json:"delivered_at" validate:"required"`
}

// FailDeliveryRequest records a failed handover attempt.
type FailDeliveryRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ReturnDeliveryRequest sends an undeliverable order back to the depot.
type ReturnDeliveryRequest struct {
	Reason string `json:"reason" validate:"required"`
}
