// Package deliveryrepo provides data transfer objects and mapping
// functions for delivery persistence. A delivery snapshots its order's
// destination, window and load; all three are materialized as columns so
// execution and planning queries never join back to the order.
package deliveryrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO represents the database structure for persisting delivery
// attempts.
type DeliveryDTO struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	RouteID  *uuid.UUID `gorm:"type:uuid;index"`
	DriverID *uuid.UUID `gorm:"type:uuid"`

	Street     string  `gorm:"type:varchar(255)"`
	City       string  `gorm:"type:varchar(128)"`
	PostalCode string  `gorm:"type:varchar(32)"`
	Latitude   float64 `gorm:"type:double precision"`
	Longitude  float64 `gorm:"type:double precision"`

	WindowFrom *time.Time
	WindowTo   *time.Time

	WeightGrams   int `gorm:"type:int;not null"`
	VolumeCubicCm int `gorm:"type:int;not null"`
	Items         int `gorm:"type:int;not null"`

	SpecialHandling bool `gorm:"not null"`
	AdHoc           bool `gorm:"not null"`
	Attempt         int  `gorm:"type:int;not null"`
	Status          int  `gorm:"type:int;not null;index"`

	FailureReason  string `gorm:"type:varchar(255)"`
	ProofKind      int    `gorm:"type:int;not null"`
	ProofReference string `gorm:"type:varchar(255)"`
	DeliveredAt    *time.Time
}

// TableName specifies the database table name for delivery entities.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// fromDomain converts a delivery to its database representation.
func fromDomain(d *delivery.Delivery) DeliveryDTO {
	var routeID, driverID *uuid.UUID
	if id := d.RouteID(); id != nil {
		raw := id.Bytes()
		routeID = &raw
	}
	if id := d.DriverID(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	var windowFrom, windowTo *time.Time
	if !d.Window().IsZero() {
		from := d.Window().From()
		to := d.Window().To()
		windowFrom = &from
		windowTo = &to
	}

	address := d.Address()
	return DeliveryDTO{
		ID:              d.ID().Bytes(),
		OrderID:         d.OrderID().Bytes(),
		RouteID:         routeID,
		DriverID:        driverID,
		Street:          address.Street(),
		City:            address.City(),
		PostalCode:      address.PostalCode(),
		Latitude:        address.Latitude(),
		Longitude:       address.Longitude(),
		WindowFrom:      windowFrom,
		WindowTo:        windowTo,
		WeightGrams:     d.Load().WeightGrams(),
		VolumeCubicCm:   d.Load().VolumeCubicCm(),
		Items:           d.Load().Items(),
		SpecialHandling: d.NeedsSpecialHandling(),
		AdHoc:           d.IsAdHoc(),
		Attempt:         d.Attempt(),
		Status:          int(d.Status()),
		FailureReason:   d.FailureReason(),
		ProofKind:       int(d.ProofOfDelivery().Kind()),
		ProofReference:  d.ProofOfDelivery().Reference(),
		DeliveredAt:     d.DeliveredAt(),
	}
}

// toDomain converts a database DTO to a delivery using RestoreDelivery.
func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var routeID, driverID *kernel.UUID
	if dto.RouteID != nil {
		rID, routeErr := kernel.UUIDFromBytes((*dto.RouteID)[:])
		if routeErr != nil {
			return nil, routeErr
		}
		routeID = &rID
	}
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	address, err := kernel.NewAddress(dto.Street, dto.City, dto.PostalCode, dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}

	var window kernel.TimeWindow
	if dto.WindowFrom != nil && dto.WindowTo != nil {
		window, err = kernel.NewTimeWindow(*dto.WindowFrom, *dto.WindowTo)
		if err != nil {
			return nil, err
		}
	}

	load, err := kernel.NewLoad(dto.WeightGrams, dto.VolumeCubicCm, dto.Items)
	if err != nil {
		return nil, err
	}

	var proof delivery.Proof
	if dto.ProofKind != int(delivery.ProofNone) {
		proof, err = delivery.NewProof(delivery.ProofKind(dto.ProofKind), dto.ProofReference)
		if err != nil {
			return nil, err
		}
	}

	return delivery.RestoreDelivery(
		id, orderID,
		routeID, driverID,
		address,
		window,
		load,
		dto.SpecialHandling,
		dto.AdHoc,
		dto.Attempt,
		delivery.Status(dto.Status),
		dto.FailureReason,
		proof,
		dto.DeliveredAt,
	)
}
