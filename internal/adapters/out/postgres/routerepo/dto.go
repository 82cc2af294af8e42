// Package routerepo provides data transfer objects and mapping functions
// for route persistence. Stops are stored in their own table with an
// explicit position column; the position order is the driving order the
// planner produced.
package routerepo

import (
	"time"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/route"

	"github.com/google/uuid"
)

// RouteDTO represents the database structure for persisting routes. The
// driver's capacity and vehicle type are snapshotted columns, matching
// the aggregate's snapshot semantics.
type RouteDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	DriverID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Team        string    `gorm:"type:varchar(64);not null;index"`
	Date        time.Time `gorm:"not null;index"`
	VehicleType int       `gorm:"type:int;not null"`
	AdHoc       bool      `gorm:"not null"`
	Status      int       `gorm:"type:int;not null;index"`

	CapacityWeightGrams   int `gorm:"type:int;not null"`
	CapacityVolumeCubicCm int `gorm:"type:int;not null"`
	CapacityItems         int `gorm:"type:int;not null"`

	DistanceMeters    int     `gorm:"type:int;not null"`
	DurationMinutes   int     `gorm:"type:int;not null"`
	CostCents         int     `gorm:"type:int;not null"`
	OptimizationScore float64 `gorm:"type:double precision;not null"`
	Overtime          bool    `gorm:"not null"`
	Weekend           bool    `gorm:"not null"`

	Stops []StopDTO `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for route entities.
func (RouteDTO) TableName() string {
	return "routes"
}

// StopDTO represents one delivery on a route. The position column holds
// the driving order.
type StopDTO struct {
	RouteID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryID uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null"`
	Position   int       `gorm:"type:int;not null"`

	WeightGrams   int `gorm:"type:int;not null"`
	VolumeCubicCm int `gorm:"type:int;not null"`
	Items         int `gorm:"type:int;not null"`

	Street     string  `gorm:"type:varchar(255)"`
	City       string  `gorm:"type:varchar(128)"`
	PostalCode string  `gorm:"type:varchar(32)"`
	Latitude   float64 `gorm:"type:double precision"`
	Longitude  float64 `gorm:"type:double precision"`

	SpecialHandling bool `gorm:"not null"`
}

// TableName specifies the database table name for route stops.
func (StopDTO) TableName() string {
	return "route_stops"
}

// fromDomain converts a route aggregate to its database representation.
func fromDomain(r *route.Route) RouteDTO {
	routeID := r.ID().Bytes()

	stops := make([]StopDTO, 0, len(r.Stops()))
	for i, stop := range r.Stops() {
		stops = append(stops, StopDTO{
			RouteID:         routeID,
			DeliveryID:      stop.DeliveryID.Bytes(),
			OrderID:         stop.OrderID.Bytes(),
			Position:        i,
			WeightGrams:     stop.Load.WeightGrams(),
			VolumeCubicCm:   stop.Load.VolumeCubicCm(),
			Items:           stop.Load.Items(),
			Street:          stop.Address.Street(),
			City:            stop.Address.City(),
			PostalCode:      stop.Address.PostalCode(),
			Latitude:        stop.Address.Latitude(),
			Longitude:       stop.Address.Longitude(),
			SpecialHandling: stop.SpecialHandling,
		})
	}

	return RouteDTO{
		ID:                    routeID,
		DriverID:              r.DriverID().Bytes(),
		Team:                  r.Team(),
		Date:                  r.Date(),
		VehicleType:           int(r.VehicleType()),
		AdHoc:                 r.IsAdHoc(),
		Status:                int(r.Status()),
		CapacityWeightGrams:   r.Capacity().WeightGrams(),
		CapacityVolumeCubicCm: r.Capacity().VolumeCubicCm(),
		CapacityItems:         r.Capacity().Items(),
		DistanceMeters:        r.DistanceMeters(),
		DurationMinutes:       r.DurationMinutes(),
		CostCents:             r.CostCents(),
		OptimizationScore:     r.OptimizationScore(),
		Overtime:              r.HasOvertimeSurcharge(),
		Weekend:               r.HasWeekendSurcharge(),
		Stops:                 stops,
	}
}

// toDomain converts a database DTO to a route aggregate. Stops must
// already be sorted by position.
func toDomain(dto RouteDTO) (*route.Route, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}

	capacity, err := kernel.NewLoad(dto.CapacityWeightGrams, dto.CapacityVolumeCubicCm, dto.CapacityItems)
	if err != nil {
		return nil, err
	}

	stops := make([]route.Stop, 0, len(dto.Stops))
	for _, stopDto := range dto.Stops {
		stop, stopErr := stopToDomain(stopDto)
		if stopErr != nil {
			return nil, stopErr
		}
		stops = append(stops, stop)
	}

	return route.RestoreRoute(
		id, driverID,
		dto.Team,
		dto.Date,
		driver.VehicleType(dto.VehicleType),
		capacity,
		dto.AdHoc,
		stops,
		route.Status(dto.Status),
		dto.DistanceMeters,
		dto.DurationMinutes,
		dto.CostCents,
		dto.OptimizationScore,
		dto.Overtime,
		dto.Weekend,
	)
}

// stopToDomain converts a stop DTO to the aggregate's stop value.
func stopToDomain(dto StopDTO) (route.Stop, error) {
	deliveryID, err := kernel.UUIDFromBytes(dto.DeliveryID[:])
	if err != nil {
		return route.Stop{}, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return route.Stop{}, err
	}

	load, err := kernel.NewLoad(dto.WeightGrams, dto.VolumeCubicCm, dto.Items)
	if err != nil {
		return route.Stop{}, err
	}

	address, err := kernel.NewAddress(dto.Street, dto.City, dto.PostalCode, dto.Latitude, dto.Longitude)
	if err != nil {
		return route.Stop{}, err
	}

	return route.Stop{
		DeliveryID:      deliveryID,
		OrderID:         orderID,
		Load:            load,
		Address:         address,
		SpecialHandling: dto.SpecialHandling,
	}, nil
}
