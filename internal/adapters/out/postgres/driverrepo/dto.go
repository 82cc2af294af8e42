// Package driverrepo provides data transfer objects and mapping functions
// for driver persistence. Drivers carry no domain events; the repository
// only materializes the capacity and availability attributes route
// planning reads.
package driverrepo

import (
	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO represents the database structure for persisting drivers.
// Capacity dimensions are flattened into columns for direct querying.
type DriverDTO struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                  string    `gorm:"type:varchar(255);not null"`
	Team                  string    `gorm:"type:varchar(64);not null;index"`
	VehicleType           int       `gorm:"type:int;not null"`
	CapacityWeightGrams   int       `gorm:"type:int;not null"`
	CapacityVolumeCubicCm int       `gorm:"type:int;not null"`
	CapacityItems         int       `gorm:"type:int;not null"`
	ShiftMinutes          int       `gorm:"type:int;not null"`
	Available             bool      `gorm:"not null"`
}

// TableName specifies the database table name for driver entities.
func (DriverDTO) TableName() string {
	return "drivers"
}

// fromDomain converts a driver to its database representation.
func fromDomain(d *driver.Driver) DriverDTO {
	return DriverDTO{
		ID:                    d.ID().Bytes(),
		Name:                  d.Name(),
		Team:                  d.Team(),
		VehicleType:           int(d.VehicleType()),
		CapacityWeightGrams:   d.Capacity().WeightGrams(),
		CapacityVolumeCubicCm: d.Capacity().VolumeCubicCm(),
		CapacityItems:         d.Capacity().Items(),
		ShiftMinutes:          d.ShiftMinutes(),
		Available:             d.IsAvailable(),
	}
}

// toDomain converts a database DTO to a driver using RestoreDriver.
func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	capacity, err := kernel.NewLoad(dto.CapacityWeightGrams, dto.CapacityVolumeCubicCm, dto.CapacityItems)
	if err != nil {
		return nil, err
	}

	return driver.RestoreDriver(
		id,
		dto.Name,
		dto.Team,
		driver.VehicleType(dto.VehicleType),
		capacity,
		dto.ShiftMinutes,
		dto.Available,
	)
}
