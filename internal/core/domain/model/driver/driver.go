// Package driver contains the Driver aggregate: the capacity and
// availability attributes the route planner packs against. Drivers have an
// independent lifecycle and are referenced, never owned, by routes.
package driver

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrDriverIsNotConstructed is returned when a Driver bypassed NewDriver or RestoreDriver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver constructor")
	// ErrNameIsRequired is returned when a driver is created without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrTeamIsRequired is returned when a driver has no team affiliation.
	ErrTeamIsRequired = errs.NewValueIsRequiredError("team")
)

// VehicleType describes the vehicle a driver operates. Special-handling
// deliveries are pinned to special-equipped vehicles.
type VehicleType int

const (
	VehicleUnknown VehicleType = iota
	VehicleVan
	VehicleTruck
	VehicleSpecialEquipped
)

func vehicleTypeStrings() map[VehicleType]string {
	return map[VehicleType]string{
		VehicleUnknown:         "Unknown",
		VehicleVan:             "Van",
		VehicleTruck:           "Truck",
		VehicleSpecialEquipped: "SpecialEquipped",
	}
}

// String returns the human-readable vehicle type name.
func (v VehicleType) String() string {
	if s, ok := vehicleTypeStrings()[v]; ok {
		return s
	}
	return "Unknown"
}

// Validate rejects Unknown and out-of-range values.
func (v VehicleType) Validate() error {
	if v == VehicleUnknown {
		return errs.NewValueIsInvalidError("vehicle type")
	}
	if _, ok := vehicleTypeStrings()[v]; !ok {
		return errs.NewValueIsInvalidError("vehicle type")
	}
	return nil
}

// SupportsSpecialHandling reports whether special-handling deliveries may
// ride this vehicle.
func (v VehicleType) SupportsSpecialHandling() bool {
	return v == VehicleSpecialEquipped
}

// Driver is a delivery driver with hard capacity limits. The route planner
// never books a driver beyond Capacity on any dimension, and a driver is
// booked for at most one route per date.
type Driver struct {
	id           kernel.UUID
	name         string
	team         string
	vehicleType  VehicleType
	capacity     kernel.Load
	shiftMinutes int
	available    bool

	guard guard.ConstructorGuard
}

// NewDriver creates an available driver. Capacity must be positive on every
// dimension; shiftMinutes is the standard shift length that overtime flags
// are computed against.
func NewDriver(
	id kernel.UUID,
	name, team string,
	vehicleType VehicleType,
	capacity kernel.Load,
	shiftMinutes int,
) (*Driver, error) {
	d := &Driver{
		available: true,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setTeam(team),
		d.setVehicleType(vehicleType),
		d.setCapacity(capacity),
		d.setShiftMinutes(shiftMinutes),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDriver reconstructs a driver from persistence.
func RestoreDriver(
	id kernel.UUID,
	name, team string,
	vehicleType VehicleType,
	capacity kernel.Load,
	shiftMinutes int,
	available bool,
) (*Driver, error) {
	d, err := NewDriver(id, name, team, vehicleType, capacity, shiftMinutes)
	if err != nil {
		return nil, err
	}
	d.available = available
	return d, nil
}

// Validate rejects drivers that bypassed the constructors.
func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

// IsEqual compares drivers by identity.
func (d *Driver) IsEqual(other *Driver) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID { return d.id }

// Name returns the driver's name.
func (d *Driver) Name() string { return d.name }

// Team returns the team affiliation route planning filters by.
func (d *Driver) Team() string { return d.team }

// VehicleType returns the operated vehicle type.
func (d *Driver) VehicleType() VehicleType { return d.vehicleType }

// Capacity returns the hard per-route load limit.
func (d *Driver) Capacity() kernel.Load { return d.capacity }

// ShiftMinutes returns the standard shift length in minutes.
func (d *Driver) ShiftMinutes() int { return d.shiftMinutes }

// IsAvailable reports whether the driver can be booked.
func (d *Driver) IsAvailable() bool { return d.available }

// MarkUnavailable takes the driver out of the planning pool.
func (d *Driver) MarkUnavailable() { d.available = false }

// MarkAvailable returns the driver to the planning pool.
func (d *Driver) MarkAvailable() { d.available = true }

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	d.name = name
	return nil
}

func (d *Driver) setTeam(team string) error {
	if team == "" {
		return ErrTeamIsRequired
	}
	d.team = team
	return nil
}

func (d *Driver) setVehicleType(vehicleType VehicleType) error {
	if err := vehicleType.Validate(); err != nil {
		return err
	}
	d.vehicleType = vehicleType
	return nil
}

func (d *Driver) setCapacity(capacity kernel.Load) error {
	if capacity.WeightGrams() <= 0 || capacity.VolumeCubicCm() <= 0 || capacity.Items() <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("capacity",
			fmt.Errorf("all dimensions must be positive, got %d/%d/%d",
				capacity.WeightGrams(), capacity.VolumeCubicCm(), capacity.Items()))
	}
	d.capacity = capacity
	return nil
}

func (d *Driver) setShiftMinutes(shiftMinutes int) error {
	if shiftMinutes <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("shiftMinutes",
			fmt.Errorf("%d is not greater than 0", shiftMinutes))
	}
	d.shiftMinutes = shiftMinutes
	return nil
}
