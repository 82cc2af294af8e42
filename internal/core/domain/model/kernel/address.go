package kernel

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

// ErrAddressIsNotConstructed is returned when an Address bypassed NewAddress.
var ErrAddressIsNotConstructed = errors.New("Address must be created via NewAddress constructor")

// Address is a structured, geocoded delivery destination. It replaces the
// free-form address blobs of the intake payload: the route planner needs
// coordinates for stop ordering, and notifications need the printable
// street form, so both are validated here at the boundary.
type Address struct {
	street     string
	city       string
	postalCode string
	latitude   float64
	longitude  float64

	guard guard.ConstructorGuard
}

// NewAddress creates a validated Address. Street and city are required;
// coordinates must lie in their geographic ranges.
func NewAddress(street, city, postalCode string, latitude, longitude float64) (Address, error) {
	if street == "" {
		return Address{}, errs.NewValueIsRequiredError("street")
	}
	if city == "" {
		return Address{}, errs.NewValueIsRequiredError("city")
	}
	if latitude < minLatitude || latitude > maxLatitude {
		return Address{}, errs.NewValueIsOutOfRangeError("latitude", latitude, minLatitude, maxLatitude)
	}
	if longitude < minLongitude || longitude > maxLongitude {
		return Address{}, errs.NewValueIsOutOfRangeError("longitude", longitude, minLongitude, maxLongitude)
	}

	return Address{
		street:     street,
		city:       city,
		postalCode: postalCode,
		latitude:   latitude,
		longitude:  longitude,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate rejects zero-value addresses.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Street returns the street line of the address.
func (a Address) Street() string { return a.street }

// City returns the city of the address.
func (a Address) City() string { return a.city }

// PostalCode returns the postal code, which may be empty.
func (a Address) PostalCode() string { return a.postalCode }

// Latitude returns the geocoded latitude.
func (a Address) Latitude() float64 { return a.latitude }

// Longitude returns the geocoded longitude.
func (a Address) Longitude() float64 { return a.longitude }

// String returns a single-line printable form used in notifications and logs.
func (a Address) String() string {
	if a.postalCode == "" {
		return fmt.Sprintf("%s, %s", a.street, a.city)
	}
	return fmt.Sprintf("%s, %s %s", a.street, a.city, a.postalCode)
}

// IsEqual reports whether two addresses denote the same place.
func (a Address) IsEqual(other Address) bool {
	return a.street == other.street &&
		a.city == other.city &&
		a.postalCode == other.postalCode &&
		a.latitude == other.latitude &&
		a.longitude == other.longitude
}
