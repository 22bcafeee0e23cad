package kernel

import (
	"errors"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when validating a zero-value
// Address that did not go through NewAddress.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress constructor")

// Address is a structured postal address with optional geocoordinates.
// Orders carry two of them: the restaurant pickup address and the customer
// delivery address. The coordinates are optional because geocoding is an
// external collaborator and may not have resolved the street yet.
type Address struct { //nolint:recvcheck //using for validation
	street string
	geo    *GeoPoint
	guard  guard.ConstructorGuard
}

// NewAddress creates an Address from a street line and optional coordinates.
// The street must be non-empty; geo may be nil when not yet geocoded.
func NewAddress(street string, geo *GeoPoint) (Address, error) {
	a := Address{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(a.setStreet(street), a.setGeo(geo)); err != nil {
		return Address{}, err
	}

	return a, nil
}

// Validate reports whether the address was produced by NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Street returns the street line.
func (a Address) Street() string {
	return a.street
}

// Geo returns the geocoordinates, or nil when the address has not been
// geocoded.
func (a Address) Geo() *GeoPoint {
	return a.geo
}

func (a *Address) setStreet(street string) error {
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	a.street = street
	return nil
}

func (a *Address) setGeo(geo *GeoPoint) error {
	if geo != nil {
		if err := geo.Validate(); err != nil {
			return err
		}
	}
	a.geo = geo
	return nil
}
