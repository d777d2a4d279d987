package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidCoordinate is returned when a latitude or longitude falls
// outside its valid range. Callers are expected to catch this before
// feeding a Location into the scheduler.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Immutable geographic location of a customer or appointment.
// Identity is the coordinate pair; Address and PostalCode are
// display metadata carried along for the booking UI.
type Location struct {
	Lat        float64
	Lng        float64
	Address    string
	PostalCode string
}

// Validate checks that the coordinate pair is on the globe.
func (l Location) Validate() error {
	if l.Lat < -90 || l.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90,90]", ErrInvalidCoordinate, l.Lat)
	}
	if l.Lng < -180 || l.Lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180,180]", ErrInvalidCoordinate, l.Lng)
	}
	return nil
}
