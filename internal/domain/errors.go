package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a postal code does not exist in the registry
// or when no geocoding search produced a match. The customer can fix it.
var ErrNotFound = errors.New("address not found")

// ErrUnavailable is returned when an upstream registry or geocoding call
// fails, times out, or answers with something that cannot be decoded.
var ErrUnavailable = errors.New("geocoding service unavailable")

// ErrOutOfRange is wrapped by OutOfRangeError.
var ErrOutOfRange = errors.New("outside delivery area")

// ErrNoRateConfigured is wrapped by NoRateError.
var ErrNoRateConfigured = errors.New("no shipping rate configured")

// ErrDuplicateCity is returned when a free-shipping exception already exists
// for the same city and state.
var ErrDuplicateCity = errors.New("free shipping city already exists")

// ErrValidation is returned by services when input fails business rules.
var ErrValidation = errors.New("validation error")

// ErrRecordNotFound is returned by repositories when a row does not exist.
var ErrRecordNotFound = errors.New("record not found")

// OutOfRangeError reports a destination beyond the configured service radius.
type OutOfRangeError struct {
	MaxDistanceKm float64
	DistanceKm    float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf(
		"address is outside the delivery area: maximum %g km, distance %.1f km",
		e.MaxDistanceKm, e.DistanceKm,
	)
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// NoRateError reports a distance that no active tier covers.
type NoRateError struct {
	DistanceKm float64
}

func (e *NoRateError) Error() string {
	return fmt.Sprintf("no shipping rate configured for distance %.2f km", e.DistanceKm)
}

func (e *NoRateError) Unwrap() error { return ErrNoRateConfigured }
