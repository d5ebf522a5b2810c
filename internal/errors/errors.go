package errors

import "errors"

var (
	// ErrValidation covers missing attributes, bad time ranges, empty schedules and
	// layouts that do not match the declared capacity.
	ErrValidation = errors.New("validation failed")
	// ErrNoCoordinates blocks a save when the address could not be geocoded and the
	// space has no previous coordinates.
	ErrNoCoordinates = errors.New("no coordinates resolved for address")
	// ErrNetwork means a request was rejected or the server could not be reached.
	ErrNetwork = errors.New("network failure")

	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)
