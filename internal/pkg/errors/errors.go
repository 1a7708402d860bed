package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict is a generic sentinel for uniqueness violations that
	// survived the get-or-create retry.
	ErrConflict = errors.New("conflict")
	// ErrExternalService is a generic sentinel for media-store and
	// image-synthesis failures.
	ErrExternalService = errors.New("external service failure")
)
