package domain

import "errors"

// Sentinel errors classifying failures at the service boundary.
// Infra packages wrap their own errors; the service maps them onto this
// taxonomy and the HTTP layer maps the taxonomy onto status codes.
var (
	// ErrInvalidArgument indicates malformed input. Rejected before any I/O.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnauthorized indicates a missing user identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the referenced content or list entry is absent.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a (user, content) pair is already in the list.
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnavailable indicates a transient dependency failure (store or
	// catalog unreachable). Safe for the caller to retry.
	ErrUnavailable = errors.New("dependency unavailable")
)
