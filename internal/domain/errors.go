package domain

import "errors"

// Sentinel errors shared across components. Repositories surface conditional
// write failures as the specific conflict error of the invariant they guard;
// services translate the ambiguous cases by re-reading current state.
var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when the request is malformed or violates a
	// local rule; the caller must change the request before retrying.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden is returned when the caller is authenticated but lacks the
	// required role or ownership.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict is returned when a conditional write lost a race against an
	// invariant and no more specific conflict applies.
	ErrConflict = errors.New("conflict")
)
