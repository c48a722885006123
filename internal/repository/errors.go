// Package repository defines sentinel errors shared across the
// repositories. Higher layers compare against these values with
// errors.Is to distinguish expected failure scenarios (a missing
// concert, a duplicate name) from unexpected storage errors, which
// are passed through untouched for the service layer to wrap.
package repository

import "errors"

// ErrConcertNotFound is returned when a concert id does not exist in
// the catalog. Handlers translate this into an HTTP 404 response.
var ErrConcertNotFound = errors.New("concert not found")

// ErrConcertExists is returned when creating a concert whose name is
// already taken. Concert names are unique across the whole catalog;
// handlers translate this into an HTTP 409 response.
var ErrConcertExists = errors.New("concert already exists")

// ErrUsernameExists is returned when registering an account with a
// username that is already taken.
var ErrUsernameExists = errors.New("username already exists")
