package service

import "errors"

// Business-rule violations the booking coordinator reports.  These are
// expected outcomes and propagate verbatim to the handler, which maps
// them to HTTP 409 responses.
var (
	// ErrAlreadyReserved is returned when the acting user's derived
	// state for the concert is already RESERVED.
	ErrAlreadyReserved = errors.New("concert already reserved")

	// ErrReservationNotFound is returned by cancel when the derived
	// state for the (user, concert) pair is not RESERVED.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrConcertFull is returned when the capacity check is enabled and
	// the concert's active reservations have reached its capacity.
	ErrConcertFull = errors.New("concert is full")
)

// ErrInternal replaces unexpected storage failures at the service
// boundary.  The original cause is logged, never returned, so storage
// detail cannot leak to callers.
var ErrInternal = errors.New("unexpected error occurred")

// ValidationError reports malformed input to an administrative
// operation, such as an empty concert name or a capacity below 1.
// Handlers unwrap it with errors.As and answer HTTP 400 with Msg.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
