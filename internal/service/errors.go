package service

import "errors"

// Sentinel errors returned by the booking and room services.  Handlers
// translate them to HTTP status codes with errors.Is; repository-level
// sentinels (duplicate allocation, insufficient rooms, counter store down)
// pass through the services unchanged and are mapped the same way.
var (
	// ErrUnauthorized covers both a role that may not perform the
	// operation and a guest touching someone else's reservation.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrBookingNotFound is returned when the reservation does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidDateRange is returned when check-in is not strictly
	// before check-out.
	ErrInvalidDateRange = errors.New("check-in date must be before check-out date")

	// ErrInvalidGuestCount is returned when the party does not fit the
	// requested rooms at the category's per-room capacity.
	ErrInvalidGuestCount = errors.New("too many guests for requested rooms")

	// ErrRoomNotAvailable is returned when at least one night in the
	// range has fewer rooms remaining than requested.
	ErrRoomNotAvailable = errors.New("room not available for requested dates")

	// ErrInvalidReservationState is returned for any transition the
	// lifecycle state machine does not permit from the current status,
	// including payment gating at check-out.
	ErrInvalidReservationState = errors.New("invalid reservation state for operation")

	// ErrAlreadyPaid is returned when a paid booking is paid again.
	ErrAlreadyPaid = errors.New("booking already paid")

	// ErrRoomNotFound is returned when the referenced room does not exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrInvalidRoomTransition is returned when a room status change is
	// not permitted by the rules or by the caller's role.
	ErrInvalidRoomTransition = errors.New("invalid room status transition")
)
