// Package repository defines error values that are reused across multiple
// repositories.  These sentinel values let higher layers distinguish
// failure scenarios with errors.Is instead of string matching: a missing
// row, a duplicate allocation, exhausted physical inventory, or the
// counter store being unreachable.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist.  Services
// translate it into their own not-found errors before it reaches a handler.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyAllocated is returned when rooms are requested for a booking
// that still has active allocations.  Allocation must be released before
// it can happen again.
var ErrAlreadyAllocated = errors.New("rooms already allocated for booking")

// ErrInsufficientRooms is returned when fewer physical rooms are AVAILABLE
// than the booking needs.  The allocation transaction rolls back without
// touching any room.
var ErrInsufficientRooms = errors.New("not enough available rooms")

// ErrNoActiveAllocations is returned by a release when the booking holds
// no active allocation, including a second release of the same booking.
var ErrNoActiveAllocations = errors.New("no active room allocations for booking")

// ErrCounterUnavailable is returned when the availability counter store
// cannot be reached.  Callers must treat a failed reserve as not reserved.
var ErrCounterUnavailable = errors.New("availability counter store unavailable")
