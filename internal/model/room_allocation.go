package model

import "time"

// RoomAllocation binds a booking to one specific physical room for the
// duration of a stay.  A nil ReleasedAt marks the allocation as active;
// a booking has active allocations exactly while it is CHECKED_IN.
// Entities reference each other by identifier only, never by pointer.
type RoomAllocation struct {
	ID          uint64     // room_allocations.id
	BookingID   uint64     // room_allocations.booking_id
	RoomID      uint64     // room_allocations.room_id
	AllocatedAt time.Time  // room_allocations.allocated_at
	ReleasedAt  *time.Time // room_allocations.released_at (NULL = active)
}

// IsActive reports whether the room is still bound to the booking.
func (a *RoomAllocation) IsActive() bool { return a.ReleasedAt == nil }
