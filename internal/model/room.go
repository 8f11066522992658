package model

import "time"

// RoomStatus is the physical state of a room.  A room passes through
// CLEANING after every stay before it may become AVAILABLE again.
type RoomStatus string

const (
	RoomAvailable    RoomStatus = "AVAILABLE"
	RoomOccupied     RoomStatus = "OCCUPIED"
	RoomCleaning     RoomStatus = "CLEANING"
	RoomMaintenance  RoomStatus = "MAINTENANCE"
	RoomOutOfService RoomStatus = "OUT_OF_SERVICE"
)

// IsValid reports whether the status belongs to the closed set.
func (s RoomStatus) IsValid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomCleaning, RoomMaintenance, RoomOutOfService:
		return true
	}
	return false
}

// Room is a physical room in a hotel.  Room numbers are unique per hotel.
// OCCUPIED is only ever set by the allocation ledger; staff drive the
// remaining transitions through the room service.
type Room struct {
	ID         uint64     // rooms.id
	HotelID    uint64     // rooms.hotel_id
	CategoryID uint64     // rooms.category_id
	RoomNumber string     // rooms.room_number (unique per hotel)
	Status     RoomStatus // rooms.status
	CreatedAt  time.Time  // rooms.created_at
	UpdatedAt  time.Time  // rooms.updated_at
}
