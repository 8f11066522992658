package model

// RoomCategory is the read-only snapshot of a category served by the
// external hotel catalog: total sellable rooms, guest capacity per room
// and the base nightly price.  The booking core never mutates it.
type RoomCategory struct {
	ID              uint64 `json:"id"`
	HotelID         uint64 `json:"hotel_id"`
	Name            string `json:"name"`
	TotalRooms      int    `json:"total_rooms"`
	CapacityPerRoom int    `json:"capacity_per_room"`
	BasePriceCents  int64  `json:"base_price_cents"`
}
