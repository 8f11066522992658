package model

import "time"

// StayRecord tracks the physical occupancy window of one reservation.
// It is created at check-in and closed at check-out; CheckOutTime stays
// nil while the guest is in the hotel.
type StayRecord struct {
	ID            uint64     // stay_records.id
	ReservationID uint64     // stay_records.reservation_id (one stay per reservation)
	CheckInTime   time.Time  // stay_records.check_in_time
	CheckOutTime  *time.Time // stay_records.check_out_time (NULL while staying)
}
