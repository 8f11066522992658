package model

import "time"

// ReservationStatus tracks a booking through its lifecycle.  Transitions
// between statuses are enforced by the booking service; CHECKED_OUT and
// CANCELLED are terminal.
type ReservationStatus string

const (
	StatusBooked     ReservationStatus = "BOOKED"
	StatusConfirmed  ReservationStatus = "CONFIRMED"
	StatusCheckedIn  ReservationStatus = "CHECKED_IN"
	StatusCheckedOut ReservationStatus = "CHECKED_OUT"
	StatusCancelled  ReservationStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is allowed.
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCheckedOut || s == StatusCancelled
}

// HoldsInventory reports whether reservations in this status count against
// the per-day availability counters.
func (s ReservationStatus) HoldsInventory() bool {
	return s == StatusBooked || s == StatusConfirmed || s == StatusCheckedIn
}

// PaymentStatus tracks whether the booking has been paid for.  Payment
// must be PAID before a check-out is accepted.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

// Reservation is a guest's claim on a number of rooms of one category
// for a date range.  Rows are never deleted; cancelled and checked-out
// reservations are retained for audit.
//
// Fields:
//  ID                  – primary key identifier.
//  BookingReference    – public display token ("BK-" + 10 chars).
//  GuestEmail          – identity of the owning guest (from the gateway).
//  GuestName           – name given at booking time.
//  NumberOfGuests      – total guests across all booked rooms.
//  NumberOfRooms       – rooms of the category claimed per night.
//  HotelID, CategoryID – foreign references into the hotel catalog.
//  CheckInDate         – first occupied night (inclusive).
//  CheckOutDate        – departure morning (excluded from inventory).
//  PricePerNightCents  – price snapshot in cents at booking time.
//  TotalAmountCents    – PricePerNightCents * nights * NumberOfRooms.
//  Status              – lifecycle status.
//  PaymentStatus       – PENDING until the guest pays.
type Reservation struct {
	ID                   uint64            // reservations.id
	BookingReference     string            // reservations.booking_reference
	GuestEmail           string            // reservations.guest_email
	GuestName            string            // reservations.guest_name
	NumberOfGuests       int               // reservations.number_of_guests
	NumberOfRooms        int               // reservations.number_of_rooms
	HotelID              uint64            // reservations.hotel_id
	CategoryID           uint64            // reservations.category_id
	CheckInDate          time.Time         // reservations.check_in_date (date only)
	CheckOutDate         time.Time         // reservations.check_out_date (date only)
	PricePerNightCents   int64             // reservations.price_per_night_cents
	TotalAmountCents     int64             // reservations.total_amount_cents
	Status               ReservationStatus // reservations.status
	PaymentStatus        PaymentStatus     // reservations.payment_status
	CheckInReminderSent  bool              // reservations.check_in_reminder_sent
	CheckOutReminderSent bool              // reservations.check_out_reminder_sent
	CreatedAt            time.Time         // reservations.created_at
	UpdatedAt            time.Time         // reservations.updated_at
}

// Nights returns the number of occupied nights, i.e. the days in the
// half-open interval [CheckInDate, CheckOutDate).
func (r *Reservation) Nights() int {
	return int(r.CheckOutDate.Sub(r.CheckInDate).Hours() / 24)
}

// IsOwnedBy reports whether the reservation belongs to the given guest email.
func (r *Reservation) IsOwnedBy(email string) bool {
	return r.GuestEmail == email
}
