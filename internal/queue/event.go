// Package queue defines the booking lifecycle events exchanged over the
// message broker and the publisher/consumer that move them.
package queue

import "time"

// Exchange is the durable topic exchange all booking events go through.
// Routing keys are dotted so consumers can bind with patterns such as
// "booking.#" or "booking.*.reminder".
const Exchange = "booking.events"

// Routing keys per lifecycle transition.
const (
	KeyBookingCreated   = "booking.created"
	KeyBookingConfirmed = "booking.confirmed"
	KeyBookingCancelled = "booking.cancelled"
	KeyCheckInReminder  = "booking.checkin.reminder"
	KeyCheckOutReminder = "booking.checkout.reminder"
)

// Event type discriminators carried inside the payload.
const (
	EventBookingCreated   = "BOOKING_CREATED"
	EventBookingConfirmed = "BOOKING_CONFIRMED"
	EventBookingCancelled = "BOOKING_CANCELLED"
	EventCheckInReminder  = "CHECK_IN_REMINDER"
	EventCheckOutReminder = "CHECK_OUT_REMINDER"
)

// BookingEvent is published on every lifecycle transition.  It carries
// enough denormalised information for downstream consumers (notification,
// analytics) to act without querying the primary database.  Delivery is
// at-least-once and asynchronous; the booking state change it describes is
// never rolled back because publishing failed.
type BookingEvent struct {
	EventType    string    `json:"event_type"`
	BookingID    uint64    `json:"booking_id"`
	GuestEmail   string    `json:"guest_email"`
	GuestName    string    `json:"guest_name"`
	HotelName    string    `json:"hotel_name"`
	RoomCategory string    `json:"room_category"`
	CheckInDate  string    `json:"check_in_date"`  // YYYY-MM-DD
	CheckOutDate string    `json:"check_out_date"` // YYYY-MM-DD
	EventTime    time.Time `json:"event_time"`
}
