package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/catalog"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/utils"
)

// AvailabilityLedger is the per-day inventory counter contract the booking
// service depends on.  Implemented by repository.AvailabilityRepo.
type AvailabilityLedger interface {
	IsAvailable(ctx context.Context, hotelID, categoryID uint64, checkIn, checkOut time.Time, numberOfRooms int) (bool, error)
	Reserve(ctx context.Context, hotelID, categoryID uint64, checkIn, checkOut time.Time, numberOfRooms int) error
	Release(ctx context.Context, hotelID, categoryID uint64, checkIn, checkOut time.Time, numberOfRooms int) error
}

// ReservationStore persists reservations.  Implemented by repository.ReservationRepo.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	UpdateStatus(ctx context.Context, id uint64, status model.ReservationStatus) error
	UpdatePaymentStatus(ctx context.Context, id uint64, status model.PaymentStatus) error
	ListByGuest(ctx context.Context, email string) ([]model.Reservation, error)
}

// StayStore persists stay records.  Implemented by repository.StayRecordRepo.
type StayStore interface {
	Create(ctx context.Context, rec *model.StayRecord) error
	CloseByReservation(ctx context.Context, reservationID uint64, checkOutTime time.Time) error
}

// AllocationLedger binds bookings to physical rooms.  Implemented by
// repository.RoomAllocationRepo.
type AllocationLedger interface {
	Allocate(ctx context.Context, bookingID, hotelID, categoryID uint64, numberOfRooms int) ([]model.RoomAllocation, error)
	Release(ctx context.Context, bookingID uint64) ([]uint64, error)
}

// EventPublisher emits lifecycle events.  Implemented by queue.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event queue.BookingEvent) error
}

// CreateBookingInput carries everything a guest submits to book rooms.
// The requester identity comes separately from the identity middleware.
type CreateBookingInput struct {
	HotelID        uint64
	CategoryID     uint64
	CheckInDate    time.Time
	CheckOutDate   time.Time
	GuestName      string
	NumberOfGuests int
	NumberOfRooms  int
}

// BookingService is the reservation orchestrator and the booking lifecycle
// state machine.  CreateBooking runs the reserve-then-persist saga against
// the availability ledger; the transition methods enforce the status
// machine, role capabilities, ownership and payment gating, and drive the
// room allocation ledger at check-in and check-out.
type BookingService struct {
	reservations ReservationStore
	stays        StayStore
	availability AvailabilityLedger
	allocations  AllocationLedger
	catalog      catalog.Client
	events       EventPublisher
}

// NewBookingService constructs a BookingService.  All dependencies must be
// non-nil.
func NewBookingService(
	reservations ReservationStore,
	stays StayStore,
	availability AvailabilityLedger,
	allocations AllocationLedger,
	cat catalog.Client,
	events EventPublisher,
) *BookingService {
	if reservations == nil || stays == nil || availability == nil || allocations == nil || cat == nil || events == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{
		reservations: reservations,
		stays:        stays,
		availability: availability,
		allocations:  allocations,
		catalog:      cat,
		events:       events,
	}
}

// CreateBooking validates the request, reserves per-day inventory and then
// persists the reservation.  When persistence fails after the counters
// were decremented, the same range is released again and the original
// error is returned: a persisted reservation therefore implies a
// successful inventory reservation.  The BOOKING_CREATED event is emitted
// best-effort after commit.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput, requesterEmail string, role model.Role) (*model.Reservation, error) {
	if !role.CanCreateBooking() {
		return nil, ErrUnauthorized
	}
	if !in.CheckInDate.Before(in.CheckOutDate) {
		return nil, ErrInvalidDateRange
	}

	cat, err := s.catalog.GetCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if in.NumberOfGuests > cat.CapacityPerRoom*in.NumberOfRooms {
		return nil, ErrInvalidGuestCount
	}

	available, err := s.availability.IsAvailable(ctx, in.HotelID, in.CategoryID, in.CheckInDate, in.CheckOutDate, in.NumberOfRooms)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrRoomNotAvailable
	}

	if err := s.availability.Reserve(ctx, in.HotelID, in.CategoryID, in.CheckInDate, in.CheckOutDate, in.NumberOfRooms); err != nil {
		return nil, err
	}

	res := &model.Reservation{
		BookingReference:   utils.NewBookingReference(),
		GuestEmail:         requesterEmail,
		GuestName:          in.GuestName,
		NumberOfGuests:     in.NumberOfGuests,
		NumberOfRooms:      in.NumberOfRooms,
		HotelID:            in.HotelID,
		CategoryID:         in.CategoryID,
		CheckInDate:        in.CheckInDate,
		CheckOutDate:       in.CheckOutDate,
		PricePerNightCents: cat.BasePriceCents,
		TotalAmountCents:   cat.BasePriceCents * int64(nights(in.CheckInDate, in.CheckOutDate)) * int64(in.NumberOfRooms),
		Status:             model.StatusBooked,
		PaymentStatus:      model.PaymentPending,
	}

	if err := s.reservations.Create(ctx, res); err != nil {
		// Compensation: hand the inventory back before surfacing the
		// original failure.  A failed release leaves the counters low
		// until reconciliation and is only logged.
		if relErr := s.availability.Release(ctx, in.HotelID, in.CategoryID, in.CheckInDate, in.CheckOutDate, in.NumberOfRooms); relErr != nil {
			log.Printf("booking: failed to release inventory after persist error: %v", relErr)
		}
		return nil, err
	}

	s.emit(ctx, queue.EventBookingCreated, queue.KeyBookingCreated, res)
	return res, nil
}

// GetBooking returns one reservation.  Guests may only read their own;
// staff roles may read any.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uint64, requesterEmail string, role model.Role) (*model.Reservation, error) {
	res, err := s.fetch(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if role == model.RoleGuest && !res.IsOwnedBy(requesterEmail) {
		return nil, ErrUnauthorized
	}
	return res, nil
}

// ListBookings returns all reservations owned by the requesting guest.
func (s *BookingService) ListBookings(ctx context.Context, requesterEmail string) ([]model.Reservation, error) {
	return s.reservations.ListByGuest(ctx, requesterEmail)
}

// ConfirmBooking moves BOOKED to CONFIRMED.  Admins and managers only.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID uint64, role model.Role) (*model.Reservation, error) {
	if !role.CanConfirmBooking() {
		return nil, ErrUnauthorized
	}
	res, err := s.fetch(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if res.Status != model.StatusBooked {
		return nil, ErrInvalidReservationState
	}
	if err := s.reservations.UpdateStatus(ctx, res.ID, model.StatusConfirmed); err != nil {
		return nil, err
	}
	res.Status = model.StatusConfirmed
	s.emit(ctx, queue.EventBookingConfirmed, queue.KeyBookingConfirmed, res)
	return res, nil
}

// CancelBooking moves BOOKED or CONFIRMED to CANCELLED and hands the
// reserved inventory back.  The owning guest may cancel their own booking;
// admins and managers may cancel any.  A checked-in stay cannot be
// cancelled regardless of role.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uint64, requesterEmail string, role model.Role) error {
	res, err := s.fetch(ctx, bookingID)
	if err != nil {
		return err
	}
	if res.Status != model.StatusBooked && res.Status != model.StatusConfirmed {
		return ErrInvalidReservationState
	}
	owner := role == model.RoleGuest && res.IsOwnedBy(requesterEmail)
	if !owner && !role.CanCancelBooking() {
		return ErrUnauthorized
	}

	if err := s.reservations.UpdateStatus(ctx, res.ID, model.StatusCancelled); err != nil {
		return err
	}
	if err := s.availability.Release(ctx, res.HotelID, res.CategoryID, res.CheckInDate, res.CheckOutDate, res.NumberOfRooms); err != nil {
		// The cancellation itself stands; surfacing the error lets the
		// caller know the counters need reconciliation.
		return err
	}
	res.Status = model.StatusCancelled
	s.emit(ctx, queue.EventBookingCancelled, queue.KeyBookingCancelled, res)
	return nil
}

// PayBooking marks a confirmed reservation as paid.  Only the owning
// guest may pay, only once, and only after the booking was confirmed.
func (s *BookingService) PayBooking(ctx context.Context, bookingID uint64, requesterEmail string, role model.Role) error {
	res, err := s.fetch(ctx, bookingID)
	if err != nil {
		return err
	}
	if role != model.RoleGuest || !res.IsOwnedBy(requesterEmail) {
		return ErrUnauthorized
	}
	if res.Status != model.StatusConfirmed {
		return ErrInvalidReservationState
	}
	if res.PaymentStatus == model.PaymentPaid {
		return ErrAlreadyPaid
	}
	return s.reservations.UpdatePaymentStatus(ctx, res.ID, model.PaymentPaid)
}

// CheckIn moves CONFIRMED to CHECKED_IN: physical rooms are allocated,
// the stay record is opened and the status flipped.  If anything fails
// after rooms were allocated, the allocation is released again so no room
// stays OCCUPIED without a checked-in booking.
func (s *BookingService) CheckIn(ctx context.Context, bookingID uint64, role model.Role) error {
	if !role.CanCheckInOut() {
		return ErrUnauthorized
	}
	res, err := s.fetch(ctx, bookingID)
	if err != nil {
		return err
	}
	if res.Status != model.StatusConfirmed {
		return ErrInvalidReservationState
	}

	if _, err := s.allocations.Allocate(ctx, res.ID, res.HotelID, res.CategoryID, res.NumberOfRooms); err != nil {
		return err
	}

	stay := &model.StayRecord{ReservationID: res.ID, CheckInTime: time.Now().UTC()}
	if err := s.stays.Create(ctx, stay); err != nil {
		s.rollbackAllocation(ctx, res.ID)
		return err
	}
	if err := s.reservations.UpdateStatus(ctx, res.ID, model.StatusCheckedIn); err != nil {
		s.rollbackAllocation(ctx, res.ID)
		return err
	}
	return nil
}

// CheckOut moves CHECKED_IN to CHECKED_OUT.  The booking must be paid;
// the allocated rooms are released into CLEANING and the stay is closed.
func (s *BookingService) CheckOut(ctx context.Context, bookingID uint64, role model.Role) error {
	if !role.CanCheckInOut() {
		return ErrUnauthorized
	}
	res, err := s.fetch(ctx, bookingID)
	if err != nil {
		return err
	}
	if res.Status != model.StatusCheckedIn {
		return ErrInvalidReservationState
	}
	if res.PaymentStatus != model.PaymentPaid {
		return ErrInvalidReservationState
	}

	if _, err := s.allocations.Release(ctx, res.ID); err != nil {
		return err
	}
	if err := s.stays.CloseByReservation(ctx, res.ID, time.Now().UTC()); err != nil {
		return err
	}
	return s.reservations.UpdateStatus(ctx, res.ID, model.StatusCheckedOut)
}

// fetch loads a reservation, mapping a missing row to ErrBookingNotFound.
func (s *BookingService) fetch(ctx context.Context, bookingID uint64) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, bookingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	return res, err
}

// rollbackAllocation is best-effort compensation during check-in.
func (s *BookingService) rollbackAllocation(ctx context.Context, bookingID uint64) {
	if _, err := s.allocations.Release(ctx, bookingID); err != nil {
		log.Printf("booking: failed to release allocation after check-in error: %v", err)
	}
}

// emit publishes a lifecycle event.  Hotel and category names are looked
// up best-effort; publish failures are logged and never unwind the state
// change that triggered the event.
func (s *BookingService) emit(ctx context.Context, eventType, routingKey string, res *model.Reservation) {
	ev := queue.BookingEvent{
		EventType:    eventType,
		BookingID:    res.ID,
		GuestEmail:   res.GuestEmail,
		GuestName:    res.GuestName,
		CheckInDate:  res.CheckInDate.Format("2006-01-02"),
		CheckOutDate: res.CheckOutDate.Format("2006-01-02"),
		EventTime:    time.Now().UTC(),
	}
	if hotel, err := s.catalog.GetHotel(ctx, res.HotelID); err == nil {
		ev.HotelName = hotel.Name
	}
	if cat, err := s.catalog.GetCategory(ctx, res.CategoryID); err == nil {
		ev.RoomCategory = cat.Name
	}
	if err := s.events.Publish(ctx, routingKey, ev); err != nil {
		log.Printf("booking: publish %s failed: %v", eventType, err)
	}
}

// nights counts the days in the half-open interval [checkIn, checkOut).
func nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}
