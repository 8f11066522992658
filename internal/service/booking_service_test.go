package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// --- fakes -----------------------------------------------------------------

type fakeLedger struct {
	available  bool
	checkErr   error
	reserveErr error
	releaseErr error

	reserved int
	released int
}

func (f *fakeLedger) IsAvailable(ctx context.Context, hotelID, categoryID uint64, in, out time.Time, n int) (bool, error) {
	return f.available, f.checkErr
}

func (f *fakeLedger) Reserve(ctx context.Context, hotelID, categoryID uint64, in, out time.Time, n int) error {
	if f.reserveErr != nil {
		return f.reserveErr
	}
	f.reserved++
	return nil
}

func (f *fakeLedger) Release(ctx context.Context, hotelID, categoryID uint64, in, out time.Time, n int) error {
	if f.releaseErr != nil {
		return f.releaseErr
	}
	f.released++
	return nil
}

type fakeReservations struct {
	byID      map[uint64]*model.Reservation
	createErr error
	nextID    uint64

	statusUpdates  []model.ReservationStatus
	paymentUpdates []model.PaymentStatus
}

func newFakeReservations(existing ...*model.Reservation) *fakeReservations {
	f := &fakeReservations{byID: map[uint64]*model.Reservation{}, nextID: 1}
	for _, r := range existing {
		f.byID[r.ID] = r
		if r.ID >= f.nextID {
			f.nextID = r.ID + 1
		}
	}
	return f
}

func (f *fakeReservations) Create(ctx context.Context, res *model.Reservation) error {
	if f.createErr != nil {
		return f.createErr
	}
	res.ID = f.nextID
	f.nextID++
	f.byID[res.ID] = res
	return nil
}

func (f *fakeReservations) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *res
	return &cp, nil
}

func (f *fakeReservations) UpdateStatus(ctx context.Context, id uint64, status model.ReservationStatus) error {
	res, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	res.Status = status
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

func (f *fakeReservations) UpdatePaymentStatus(ctx context.Context, id uint64, status model.PaymentStatus) error {
	res, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	res.PaymentStatus = status
	f.paymentUpdates = append(f.paymentUpdates, status)
	return nil
}

func (f *fakeReservations) ListByGuest(ctx context.Context, email string) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, r := range f.byID {
		if r.GuestEmail == email {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeStays struct {
	created   []*model.StayRecord
	closed    []uint64
	createErr error
	closeErr  error
}

func (f *fakeStays) Create(ctx context.Context, rec *model.StayRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, rec)
	return nil
}

func (f *fakeStays) CloseByReservation(ctx context.Context, reservationID uint64, at time.Time) error {
	if f.closeErr != nil {
		return f.closeErr
	}
	f.closed = append(f.closed, reservationID)
	return nil
}

type fakeAllocations struct {
	allocated   []uint64
	released    []uint64
	allocateErr error
	releaseErr  error
}

func (f *fakeAllocations) Allocate(ctx context.Context, bookingID, hotelID, categoryID uint64, n int) ([]model.RoomAllocation, error) {
	if f.allocateErr != nil {
		return nil, f.allocateErr
	}
	f.allocated = append(f.allocated, bookingID)
	out := make([]model.RoomAllocation, n)
	for i := range out {
		out[i] = model.RoomAllocation{BookingID: bookingID, RoomID: uint64(100 + i)}
	}
	return out, nil
}

func (f *fakeAllocations) Release(ctx context.Context, bookingID uint64) ([]uint64, error) {
	if f.releaseErr != nil {
		return nil, f.releaseErr
	}
	f.released = append(f.released, bookingID)
	return []uint64{100}, nil
}

type fakePublisher struct {
	events []queue.BookingEvent
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, routingKey string, ev queue.BookingEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

type stubCatalog struct {
	category model.RoomCategory
	err      error
}

func (s *stubCatalog) GetCategory(ctx context.Context, id uint64) (*model.RoomCategory, error) {
	if s.err != nil {
		return nil, s.err
	}
	c := s.category
	return &c, nil
}

func (s *stubCatalog) GetCategoriesByHotel(ctx context.Context, hotelID uint64) ([]model.RoomCategory, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []model.RoomCategory{s.category}, nil
}

func (s *stubCatalog) GetHotel(ctx context.Context, id uint64) (*model.Hotel, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Hotel{ID: id, Name: "Grand Plaza"}, nil
}

// --- harness ---------------------------------------------------------------

type bookingFixture struct {
	svc          *BookingService
	reservations *fakeReservations
	stays        *fakeStays
	ledger       *fakeLedger
	allocations  *fakeAllocations
	publisher    *fakePublisher
}

func newBookingFixture(existing ...*model.Reservation) *bookingFixture {
	f := &bookingFixture{
		reservations: newFakeReservations(existing...),
		stays:        &fakeStays{},
		ledger:       &fakeLedger{available: true},
		allocations:  &fakeAllocations{},
		publisher:    &fakePublisher{},
	}
	cat := &stubCatalog{category: model.RoomCategory{
		ID: 7, HotelID: 3, Name: "Deluxe", TotalRooms: 10, CapacityPerRoom: 2, BasePriceCents: 15000,
	}}
	f.svc = NewBookingService(f.reservations, f.stays, f.ledger, f.allocations, cat, f.publisher)
	return f
}

func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func validInput() CreateBookingInput {
	return CreateBookingInput{
		HotelID:        3,
		CategoryID:     7,
		CheckInDate:    mustDate("2026-09-01"),
		CheckOutDate:   mustDate("2026-09-04"),
		GuestName:      "Ada Lovelace",
		NumberOfGuests: 3,
		NumberOfRooms:  2,
	}
}

func existingBooking(status model.ReservationStatus, payment model.PaymentStatus) *model.Reservation {
	return &model.Reservation{
		ID:             1,
		GuestEmail:     "ada@example.com",
		HotelID:        3,
		CategoryID:     7,
		CheckInDate:    mustDate("2026-09-01"),
		CheckOutDate:   mustDate("2026-09-04"),
		NumberOfRooms:  2,
		NumberOfGuests: 3,
		Status:         status,
		PaymentStatus:  payment,
	}
}

// --- CreateBooking ---------------------------------------------------------

func TestCreateBookingComputesTotalAndReserves(t *testing.T) {
	f := newBookingFixture()

	res, err := f.svc.CreateBooking(context.Background(), validInput(), "ada@example.com", model.RoleGuest)
	require.NoError(t, err)

	// 3 nights x 2 rooms x 15000 cents.
	require.Equal(t, int64(90000), res.TotalAmountCents)
	require.Equal(t, int64(15000), res.PricePerNightCents)
	require.Equal(t, model.StatusBooked, res.Status)
	require.Equal(t, model.PaymentPending, res.PaymentStatus)
	require.Equal(t, "ada@example.com", res.GuestEmail)
	require.Regexp(t, `^BK-[A-Z0-9]{10}$`, res.BookingReference)
	require.Equal(t, 1, f.ledger.reserved)

	require.Len(t, f.publisher.events, 1)
	ev := f.publisher.events[0]
	require.Equal(t, queue.EventBookingCreated, ev.EventType)
	require.Equal(t, "Grand Plaza", ev.HotelName)
	require.Equal(t, "Deluxe", ev.RoomCategory)
	require.Equal(t, "2026-09-01", ev.CheckInDate)
}

func TestCreateBookingOnlyForGuests(t *testing.T) {
	f := newBookingFixture()
	for _, role := range []model.Role{model.RoleReceptionist, model.RoleManager, model.RoleAdmin, model.Role("")} {
		_, err := f.svc.CreateBooking(context.Background(), validInput(), "staff@example.com", role)
		require.ErrorIs(t, err, ErrUnauthorized, "role %s", role)
	}
	require.Zero(t, f.ledger.reserved)
}

func TestCreateBookingRejectsBadDateRange(t *testing.T) {
	f := newBookingFixture()

	in := validInput()
	in.CheckOutDate = in.CheckInDate
	_, err := f.svc.CreateBooking(context.Background(), in, "ada@example.com", model.RoleGuest)
	require.ErrorIs(t, err, ErrInvalidDateRange)

	in.CheckOutDate = in.CheckInDate.AddDate(0, 0, -1)
	_, err = f.svc.CreateBooking(context.Background(), in, "ada@example.com", model.RoleGuest)
	require.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCreateBookingRejectsTooManyGuests(t *testing.T) {
	f := newBookingFixture()

	in := validInput()
	in.NumberOfGuests = 5 // capacity is 2 per room, 2 rooms
	_, err := f.svc.CreateBooking(context.Background(), in, "ada@example.com", model.RoleGuest)
	require.ErrorIs(t, err, ErrInvalidGuestCount)
}

func TestCreateBookingWhenNoRoomsLeft(t *testing.T) {
	f := newBookingFixture()
	f.ledger.available = false

	_, err := f.svc.CreateBooking(context.Background(), validInput(), "ada@example.com", model.RoleGuest)
	require.ErrorIs(t, err, ErrRoomNotAvailable)
	require.Zero(t, f.ledger.reserved)
}

func TestCreateBookingReleasesInventoryWhenPersistFails(t *testing.T) {
	f := newBookingFixture()
	dbErr := errors.New("db down")
	f.reservations.createErr = dbErr

	_, err := f.svc.CreateBooking(context.Background(), validInput(), "ada@example.com", model.RoleGuest)
	require.ErrorIs(t, err, dbErr)
	require.Equal(t, 1, f.ledger.reserved)
	require.Equal(t, 1, f.ledger.released)
	require.Empty(t, f.publisher.events)
}

func TestCreateBookingSucceedsWhenPublishFails(t *testing.T) {
	f := newBookingFixture()
	f.publisher.err = errors.New("broker down")

	res, err := f.svc.CreateBooking(context.Background(), validInput(), "ada@example.com", model.RoleGuest)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Equal(t, 1, f.ledger.reserved)
	require.Zero(t, f.ledger.released)
}

// --- read paths ------------------------------------------------------------

func TestGetBookingOwnershipAndRoles(t *testing.T) {
	f := newBookingFixture(existingBooking(model.StatusBooked, model.PaymentPending))

	_, err := f.svc.GetBooking(context.Background(), 1, "ada@example.com", model.RoleGuest)
	require.NoError(t, err)

	_, err = f.svc.GetBooking(context.Background(), 1, "eve@example.com", model.RoleGuest)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.GetBooking(context.Background(), 1, "desk@example.com", model.RoleReceptionist)
	require.NoError(t, err)

	_, err = f.svc.GetBooking(context.Background(), 99, "ada@example.com", model.RoleGuest)
	require.ErrorIs(t, err, ErrBookingNotFound)
}

// --- confirm ---------------------------------------------------------------

func TestConfirmBooking(t *testing.T) {
	f := newBookingFixture(existingBooking(model.StatusBooked, model.PaymentPending))

	res, err := f.svc.ConfirmBooking(context.Background(), 1, model.RoleManager)
	require.NoError(t, err)
	require.Equal(t, model.StatusConfirmed, res.Status)
	require.Len(t, f.publisher.events, 1)
	require.Equal(t, queue.EventBookingConfirmed, f.publisher.events[0].EventType)
}

func TestConfirmBookingRoleMatrix(t *testing.T) {
	for _, role := range []model.Role{model.RoleGuest, model.RoleReceptionist} {
		f := newBookingFixture(existingBooking(model.StatusBooked, model.PaymentPending))
		_, err := f.svc.ConfirmBooking(context.Background(), 1, role)
		require.ErrorIs(t, err, ErrUnauthorized, "role %s", role)
	}
}

func TestConfirmBookingRequiresBookedState(t *testing.T) {
	for _, status := range []model.ReservationStatus{
		model.StatusConfirmed, model.StatusCheckedIn, model.StatusCheckedOut, model.StatusCancelled,
	} {
		f := newBookingFixture(existingBooking(status, model.PaymentPending))
		_, err := f.svc.ConfirmBooking(context.Background(), 1, model.RoleAdmin)
		require.ErrorIs(t, err, ErrInvalidReservationState, "status %s", status)
	}
}

// --- cancel ----------------------------------------------------------------

func TestCancelBookingByOwnerReleasesInventory(t *testing.T) {
	f := newBookingFixture(existingBooking(model.StatusConfirmed, model.PaymentPending))

	err := f.svc.CancelBooking(context.Background(), 1, "ada@example.com", model.RoleGuest)
	require.NoError(t, err)
	require.Equal(t, 1, f.ledger.released)
	require.Equal(t, []model.ReservationStatus{model.StatusCancelled}, f.reservations.statusUpdates)
	require.Len(t, f.publisher.events, 1)
	require.Equal(t, queue.EventBookingCancelled, f.publisher.events[0].EventType)
}

func TestCancelBookingByStrangerGuest(t *testing.T) {
	f := newBookingFixture(existingBooking(model.StatusBooked, model.PaymentPending))

	err := f.svc.CancelBooking(context.Background(), 1, "eve@example.com", model.RoleGuest)
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Zero(t, f.ledger.released)
}

func TestCancelBookingByManager(t *testing.T) {
	f := newBookingFixture(existingBooking(model.StatusBooked, model.PaymentPending))

	err := f.svc.CancelBooking(context.Background(), 1, "mgr@example.com", model.RoleManager)
	require.NoError(t, err)
	require.Equal(t, 1, f.ledger.released)
}

func TestCancelBookingByReceptionist(t *testing.T) {
	f := newBookingFixture(existingBooking(model.StatusBooked, model.PaymentPending))

	err := f.svc.CancelBooking(context.Background(), 1, "desk@example.com", model.RoleReceptionist)
	require.ErrorIs(t, err, ErrUnauthorized)
}

// State always wins over role: even an admin cannot cancel a stay in
// progress or a terminal booking.
func TestCancelBookingStateGuardBeatsRole(t *testing.T) {
	for _, status := range []model.ReservationStatus{
		model.StatusCheckedIn, model.StatusCheckedOut, model.StatusCancelled,
	} {
		f := newBookingFixture(existingBooking(status, model.PaymentPaid))
		err := f.svc.CancelBooking(context.Background(), 1, "admin@example.com", model.RoleAdmin)
		require.ErrorIs(t, err, ErrInvalidReservationState, "status %s", status)
		require.Zero(t, f.ledger.released)
	}
}

// --- pay -------------------------------------------------------------------

func TestPayBooking(t *testing.T) {
	f := newBookingFixture(existingBooking(model.StatusConfirmed, model.PaymentPending))

	err := f.svc.PayBooking(context.Background(), 1, "ada@example.com", model.RoleGuest)
	require.NoError(t, err)
	require.Equal(t, []model.PaymentStatus{model.PaymentPaid}, f.reservations.paymentUpdates)
}

func TestPayBookingOnlyOwner(t *testing.T) {
	f := newBookingFixture(existingBooking(model.StatusConfirmed, model.PaymentPending))

	err := f.svc.PayBooking(context.Background(), 1, "eve@example.com", model.RoleGuest)
	require.ErrorIs(t, err, ErrUnauthorized)

	err = f.svc.PayBooking(context.Background(), 1, "admin@example.com", model.RoleAdmin)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestPayBookingRequiresConfirmedState(t *testing.T) {
	f := newBookingFixture(existingBooking(model.StatusBooked, model.PaymentPending))

	err := f.svc.PayBooking(context.Background(), 1, "ada@example.com", model.RoleGuest)
	require.ErrorIs(t, err, ErrInvalidReservationState)
}

func TestPayBookingTwice(t *testing.T) {
	f := newBookingFixture(existingBooking(model.StatusConfirmed, model.PaymentPaid))

	err := f.svc.PayBooking(context.Background(), 1, "ada@example.com", model.RoleGuest)
	require.ErrorIs(t, err, ErrAlreadyPaid)
}

// --- check-in --------------------------------------------------------------

func TestCheckInAllocatesRoomsAndOpensStay(t *testing.T) {
	f := newBookingFixture(existingBooking(model.StatusConfirmed, model.PaymentPending))

	err := f.svc.CheckIn(context.Background(), 1, model.RoleReceptionist)
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, f.allocations.allocated)
	require.Len(t, f.stays.created, 1)
	require.Equal(t, []model.ReservationStatus{model.StatusCheckedIn}, f.reservations.statusUpdates)
}

func TestCheckInRequiresStaff(t *testing.T) {
	f := newBookingFixture(existingBooking(model.StatusConfirmed, model.PaymentPending))

	err := f.svc.CheckIn(context.Background(), 1, model.RoleGuest)
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Empty(t, f.allocations.allocated)
}

func TestCheckInRequiresConfirmedState(t *testing.T) {
	for _, status := range []model.ReservationStatus{
		model.StatusBooked, model.StatusCheckedIn, model.StatusCheckedOut, model.StatusCancelled,
	} {
		f := newBookingFixture(existingBooking(status, model.PaymentPending))
		err := f.svc.CheckIn(context.Background(), 1, model.RoleManager)
		require.ErrorIs(t, err, ErrInvalidReservationState, "status %s", status)
	}
}

func TestCheckInPropagatesAllocationFailure(t *testing.T) {
	f := newBookingFixture(existingBooking(model.StatusConfirmed, model.PaymentPending))
	f.allocations.allocateErr = repository.ErrInsufficientRooms

	err := f.svc.CheckIn(context.Background(), 1, model.RoleReceptionist)
	require.ErrorIs(t, err, repository.ErrInsufficientRooms)
	require.Empty(t, f.stays.created)
	require.Empty(t, f.reservations.statusUpdates)
}

func TestCheckInReleasesAllocationWhenStayPersistFails(t *testing.T) {
	f := newBookingFixture(existingBooking(model.StatusConfirmed, model.PaymentPending))
	f.stays.createErr = errors.New("db down")

	err := f.svc.CheckIn(context.Background(), 1, model.RoleReceptionist)
	require.Error(t, err)
	require.Equal(t, []uint64{1}, f.allocations.allocated)
	require.Equal(t, []uint64{1}, f.allocations.released)
	require.Empty(t, f.reservations.statusUpdates)
}

// --- check-out -------------------------------------------------------------

func TestCheckOutReleasesRoomsAndClosesStay(t *testing.T) {
	f := newBookingFixture(existingBooking(model.StatusCheckedIn, model.PaymentPaid))

	err := f.svc.CheckOut(context.Background(), 1, model.RoleReceptionist)
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, f.allocations.released)
	require.Equal(t, []uint64{1}, f.stays.closed)
	require.Equal(t, []model.ReservationStatus{model.StatusCheckedOut}, f.reservations.statusUpdates)
}

func TestCheckOutBlockedUntilPaid(t *testing.T) {
	f := newBookingFixture(existingBooking(model.StatusCheckedIn, model.PaymentPending))

	err := f.svc.CheckOut(context.Background(), 1, model.RoleReceptionist)
	require.ErrorIs(t, err, ErrInvalidReservationState)
	require.Empty(t, f.allocations.released)
	require.Empty(t, f.stays.closed)
}

func TestCheckOutRequiresCheckedInState(t *testing.T) {
	f := newBookingFixture(existingBooking(model.StatusConfirmed, model.PaymentPaid))

	err := f.svc.CheckOut(context.Background(), 1, model.RoleManager)
	require.ErrorIs(t, err, ErrInvalidReservationState)
}

func TestCheckOutRequiresStaff(t *testing.T) {
	f := newBookingFixture(existingBooking(model.StatusCheckedIn, model.PaymentPaid))

	err := f.svc.CheckOut(context.Background(), 1, model.RoleGuest)
	require.ErrorIs(t, err, ErrUnauthorized)
}
