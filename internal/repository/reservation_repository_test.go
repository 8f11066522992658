package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

var reservationCols = []string{
	"id", "booking_reference", "guest_email", "guest_name",
	"number_of_guests", "number_of_rooms", "hotel_id", "category_id",
	"check_in_date", "check_out_date", "price_per_night_cents", "total_amount_cents",
	"status", "payment_status", "check_in_reminder_sent", "check_out_reminder_sent",
	"created_at", "updated_at",
}

func reservationRow(id uint64) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(reservationCols).AddRow(
		id, "BK-ABC1234567", "ada@example.com", "Ada Lovelace",
		3, 2, 3, 7,
		date("2026-09-01"), date("2026-09-04"), 15000, 90000,
		"BOOKED", "PENDING", false, false,
		now, now,
	)
}

func newReservationRepo(t *testing.T) (*ReservationRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReservationRepo(db), mock
}

func TestReservationCreateReadsRowBack(t *testing.T) {
	repo, mock := newReservationRepo(t)

	mock.ExpectExec(`INSERT INTO reservations`).
		WithArgs(
			"BK-ABC1234567", "ada@example.com", "Ada Lovelace", 3, 2,
			uint64(3), uint64(7), "2026-09-01", "2026-09-04",
			int64(15000), int64(90000), "BOOKED", "PENDING",
		).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE id = \?`).
		WithArgs(uint64(5)).
		WillReturnRows(reservationRow(5))

	res := &model.Reservation{
		BookingReference:   "BK-ABC1234567",
		GuestEmail:         "ada@example.com",
		GuestName:          "Ada Lovelace",
		NumberOfGuests:     3,
		NumberOfRooms:      2,
		HotelID:            3,
		CategoryID:         7,
		CheckInDate:        date("2026-09-01"),
		CheckOutDate:       date("2026-09-04"),
		PricePerNightCents: 15000,
		TotalAmountCents:   90000,
		Status:             model.StatusBooked,
		PaymentStatus:      model.PaymentPending,
	}
	require.NoError(t, repo.Create(context.Background(), res))
	require.Equal(t, uint64(5), res.ID)
	require.False(t, res.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationGetByIDNotFound(t *testing.T) {
	repo, mock := newReservationRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE id = \?`).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows(reservationCols))

	_, err := repo.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReservationGetByReference(t *testing.T) {
	repo, mock := newReservationRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE booking_reference = \?`).
		WithArgs("BK-ABC1234567").
		WillReturnRows(reservationRow(5))

	res, err := repo.GetByReference(context.Background(), "BK-ABC1234567")
	require.NoError(t, err)
	require.Equal(t, uint64(5), res.ID)
}

func TestReservationUpdateStatusMissingRow(t *testing.T) {
	repo, mock := newReservationRepo(t)

	mock.ExpectExec(`UPDATE reservations SET status = \? WHERE id = \?`).
		WithArgs("CONFIRMED", uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 99, model.StatusConfirmed)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListCheckInReminderDueFiltersByDateAndFlag(t *testing.T) {
	repo, mock := newReservationRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM reservations\s+WHERE status = \? AND check_in_date = \? AND check_in_reminder_sent = FALSE`).
		WithArgs("CONFIRMED", "2026-09-01").
		WillReturnRows(reservationRow(5))

	due, err := repo.ListCheckInReminderDue(context.Background(), date("2026-09-01"))
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, uint64(5), due[0].ID)
}

func TestMarkCheckOutReminderSent(t *testing.T) {
	repo, mock := newReservationRepo(t)

	mock.ExpectExec(`UPDATE reservations SET check_out_reminder_sent = TRUE WHERE id = \?`).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkCheckOutReminderSent(context.Background(), 5))
}
