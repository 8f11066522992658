package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ReservationRepo provides persistence for reservations.  Reservations are
// created once by the booking saga and afterwards mutated only through the
// narrow status/payment updates below; rows are never deleted.  All
// timestamp columns are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, booking_reference, guest_email, guest_name,
		number_of_guests, number_of_rooms, hotel_id, category_id,
		check_in_date, check_out_date, price_per_night_cents, total_amount_cents,
		status, payment_status, check_in_reminder_sent, check_out_reminder_sent,
		created_at, updated_at`

// Create inserts a new reservation and populates the generated ID and DB
// defaults on the provided model.  Status and payment status must already
// be set by the caller (BOOKED / PENDING for a fresh booking).
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
		(booking_reference, guest_email, guest_name, number_of_guests, number_of_rooms,
		 hotel_id, category_id, check_in_date, check_out_date,
		 price_per_night_cents, total_amount_cents, status, payment_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		res.BookingReference, res.GuestEmail, res.GuestName,
		res.NumberOfGuests, res.NumberOfRooms,
		res.HotelID, res.CategoryID,
		res.CheckInDate.Format("2006-01-02"), res.CheckOutDate.Format("2006-01-02"),
		res.PricePerNightCents, res.TotalAmountCents,
		res.Status, res.PaymentStatus,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query the row back to populate timestamps and defaults.
	full, err := r.GetByID(ctx, res.ID)
	if err != nil {
		return err
	}
	*res = *full
	return nil
}

// GetByID returns one reservation or ErrNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return res, err
}

// GetByReference resolves a public booking reference to a reservation.
// References are display tokens, not primary keys; uniqueness is enforced
// by the column constraint.
func (r *ReservationRepo) GetByReference(ctx context.Context, ref string) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE booking_reference = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, ref))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return res, err
}

// UpdateStatus sets the lifecycle status of one reservation.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status model.ReservationStatus) error {
	return r.exec(ctx, `UPDATE reservations SET status = ? WHERE id = ?`, status, id)
}

// UpdatePaymentStatus sets the payment status of one reservation.
func (r *ReservationRepo) UpdatePaymentStatus(ctx context.Context, id uint64, status model.PaymentStatus) error {
	return r.exec(ctx, `UPDATE reservations SET payment_status = ? WHERE id = ?`, status, id)
}

// ListByGuest returns all reservations owned by the given guest email,
// newest first.
func (r *ReservationRepo) ListByGuest(ctx context.Context, email string) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
			   WHERE guest_email = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// ListCheckInReminderDue returns CONFIRMED reservations checking in on the
// given date whose check-in reminder has not been sent yet.
func (r *ReservationRepo) ListCheckInReminderDue(ctx context.Context, date time.Time) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
			   WHERE status = ? AND check_in_date = ? AND check_in_reminder_sent = FALSE`
	rows, err := r.db.QueryContext(ctx, q, model.StatusConfirmed, date.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// ListCheckOutReminderDue returns checked-in reservations departing on the
// given date whose check-out reminder has not been sent yet.
func (r *ReservationRepo) ListCheckOutReminderDue(ctx context.Context, date time.Time) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
			   WHERE status = ? AND check_out_date = ? AND check_out_reminder_sent = FALSE`
	rows, err := r.db.QueryContext(ctx, q, model.StatusCheckedIn, date.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// MarkCheckInReminderSent flags the reservation so the reminder sweep does
// not emit the same event twice.
func (r *ReservationRepo) MarkCheckInReminderSent(ctx context.Context, id uint64) error {
	return r.exec(ctx, `UPDATE reservations SET check_in_reminder_sent = TRUE WHERE id = ?`, id)
}

// MarkCheckOutReminderSent flags the reservation after its check-out reminder.
func (r *ReservationRepo) MarkCheckOutReminderSent(ctx context.Context, id uint64) error {
	return r.exec(ctx, `UPDATE reservations SET check_out_reminder_sent = TRUE WHERE id = ?`, id)
}

// exec runs a single-row update and maps zero affected rows to ErrNotFound.
func (r *ReservationRepo) exec(ctx context.Context, q string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// rowScanner lets scanReservation work with both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*model.Reservation, error) {
	var res model.Reservation
	if err := row.Scan(
		&res.ID, &res.BookingReference, &res.GuestEmail, &res.GuestName,
		&res.NumberOfGuests, &res.NumberOfRooms, &res.HotelID, &res.CategoryID,
		&res.CheckInDate, &res.CheckOutDate,
		&res.PricePerNightCents, &res.TotalAmountCents,
		&res.Status, &res.PaymentStatus,
		&res.CheckInReminderSent, &res.CheckOutReminderSent,
		&res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &res, nil
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
