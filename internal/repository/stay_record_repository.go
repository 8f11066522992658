package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// StayRecordRepo persists the physical occupancy window of a stay: one row
// per reservation, opened at check-in and closed at check-out.
type StayRecordRepo struct {
	db *sql.DB
}

// NewStayRecordRepo returns a new StayRecordRepo bound to the given database.
func NewStayRecordRepo(db *sql.DB) *StayRecordRepo { return &StayRecordRepo{db: db} }

// Create opens the stay for a reservation at check-in time.
func (r *StayRecordRepo) Create(ctx context.Context, rec *model.StayRecord) error {
	const q = `INSERT INTO stay_records (reservation_id, check_in_time) VALUES (?, ?)`
	result, err := r.db.ExecContext(ctx, q, rec.ReservationID, rec.CheckInTime.UTC())
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// CloseByReservation stamps the check-out time on the open stay of a
// reservation.  A stay that is missing or already closed yields ErrNotFound.
func (r *StayRecordRepo) CloseByReservation(ctx context.Context, reservationID uint64, checkOutTime time.Time) error {
	const q = `UPDATE stay_records SET check_out_time = ?
			   WHERE reservation_id = ? AND check_out_time IS NULL`
	result, err := r.db.ExecContext(ctx, q, checkOutTime.UTC(), reservationID)
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

// GetByReservation returns the stay for a reservation or ErrNotFound.
func (r *StayRecordRepo) GetByReservation(ctx context.Context, reservationID uint64) (*model.StayRecord, error) {
	const q = `SELECT id, reservation_id, check_in_time, check_out_time
			   FROM stay_records WHERE reservation_id = ?`
	var rec model.StayRecord
	var out sql.NullTime
	err := r.db.QueryRowContext(ctx, q, reservationID).Scan(
		&rec.ID, &rec.ReservationID, &rec.CheckInTime, &out,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if out.Valid {
		t := out.Time
		rec.CheckOutTime = &t
	}
	return &rec, nil
}
