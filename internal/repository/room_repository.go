package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// RoomRepo provides access to physical rooms.  Status changes driven by
// staff go through UpdateStatus; the OCCUPIED/CLEANING flips that belong
// to check-in/check-out live in RoomAllocationRepo where they happen
// inside the allocation transaction.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// GetByID returns one room or ErrNotFound.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT id, hotel_id, category_id, room_number, status, created_at, updated_at
			   FROM rooms WHERE id = ?`
	var room model.Room
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&room.ID, &room.HotelID, &room.CategoryID, &room.RoomNumber,
		&room.Status, &room.CreatedAt, &room.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// UpdateStatus sets the status of one room.
func (r *RoomRepo) UpdateStatus(ctx context.Context, id uint64, status model.RoomStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE rooms SET status = ? WHERE id = ?`, status, id)
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

// ListAvailable returns up to limit AVAILABLE rooms of one (hotel,
// category) ordered by room number ascending.  Ordering matters:
// allocation and suggestion both pick the lowest-numbered rooms first so
// the outcome is deterministic.
func (r *RoomRepo) ListAvailable(ctx context.Context, hotelID, categoryID uint64, limit int) ([]model.Room, error) {
	const q = `SELECT id, hotel_id, category_id, room_number, status, created_at, updated_at
			   FROM rooms
			   WHERE hotel_id = ? AND category_id = ? AND status = ?
			   ORDER BY room_number ASC
			   LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, hotelID, categoryID, model.RoomAvailable, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(
			&room.ID, &room.HotelID, &room.CategoryID, &room.RoomNumber,
			&room.Status, &room.CreatedAt, &room.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
