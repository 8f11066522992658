package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// RoomAllocationRepo is the physical room allocation ledger.  Allocate and
// Release each run inside their own transaction: the candidate AVAILABLE
// rows are locked with SELECT ... FOR UPDATE for the duration of the
// operation so two concurrent check-ins can never be assigned the same
// room.  Either everything inside a call commits or nothing does.
type RoomAllocationRepo struct {
	db *sql.DB
}

// NewRoomAllocationRepo returns a new RoomAllocationRepo bound to the given database.
func NewRoomAllocationRepo(db *sql.DB) *RoomAllocationRepo {
	return &RoomAllocationRepo{db: db}
}

// Allocate binds numberOfRooms physical rooms to the booking, picking the
// lowest-numbered AVAILABLE rooms of the (hotel, category).  It returns
// ErrAlreadyAllocated when the booking still holds active allocations and
// ErrInsufficientRooms when fewer rooms are free than requested; in both
// cases no row is touched.
func (r *RoomAllocationRepo) Allocate(ctx context.Context, bookingID, hotelID, categoryID uint64, numberOfRooms int) ([]model.RoomAllocation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Duplicate guard: a booking may hold at most one active allocation set.
	var active int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM room_allocations WHERE booking_id = ? AND released_at IS NULL`,
		bookingID,
	).Scan(&active); err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, ErrAlreadyAllocated
	}

	// Lock the candidate rooms so a concurrent check-in sees a consistent
	// AVAILABLE set.  Lowest room number first keeps assignment deterministic.
	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM rooms
		 WHERE hotel_id = ? AND category_id = ? AND status = ?
		 ORDER BY room_number ASC
		 FOR UPDATE`,
		hotelID, categoryID, model.RoomAvailable,
	)
	if err != nil {
		return nil, err
	}
	var candidates []uint64
	for rows.Next() {
		var id uint64
		if scanErr := rows.Scan(&id); scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		candidates = append(candidates, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if len(candidates) < numberOfRooms {
		return nil, ErrInsufficientRooms
	}

	now := time.Now().UTC()
	allocations := make([]model.RoomAllocation, 0, numberOfRooms)
	for _, roomID := range candidates[:numberOfRooms] {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO room_allocations (booking_id, room_id, allocated_at) VALUES (?, ?, ?)`,
			bookingID, roomID, now,
		)
		if err != nil {
			return nil, err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, model.RoomAllocation{
			ID:          uint64(id),
			BookingID:   bookingID,
			RoomID:      roomID,
			AllocatedAt: now,
		})
	}

	taken := candidates[:numberOfRooms]
	query := `UPDATE rooms SET status = ? WHERE id IN (` + placeholders(len(taken)) + `)`
	args := make([]interface{}, 0, len(taken)+1)
	args = append(args, model.RoomOccupied)
	for _, id := range taken {
		args = append(args, id)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return allocations, nil
}

// Release closes all active allocations of the booking and moves the rooms
// to CLEANING.  Rooms must pass through CLEANING before housekeeping marks
// them AVAILABLE again.  A booking without active allocations, including
// one whose allocations were already released, yields ErrNoActiveAllocations
// and no state change.
func (r *RoomAllocationRepo) Release(ctx context.Context, bookingID uint64) ([]uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx,
		`SELECT room_id FROM room_allocations
		 WHERE booking_id = ? AND released_at IS NULL
		 FOR UPDATE`,
		bookingID,
	)
	if err != nil {
		return nil, err
	}
	var roomIDs []uint64
	for rows.Next() {
		var id uint64
		if scanErr := rows.Scan(&id); scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		roomIDs = append(roomIDs, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if len(roomIDs) == 0 {
		return nil, ErrNoActiveAllocations
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`UPDATE room_allocations SET released_at = ? WHERE booking_id = ? AND released_at IS NULL`,
		now, bookingID,
	); err != nil {
		return nil, err
	}

	query := `UPDATE rooms SET status = ? WHERE id IN (` + placeholders(len(roomIDs)) + `)`
	args := make([]interface{}, 0, len(roomIDs)+1)
	args = append(args, model.RoomCleaning)
	for _, id := range roomIDs {
		args = append(args, id)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return roomIDs, nil
}

// ActiveByBooking lists the active allocations of one booking.
func (r *RoomAllocationRepo) ActiveByBooking(ctx context.Context, bookingID uint64) ([]model.RoomAllocation, error) {
	const q = `SELECT id, booking_id, room_id, allocated_at, released_at
			   FROM room_allocations
			   WHERE booking_id = ? AND released_at IS NULL`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.RoomAllocation, 0)
	for rows.Next() {
		var a model.RoomAllocation
		var released sql.NullTime
		if err := rows.Scan(&a.ID, &a.BookingID, &a.RoomID, &a.AllocatedAt, &released); err != nil {
			return nil, err
		}
		if released.Valid {
			t := released.Time
			a.ReleasedAt = &t
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// placeholders returns n comma-separated "?" markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
