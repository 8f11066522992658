package service

import (
	"context"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// RoomStore is the physical room contract the room service depends on.
// Implemented by repository.RoomRepo.
type RoomStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
	UpdateStatus(ctx context.Context, id uint64, status model.RoomStatus) error
	ListAvailable(ctx context.Context, hotelID, categoryID uint64, limit int) ([]model.Room, error)
}

// RoomService handles manual room status transitions and room suggestions
// for walk-in guests.  Check-in and check-out drive room status through
// the allocation ledger instead and never go through here.
type RoomService struct {
	rooms RoomStore
}

// NewRoomService constructs a RoomService.
func NewRoomService(rooms RoomStore) *RoomService {
	return &RoomService{rooms: rooms}
}

// manualTransitions enumerates the staff-driven status changes.  OCCUPIED
// is owned by the allocation ledger and can neither be entered nor left
// manually, and AVAILABLE is only reachable from CLEANING.
var manualTransitions = map[model.RoomStatus][]model.RoomStatus{
	model.RoomAvailable:    {model.RoomMaintenance, model.RoomOutOfService},
	model.RoomCleaning:     {model.RoomAvailable, model.RoomMaintenance, model.RoomOutOfService},
	model.RoomMaintenance:  {model.RoomOutOfService},
	model.RoomOutOfService: {model.RoomMaintenance},
}

// UpdateRoomStatus applies one manual status transition after checking the
// requester may perform it.  Marking a room AVAILABLE takes reception or
// above, sending it to MAINTENANCE takes a manager, and OUT_OF_SERVICE is
// admin only.
func (s *RoomService) UpdateRoomStatus(ctx context.Context, roomID uint64, target model.RoomStatus, role model.Role) (*model.Room, error) {
	if !target.IsValid() {
		return nil, ErrInvalidRoomTransition
	}
	switch target {
	case model.RoomAvailable:
		if !role.CanMarkRoomAvailable() {
			return nil, ErrUnauthorized
		}
	case model.RoomMaintenance:
		if !role.CanSendToMaintenance() {
			return nil, ErrUnauthorized
		}
	case model.RoomOutOfService:
		if !role.CanDecommissionRoom() {
			return nil, ErrUnauthorized
		}
	default:
		// OCCUPIED and CLEANING are reached through check-in and
		// check-out only.
		return nil, ErrInvalidRoomTransition
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(room.Status, target) {
		return nil, ErrInvalidRoomTransition
	}
	if err := s.rooms.UpdateStatus(ctx, room.ID, target); err != nil {
		return nil, err
	}
	room.Status = target
	return room, nil
}

// SuggestRooms lists up to limit AVAILABLE rooms of a category, lowest
// room number first, for assigning walk-in guests.  Staff only.
func (s *RoomService) SuggestRooms(ctx context.Context, hotelID, categoryID uint64, limit int, role model.Role) ([]model.Room, error) {
	if !role.IsStaff() {
		return nil, ErrUnauthorized
	}
	if limit <= 0 {
		limit = 5
	}
	return s.rooms.ListAvailable(ctx, hotelID, categoryID, limit)
}

func transitionAllowed(from, to model.RoomStatus) bool {
	for _, allowed := range manualTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
