package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

// RoomHandler exposes manual room status changes and walk-in room
// suggestions to staff.
type RoomHandler struct {
	rooms *service.RoomService
}

// NewRoomHandler constructs a RoomHandler.
func NewRoomHandler(rooms *service.RoomService) *RoomHandler {
	if rooms == nil {
		panic("nil service passed to NewRoomHandler")
	}
	return &RoomHandler{rooms: rooms}
}

type roomResponse struct {
	ID         uint64 `json:"id"`
	HotelID    uint64 `json:"hotel_id"`
	CategoryID uint64 `json:"category_id"`
	RoomNumber string `json:"room_number"`
	Status     string `json:"status"`
}

func toRoomResponse(r *model.Room) roomResponse {
	return roomResponse{
		ID:         r.ID,
		HotelID:    r.HotelID,
		CategoryID: r.CategoryID,
		RoomNumber: r.RoomNumber,
		Status:     string(r.Status),
	}
}

// UpdateStatus handles PUT /v1/rooms/:id/status.  The body names the
// target status; which transitions are legal for which role is decided
// by the room service.
func (h *RoomHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	room, err := h.rooms.UpdateRoomStatus(c.Request().Context(), id, model.RoomStatus(body.Status), middleware.RequesterRole(c))
	if err != nil {
		return roomError(c, err)
	}
	return c.JSON(http.StatusOK, toRoomResponse(room))
}

// Suggest handles GET /v1/rooms/suggest?hotel_id=&category_id=&limit=.
// It lists free rooms of a category for assigning walk-in guests.
func (h *RoomHandler) Suggest(c echo.Context) error {
	hotelID, err := strconv.ParseUint(c.QueryParam("hotel_id"), 10, 64)
	if err != nil || hotelID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel_id"})
	}
	categoryID, err := strconv.ParseUint(c.QueryParam("category_id"), 10, 64)
	if err != nil || categoryID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category_id"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	rooms, err := h.rooms.SuggestRooms(c.Request().Context(), hotelID, categoryID, limit, middleware.RequesterRole(c))
	if err != nil {
		return roomError(c, err)
	}
	out := make([]roomResponse, 0, len(rooms))
	for i := range rooms {
		out = append(out, toRoomResponse(&rooms[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func roomError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrRoomNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	case errors.Is(err, service.ErrInvalidRoomTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "status transition not allowed"})
	default:
		c.Logger().Errorf("room: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
