package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/catalog"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

// BookingHandler exposes the booking lifecycle over HTTP.  All methods
// assume the identity middleware already ran; authorization itself is
// enforced in the service layer so the rules live in one place.
type BookingHandler struct {
	bookings *service.BookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	if bookings == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{bookings: bookings}
}

// bookingResponse is the wire shape of a reservation.
type bookingResponse struct {
	ID               uint64 `json:"id"`
	BookingReference string `json:"booking_reference"`
	GuestEmail       string `json:"guest_email"`
	GuestName        string `json:"guest_name"`
	NumberOfGuests   int    `json:"number_of_guests"`
	NumberOfRooms    int    `json:"number_of_rooms"`
	HotelID          uint64 `json:"hotel_id"`
	CategoryID       uint64 `json:"category_id"`
	CheckInDate      string `json:"check_in_date"`
	CheckOutDate     string `json:"check_out_date"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	Status           string `json:"status"`
	PaymentStatus    string `json:"payment_status"`
}

func toBookingResponse(res *model.Reservation) bookingResponse {
	return bookingResponse{
		ID:               res.ID,
		BookingReference: res.BookingReference,
		GuestEmail:       res.GuestEmail,
		GuestName:        res.GuestName,
		NumberOfGuests:   res.NumberOfGuests,
		NumberOfRooms:    res.NumberOfRooms,
		HotelID:          res.HotelID,
		CategoryID:       res.CategoryID,
		CheckInDate:      res.CheckInDate.Format("2006-01-02"),
		CheckOutDate:     res.CheckOutDate.Format("2006-01-02"),
		TotalAmountCents: res.TotalAmountCents,
		Status:           string(res.Status),
		PaymentStatus:    string(res.PaymentStatus),
	}
}

// Create handles POST /v1/bookings.  Guests book a number of rooms of one
// category for a date range; the response carries the generated booking
// reference and the computed total amount.
func (h *BookingHandler) Create(c echo.Context) error {
	var body struct {
		HotelID        uint64 `json:"hotel_id"`
		CategoryID     uint64 `json:"category_id"`
		CheckInDate    string `json:"check_in_date"`
		CheckOutDate   string `json:"check_out_date"`
		GuestName      string `json:"guest_name"`
		NumberOfGuests int    `json:"number_of_guests"`
		NumberOfRooms  int    `json:"number_of_rooms"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.HotelID == 0 || body.CategoryID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hotel_id and category_id are required"})
	}
	if body.NumberOfGuests < 1 || body.NumberOfRooms < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number_of_guests and number_of_rooms must be positive"})
	}
	checkIn, err := parseDate(body.CheckInDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in_date"})
	}
	checkOut, err := parseDate(body.CheckOutDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out_date"})
	}

	res, err := h.bookings.CreateBooking(c.Request().Context(), service.CreateBookingInput{
		HotelID:        body.HotelID,
		CategoryID:     body.CategoryID,
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		GuestName:      body.GuestName,
		NumberOfGuests: body.NumberOfGuests,
		NumberOfRooms:  body.NumberOfRooms,
	}, middleware.RequesterEmail(c), middleware.RequesterRole(c))
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResponse(res))
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := bookingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	res, err := h.bookings.GetBooking(c.Request().Context(), id, middleware.RequesterEmail(c), middleware.RequesterRole(c))
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(res))
}

// List handles GET /v1/bookings and returns the caller's own bookings.
func (h *BookingHandler) List(c echo.Context) error {
	list, err := h.bookings.ListBookings(c.Request().Context(), middleware.RequesterEmail(c))
	if err != nil {
		return bookingError(c, err)
	}
	out := make([]bookingResponse, 0, len(list))
	for i := range list {
		out = append(out, toBookingResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Confirm handles PUT /v1/bookings/:id/confirm.
func (h *BookingHandler) Confirm(c echo.Context) error {
	id, err := bookingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	res, err := h.bookings.ConfirmBooking(c.Request().Context(), id, middleware.RequesterRole(c))
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(res))
}

// Cancel handles DELETE /v1/bookings/:id.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := bookingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.bookings.CancelBooking(c.Request().Context(), id, middleware.RequesterEmail(c), middleware.RequesterRole(c)); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Pay handles PUT /v1/bookings/:id/pay.
func (h *BookingHandler) Pay(c echo.Context) error {
	id, err := bookingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.bookings.PayBooking(c.Request().Context(), id, middleware.RequesterEmail(c), middleware.RequesterRole(c)); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "PAID"})
}

// CheckIn handles PUT /v1/bookings/:id/check-in.
func (h *BookingHandler) CheckIn(c echo.Context) error {
	id, err := bookingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.bookings.CheckIn(c.Request().Context(), id, middleware.RequesterRole(c)); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "CHECKED_IN"})
}

// CheckOut handles PUT /v1/bookings/:id/check-out.
func (h *BookingHandler) CheckOut(c echo.Context) error {
	id, err := bookingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.bookings.CheckOut(c.Request().Context(), id, middleware.RequesterRole(c)); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "CHECKED_OUT"})
}

func bookingID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// bookingError maps service errors onto HTTP status codes.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, catalog.ErrCategoryNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room category not found"})
	case errors.Is(err, service.ErrInvalidDateRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check-out must be after check-in"})
	case errors.Is(err, service.ErrInvalidGuestCount):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "too many guests for the requested rooms"})
	case errors.Is(err, service.ErrRoomNotAvailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "not enough rooms available for these dates"})
	case errors.Is(err, service.ErrInvalidReservationState):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not in a state allowing this operation"})
	case errors.Is(err, service.ErrAlreadyPaid):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is already paid"})
	case errors.Is(err, repository.ErrAlreadyAllocated):
		return c.JSON(http.StatusConflict, echo.Map{"error": "rooms already allocated for this booking"})
	case errors.Is(err, repository.ErrInsufficientRooms):
		return c.JSON(http.StatusConflict, echo.Map{"error": "not enough physical rooms free for check-in"})
	case errors.Is(err, catalog.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "catalog service unavailable"})
	case errors.Is(err, repository.ErrCounterUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "availability store unavailable"})
	default:
		c.Logger().Errorf("booking: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
