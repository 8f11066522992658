package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/catalog"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

// AvailabilityHandler exposes the public per-category availability
// summary.  This endpoint is unauthenticated and sits behind the
// response cache.
type AvailabilityHandler struct {
	availability *service.AvailabilityService
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(availability *service.AvailabilityService) *AvailabilityHandler {
	if availability == nil {
		panic("nil service passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{availability: availability}
}

// HotelSummary handles GET /v1/hotels/:id/availability?check_in=&check_out=.
func (h *AvailabilityHandler) HotelSummary(c echo.Context) error {
	hotelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || hotelID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	checkIn, err := parseDate(c.QueryParam("check_in"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in date"})
	}
	checkOut, err := parseDate(c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out date"})
	}

	summary, err := h.availability.HotelAvailability(c.Request().Context(), hotelID, checkIn, checkOut)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{
			"hotel_id":   hotelID,
			"check_in":   checkIn.Format("2006-01-02"),
			"check_out":  checkOut.Format("2006-01-02"),
			"categories": summary,
		})
	case errors.Is(err, service.ErrInvalidDateRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check-out must be after check-in"})
	case errors.Is(err, catalog.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "catalog service unavailable"})
	case errors.Is(err, repository.ErrCounterUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "availability store unavailable"})
	default:
		c.Logger().Errorf("availability: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
