package service

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/catalog"
)

// AvailabilityCounter reads the per-day counters.  Implemented by
// repository.AvailabilityRepo.
type AvailabilityCounter interface {
	MinAvailable(ctx context.Context, hotelID, categoryID uint64, checkIn, checkOut time.Time) (int64, error)
}

// CategoryAvailability is one row of a hotel availability summary.
type CategoryAvailability struct {
	CategoryID     uint64 `json:"category_id"`
	CategoryName   string `json:"category_name"`
	BasePriceCents int64  `json:"base_price_cents"`
	AvailableRooms int64  `json:"available_rooms"`
}

// AvailabilityService produces per-category availability summaries for a
// hotel and date range by combining the catalog's category list with the
// counter ledger.
type AvailabilityService struct {
	counters AvailabilityCounter
	catalog  catalog.Client
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(counters AvailabilityCounter, cat catalog.Client) *AvailabilityService {
	return &AvailabilityService{counters: counters, catalog: cat}
}

// HotelAvailability returns, for each category of the hotel, the minimum
// number of rooms free across every night of [checkIn, checkOut).  The
// minimum over the range is what a guest could actually book for the
// whole stay.
func (s *AvailabilityService) HotelAvailability(ctx context.Context, hotelID uint64, checkIn, checkOut time.Time) ([]CategoryAvailability, error) {
	if !checkIn.Before(checkOut) {
		return nil, ErrInvalidDateRange
	}
	categories, err := s.catalog.GetCategoriesByHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	summary := make([]CategoryAvailability, 0, len(categories))
	for _, cat := range categories {
		free, err := s.counters.MinAvailable(ctx, hotelID, cat.ID, checkIn, checkOut)
		if err != nil {
			return nil, err
		}
		if free < 0 {
			free = 0
		}
		summary = append(summary, CategoryAvailability{
			CategoryID:     cat.ID,
			CategoryName:   cat.Name,
			BasePriceCents: cat.BasePriceCents,
			AvailableRooms: free,
		})
	}
	return summary, nil
}
