// Package catalog talks to the external hotel catalog service which owns
// hotels, room categories and their pricing.  The booking core only ever
// reads from it.  Calls go through a circuit breaker so that a struggling
// catalog fails fast instead of stalling the whole booking path.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ErrUnavailable is returned when the catalog cannot be reached or the
// breaker is open.  Handlers map it to 503.
var ErrUnavailable = errors.New("hotel catalog unavailable")

// ErrCategoryNotFound is returned when the referenced category does not
// exist in the catalog.
var ErrCategoryNotFound = errors.New("room category not found")

// Client is the read interface the booking core needs from the catalog.
type Client interface {
	// GetCategory returns the category snapshot (capacity, total rooms,
	// nightly base price) for the given category ID.
	GetCategory(ctx context.Context, categoryID uint64) (*model.RoomCategory, error)
	// GetCategoriesByHotel lists all categories of one hotel.
	GetCategoriesByHotel(ctx context.Context, hotelID uint64) ([]model.RoomCategory, error)
	// GetHotel returns the hotel snapshot, used to enrich event payloads.
	GetHotel(ctx context.Context, hotelID uint64) (*model.Hotel, error)
}

// HTTPClient implements Client against the catalog's REST API.  Both
// operations share one circuit breaker: when the catalog keeps failing the
// breaker opens and calls return ErrUnavailable immediately.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewHTTPClient builds a catalog client for the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "hotel-catalog",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
		breaker: cb,
	}
}

// GetCategory fetches a single room category by ID.
func (c *HTTPClient) GetCategory(ctx context.Context, categoryID uint64) (*model.RoomCategory, error) {
	url := fmt.Sprintf("%s/internal/categories/%d", c.baseURL, categoryID)
	out, err := c.breaker.Execute(func() (interface{}, error) {
		var cat model.RoomCategory
		if err := c.getJSON(ctx, url, &cat); err != nil {
			return nil, err
		}
		return &cat, nil
	})
	if err != nil {
		return nil, mapBreakerErr(err)
	}
	return out.(*model.RoomCategory), nil
}

// GetCategoriesByHotel fetches all categories offered by a hotel.
func (c *HTTPClient) GetCategoriesByHotel(ctx context.Context, hotelID uint64) ([]model.RoomCategory, error) {
	url := fmt.Sprintf("%s/internal/hotels/%d/categories", c.baseURL, hotelID)
	out, err := c.breaker.Execute(func() (interface{}, error) {
		var cats []model.RoomCategory
		if err := c.getJSON(ctx, url, &cats); err != nil {
			return nil, err
		}
		return cats, nil
	})
	if err != nil {
		return nil, mapBreakerErr(err)
	}
	return out.([]model.RoomCategory), nil
}

// GetHotel fetches the hotel snapshot by ID.
func (c *HTTPClient) GetHotel(ctx context.Context, hotelID uint64) (*model.Hotel, error) {
	url := fmt.Sprintf("%s/internal/hotels/%d", c.baseURL, hotelID)
	out, err := c.breaker.Execute(func() (interface{}, error) {
		var h model.Hotel
		if err := c.getJSON(ctx, url, &h); err != nil {
			return nil, err
		}
		return &h, nil
	})
	if err != nil {
		return nil, mapBreakerErr(err)
	}
	return out.(*model.Hotel), nil
}

// getJSON performs a GET and decodes the JSON body into dst.  A 404 is
// reported as ErrCategoryNotFound so it does not count as a breaker
// failure worth tripping on; other non-200 codes become generic errors.
func (c *HTTPClient) getJSON(ctx context.Context, url string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrCategoryNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// mapBreakerErr normalises breaker and transport failures to ErrUnavailable
// while letting not-found pass through untouched.
func mapBreakerErr(err error) error {
	if errors.Is(err, ErrCategoryNotFound) {
		return err
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: circuit open", ErrUnavailable)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
