package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-reservation/internal/catalog"
)

// AvailabilityRepo is the per-day room inventory ledger.  Each
// (hotel, category, date) triple maps to one Redis counter holding the
// remaining bookable rooms for that night.  Counters are created lazily
// from the category's total room count and are mutated exclusively with
// single INCRBY/DECRBY commands, never with a local read-modify-write,
// so concurrent requests cannot lose updates.
//
// IsAvailable followed by Reserve is NOT atomic as a unit across the
// date range: two requests may both pass the check and both decrement,
// driving a counter negative during a burst on the last rooms.
type AvailabilityRepo struct {
	rdb     *redis.Client
	catalog catalog.Client
}

// NewAvailabilityRepo returns a ledger bound to the given Redis client and
// catalog.  The catalog supplies totalRooms for lazy counter creation.
func NewAvailabilityRepo(rdb *redis.Client, cat catalog.Client) *AvailabilityRepo {
	return &AvailabilityRepo{rdb: rdb, catalog: cat}
}

// key builds the composite counter key, e.g. "availability:3:7:2026-01-10".
func (r *AvailabilityRepo) key(hotelID, categoryID uint64, date time.Time) string {
	return fmt.Sprintf("availability:%d:%d:%s", hotelID, categoryID, date.Format("2006-01-02"))
}

// Initialize ensures the counter for one date exists and returns its
// current value.  On a miss the category's totalRooms is written with
// SETNX so a concurrent initializer can never clobber a live counter.
func (r *AvailabilityRepo) Initialize(ctx context.Context, hotelID, categoryID uint64, date time.Time) (int64, error) {
	k := r.key(hotelID, categoryID, date)

	v, err := r.rdb.Get(ctx, k).Int64()
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("%w: %v", ErrCounterUnavailable, err)
	}

	cat, err := r.catalog.GetCategory(ctx, categoryID)
	if err != nil {
		return 0, err
	}
	if err := r.rdb.SetNX(ctx, k, cat.TotalRooms, 0).Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCounterUnavailable, err)
	}
	// Re-read rather than assuming totalRooms: a concurrent reserve may
	// already have decremented the counter we just created.
	v, err = r.rdb.Get(ctx, k).Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCounterUnavailable, err)
	}
	return v, nil
}

// IsAvailable reports whether every night in [checkIn, checkOut) still has
// at least numberOfRooms remaining.  The check-out date itself is excluded
// because the guest departs that morning.  It short-circuits on the first
// violated night.
func (r *AvailabilityRepo) IsAvailable(ctx context.Context, hotelID, categoryID uint64, checkIn, checkOut time.Time, numberOfRooms int) (bool, error) {
	for date := checkIn; date.Before(checkOut); date = date.AddDate(0, 0, 1) {
		remaining, err := r.Initialize(ctx, hotelID, categoryID, date)
		if err != nil {
			return false, err
		}
		if remaining < int64(numberOfRooms) {
			return false, nil
		}
	}
	return true, nil
}

// Reserve decrements every night in the range by numberOfRooms.  An error
// from the store means the night was NOT reserved; callers must not treat
// a failed reserve as success.
func (r *AvailabilityRepo) Reserve(ctx context.Context, hotelID, categoryID uint64, checkIn, checkOut time.Time, numberOfRooms int) error {
	for date := checkIn; date.Before(checkOut); date = date.AddDate(0, 0, 1) {
		if _, err := r.Initialize(ctx, hotelID, categoryID, date); err != nil {
			return err
		}
		if err := r.rdb.DecrBy(ctx, r.key(hotelID, categoryID, date), int64(numberOfRooms)).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrCounterUnavailable, err)
		}
	}
	return nil
}

// Release increments every night in the range by numberOfRooms.  It is the
// compensation for Reserve and runs on cancellation or when persisting the
// booking fails after the counters were already decremented.
func (r *AvailabilityRepo) Release(ctx context.Context, hotelID, categoryID uint64, checkIn, checkOut time.Time, numberOfRooms int) error {
	for date := checkIn; date.Before(checkOut); date = date.AddDate(0, 0, 1) {
		if _, err := r.Initialize(ctx, hotelID, categoryID, date); err != nil {
			return err
		}
		if err := r.rdb.IncrBy(ctx, r.key(hotelID, categoryID, date), int64(numberOfRooms)).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrCounterUnavailable, err)
		}
	}
	return nil
}

// MinAvailable returns the lowest remaining count over the date range for
// one category.  Used by the public hotel availability summary.
func (r *AvailabilityRepo) MinAvailable(ctx context.Context, hotelID, categoryID uint64, checkIn, checkOut time.Time) (int64, error) {
	var min int64 = -1
	for date := checkIn; date.Before(checkOut); date = date.AddDate(0, 0, 1) {
		remaining, err := r.Initialize(ctx, hotelID, categoryID, date)
		if err != nil {
			return 0, err
		}
		if min < 0 || remaining < min {
			min = remaining
		}
	}
	if min < 0 {
		min = 0
	}
	return min, nil
}
