package repository

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/catalog"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// fakeCatalog serves a fixed category so counters can lazily initialize.
type fakeCatalog struct {
	category model.RoomCategory
	hotel    model.Hotel
	err      error
}

func (f *fakeCatalog) GetCategory(ctx context.Context, id uint64) (*model.RoomCategory, error) {
	if f.err != nil {
		return nil, f.err
	}
	c := f.category
	return &c, nil
}

func (f *fakeCatalog) GetCategoriesByHotel(ctx context.Context, hotelID uint64) ([]model.RoomCategory, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []model.RoomCategory{f.category}, nil
}

func (f *fakeCatalog) GetHotel(ctx context.Context, id uint64) (*model.Hotel, error) {
	if f.err != nil {
		return nil, f.err
	}
	h := f.hotel
	return &h, nil
}

func newTestLedger(t *testing.T, totalRooms int) (*AvailabilityRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cat := &fakeCatalog{
		category: model.RoomCategory{ID: 7, HotelID: 3, Name: "Deluxe", TotalRooms: totalRooms, CapacityPerRoom: 2, BasePriceCents: 15000},
		hotel:    model.Hotel{ID: 3, Name: "Grand Plaza"},
	}
	return NewAvailabilityRepo(rdb, cat), mr
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestInitializeLazilyCreatesCounter(t *testing.T) {
	ledger, mr := newTestLedger(t, 10)
	ctx := context.Background()

	v, err := ledger.Initialize(ctx, 3, 7, date("2026-09-01"))
	require.NoError(t, err)
	require.Equal(t, int64(10), v)

	got, err := mr.Get("availability:3:7:2026-09-01")
	require.NoError(t, err)
	require.Equal(t, "10", got)
}

func TestInitializeDoesNotClobberExistingCounter(t *testing.T) {
	ledger, mr := newTestLedger(t, 10)
	ctx := context.Background()

	require.NoError(t, mr.Set("availability:3:7:2026-09-01", "4"))

	v, err := ledger.Initialize(ctx, 3, 7, date("2026-09-01"))
	require.NoError(t, err)
	require.Equal(t, int64(4), v)
}

func TestReserveDecrementsEveryNightButNotCheckout(t *testing.T) {
	ledger, mr := newTestLedger(t, 10)
	ctx := context.Background()

	err := ledger.Reserve(ctx, 3, 7, date("2026-09-01"), date("2026-09-04"), 2)
	require.NoError(t, err)

	for _, d := range []string{"2026-09-01", "2026-09-02", "2026-09-03"} {
		got, err := mr.Get("availability:3:7:" + d)
		require.NoError(t, err)
		require.Equal(t, "8", got, "night %s", d)
	}
	// The departure morning is never consumed.
	require.False(t, mr.Exists("availability:3:7:2026-09-04"))
}

func TestReleaseRestoresReservedNights(t *testing.T) {
	ledger, mr := newTestLedger(t, 10)
	ctx := context.Background()

	require.NoError(t, ledger.Reserve(ctx, 3, 7, date("2026-09-01"), date("2026-09-03"), 3))
	require.NoError(t, ledger.Release(ctx, 3, 7, date("2026-09-01"), date("2026-09-03"), 3))

	for _, d := range []string{"2026-09-01", "2026-09-02"} {
		got, err := mr.Get("availability:3:7:" + d)
		require.NoError(t, err)
		require.Equal(t, "10", got)
	}
}

func TestIsAvailableShortCircuitsOnDepletedNight(t *testing.T) {
	ledger, mr := newTestLedger(t, 10)
	ctx := context.Background()

	// The middle night only has one room left.
	require.NoError(t, mr.Set("availability:3:7:2026-09-02", "1"))

	ok, err := ledger.IsAvailable(ctx, 3, 7, date("2026-09-01"), date("2026-09-04"), 2)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = ledger.IsAvailable(ctx, 3, 7, date("2026-09-01"), date("2026-09-04"), 1)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMinAvailableReturnsLowestNight(t *testing.T) {
	ledger, mr := newTestLedger(t, 10)
	ctx := context.Background()

	require.NoError(t, mr.Set("availability:3:7:2026-09-01", "6"))
	require.NoError(t, mr.Set("availability:3:7:2026-09-02", "2"))

	min, err := ledger.MinAvailable(ctx, 3, 7, date("2026-09-01"), date("2026-09-04"))
	require.NoError(t, err)
	require.Equal(t, int64(2), min)
}

// Two requests that both check before either reserves will both pass and
// both decrement, leaving the counter negative.  The window is accepted:
// the counters themselves never lose an update, and a later release or a
// reconciliation sweep restores them.
func TestCheckThenReserveRaceOversellsLastRoom(t *testing.T) {
	ledger, mr := newTestLedger(t, 1)
	ctx := context.Background()

	in, out := date("2026-09-01"), date("2026-09-02")

	okA, err := ledger.IsAvailable(ctx, 3, 7, in, out, 1)
	require.NoError(t, err)
	okB, err := ledger.IsAvailable(ctx, 3, 7, in, out, 1)
	require.NoError(t, err)
	require.True(t, okA)
	require.True(t, okB)

	require.NoError(t, ledger.Reserve(ctx, 3, 7, in, out, 1))
	require.NoError(t, ledger.Reserve(ctx, 3, 7, in, out, 1))

	got, err := mr.Get("availability:3:7:2026-09-01")
	require.NoError(t, err)
	n, err := strconv.Atoi(got)
	require.NoError(t, err)
	require.Equal(t, -1, n)

	// Once negative, the night reads as unavailable for everyone.
	ok, err := ledger.IsAvailable(ctx, 3, 7, in, out, 1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestInitializePropagatesCatalogError(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ledger := NewAvailabilityRepo(rdb, &fakeCatalog{err: catalog.ErrUnavailable})

	_, err := ledger.Initialize(context.Background(), 3, 7, date("2026-09-01"))
	require.ErrorIs(t, err, catalog.ErrUnavailable)
}
