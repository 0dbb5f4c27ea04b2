package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ArtistBooking/pkg/ptr"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

var testDate = time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

func newBooking(artistID, at, email string) *domain.Booking {
	return &domain.Booking{
		ArtistID:    artistID,
		ClientName:  "Client",
		ClientEmail: email,
		Date:        testDate,
		Time:        types.TimeString(at),
		Service:     "Live painting",
		Message:     "Wedding reception live painting",
		Status:      domain.StatusPending,
	}
}

func TestStore_ConcurrentCreateSameSlot(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	const attempts = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Create(ctx, newBooking("artist-1", "10:00", fmt.Sprintf("c%d@example.com", i)))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, booking.ErrSlotTaken):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	booked, err := store.GetBookedSlots(ctx, "artist-1", testDate, testDate)
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"10:00"}, booked["2025-07-15"])
}

func TestStore_DeclineReleasesSlot(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	created, err := store.Create(ctx, newBooking("artist-1", "14:00", "a@example.com"))
	require.NoError(t, err)

	declined, err := store.UpdateStatus(ctx, created.ID, domain.StatusPending, domain.StatusDeclined)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeclined, declined.Status)

	booked, err := store.GetBookedSlots(ctx, "artist-1", testDate, testDate)
	require.NoError(t, err)
	assert.Empty(t, booked)

	_, err = store.Create(ctx, newBooking("artist-1", "14:00", "b@example.com"))
	assert.NoError(t, err)
}

func TestStore_UpdateStatusIsConditional(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	created, err := store.Create(ctx, newBooking("artist-1", "09:00", "a@example.com"))
	require.NoError(t, err)

	_, err = store.UpdateStatus(ctx, created.ID, domain.StatusPending, domain.StatusConfirmed)
	require.NoError(t, err)

	_, err = store.UpdateStatus(ctx, created.ID, domain.StatusPending, domain.StatusDeclined)
	assert.ErrorIs(t, err, booking.ErrStatusChanged)

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
}

func TestStore_IdempotencyKey(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	first := newBooking("artist-1", "09:00", "a@example.com")
	first.IdempotencyKey = ptr.Ptr("key-1")
	created, err := store.Create(ctx, first)
	require.NoError(t, err)

	second := newBooking("artist-1", "10:00", "a@example.com")
	second.IdempotencyKey = ptr.Ptr("key-1")
	_, err = store.Create(ctx, second)
	assert.ErrorIs(t, err, booking.ErrIdempotencyKeyTaken)

	found, err := store.GetByIdempotencyKey(ctx, "artist-1", "key-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = store.GetByIdempotencyKey(ctx, "artist-2", "key-1")
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}

func TestStore_ListOrderAndEmailMatch(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	later := newBooking("artist-1", "15:00", "Client@Example.com")
	earlier := newBooking("artist-1", "09:00", "client@example.com")
	nextDay := newBooking("artist-1", "08:00", "other@example.com")
	nextDay.Date = testDate.AddDate(0, 0, 1)

	for _, b := range []*domain.Booking{later, nextDay, earlier} {
		_, err := store.Create(ctx, b)
		require.NoError(t, err)
	}

	all, err := store.GetByArtistID(ctx, "artist-1")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []types.TimeString{"09:00", "15:00", "08:00"}, []types.TimeString{all[0].Time, all[1].Time, all[2].Time})

	mine, err := store.GetByClientEmail(ctx, " CLIENT@example.com ")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestStore_ReturnsCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	created, err := store.Create(ctx, newBooking("artist-1", "09:00", "a@example.com"))
	require.NoError(t, err)

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	got.Status = domain.StatusDeclined

	again, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, again.Status)
}

func TestStore_Availability(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	err := store.Upsert(ctx, []*domain.AvailabilityDay{
		{ArtistID: "artist-1", Date: testDate, Status: domain.DayAvailable, OpenSlots: []types.TimeString{"09:00", "10:00"}},
		{ArtistID: "artist-1", Date: testDate.AddDate(0, 0, 2), Status: domain.DayUnavailable},
	})
	require.NoError(t, err)

	err = store.Upsert(ctx, []*domain.AvailabilityDay{
		{ArtistID: "artist-1", Date: testDate, Status: domain.DayAvailable, OpenSlots: []types.TimeString{"11:00"}},
	})
	require.NoError(t, err)

	days, err := store.GetByDateRange(ctx, "artist-1", testDate, testDate.AddDate(0, 0, 5))
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, []types.TimeString{"11:00"}, days[0].OpenSlots)
	assert.Equal(t, domain.DayUnavailable, days[1].Status)
}
