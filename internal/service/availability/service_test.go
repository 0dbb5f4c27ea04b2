package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/internal/infra/cache"
	"github.com/m04kA/SMC-ArtistBooking/internal/infra/events"
	"github.com/m04kA/SMC-ArtistBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ArtistBooking/internal/service/availability/models"
	"github.com/m04kA/SMC-ArtistBooking/pkg/logger"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

type failingRepo struct{}

func (failingRepo) Upsert(context.Context, []*domain.AvailabilityDay) error {
	return errors.New("connection refused")
}

func newService(store *memory.Store) *Service {
	return NewService(store, store, cache.Noop{}, events.NoopPublisher{}, memory.TxManager{}, logger.Discard())
}

func TestSetAvailability(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)
	ctx := context.Background()

	resp, err := svc.SetAvailability(ctx, &models.SetAvailabilityRequest{
		ArtistID: "artist-1",
		CallerID: "artist-1",
		Days: map[string]models.DayInput{
			"2025-07-16": {Status: "unavailable"},
			"2025-07-15": {Status: "available", Slots: []string{"10:00", "09:00", "10:00"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-07-15", "2025-07-16"}, resp.UpdatedDates)

	days, err := store.GetByDateRange(ctx, "artist-1",
		time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, []types.TimeString{"09:00", "10:00"}, days[0].OpenSlots)
	assert.Equal(t, domain.DayUnavailable, days[1].Status)
}

func TestSetAvailability_ReportsAffectedBookings(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)
	ctx := context.Background()

	_, err := store.Create(ctx, &domain.Booking{
		ArtistID: "artist-1",
		Date:     time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC),
		Time:     "14:00",
		Status:   domain.StatusPending,
	})
	require.NoError(t, err)

	resp, err := svc.SetAvailability(ctx, &models.SetAvailabilityRequest{
		ArtistID: "artist-1",
		CallerID: "artist-1",
		Days:     map[string]models.DayInput{"2025-07-16": {Status: "unavailable"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.AffectedBookings)

	// Бронирование не отменяется
	booked, err := store.GetBookedSlots(ctx, "artist-1",
		time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC), time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"14:00"}, booked["2025-07-16"])
}

func TestSetAvailability_Validation(t *testing.T) {
	svc := newService(memory.NewStore())

	_, err := svc.SetAvailability(context.Background(), &models.SetAvailabilityRequest{
		ArtistID: "artist-1",
		CallerID: "artist-1",
		Days: map[string]models.DayInput{
			"15-07-2025": {Status: "available"},
			"2025-07-16": {Status: "busy"},
			"2025-07-17": {Status: "available", Slots: []string{"9am"}},
			"2025-07-18": {Status: "unavailable", Slots: []string{"09:00"}},
			"2025-07-19": {Status: "available"},
		},
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 4)
	assert.Contains(t, verr.Fields, "days.15-07-2025")
	assert.Contains(t, verr.Fields, "days.2025-07-18")
}

func TestSetAvailability_Forbidden(t *testing.T) {
	svc := newService(memory.NewStore())

	_, err := svc.SetAvailability(context.Background(), &models.SetAvailabilityRequest{
		ArtistID: "artist-1",
		CallerID: "artist-2",
		Days:     map[string]models.DayInput{"2025-07-15": {Status: "available"}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSetAvailability_StoreUnavailable(t *testing.T) {
	svc := NewService(failingRepo{}, memory.NewStore(), cache.Noop{}, events.NoopPublisher{}, memory.TxManager{}, logger.Discard())

	_, err := svc.SetAvailability(context.Background(), &models.SetAvailabilityRequest{
		ArtistID: "artist-1",
		CallerID: "artist-1",
		Days:     map[string]models.DayInput{"2025-07-15": {Status: "available"}},
	})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
