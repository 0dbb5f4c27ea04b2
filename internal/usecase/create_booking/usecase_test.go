package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/internal/infra/events"
	"github.com/m04kA/SMC-ArtistBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ArtistBooking/internal/integrations/artistservice"
	"github.com/m04kA/SMC-ArtistBooking/pkg/logger"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) PublishBooking(_ context.Context, eventType string, _ *domain.Booking) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

type recordingCache struct {
	mu          sync.Mutex
	invalidated int
}

func (c *recordingCache) Invalidate(context.Context, string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	return errors.New("redis is down")
}

type counters struct {
	mu        sync.Mutex
	created   int
	conflicts int
}

func (c *counters) BookingCreated() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.created++
}

func (c *counters) SlotConflict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conflicts++
}

type fakeArtists struct {
	artist *artistservice.Artist
	err    error
}

func (f fakeArtists) GetArtistWithGracefulDegradation(context.Context, string) (*artistservice.Artist, error) {
	return f.artist, f.err
}

type fixture struct {
	store     *memory.Store
	publisher *recordingPublisher
	cache     *recordingCache
	metrics   *counters
	uc        *UseCase
}

// now - 2025-07-10 12:00 UTC
func newFixture(artists ArtistDirectory) *fixture {
	f := &fixture{
		store:     memory.NewStore(),
		publisher: &recordingPublisher{},
		cache:     &recordingCache{},
		metrics:   &counters{},
	}
	f.uc = NewUseCase(f.store, f.store, artists, f.cache, f.publisher, f.metrics, memory.TxManager{},
		nil, time.UTC, logger.Discard()).
		WithTimeProvider(fixedTime{now: time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)})
	return f
}

func validRequest() *Request {
	return &Request{
		ArtistID:    "artist-1",
		ClientName:  "Ada Lovelace",
		ClientEmail: "ada@example.com",
		Date:        "2025-07-15",
		Time:        "14:00",
		Service:     "Portrait",
		Message:     "Looking for a portrait session",
	}
}

func TestExecute_CreatesPendingBooking(t *testing.T) {
	f := newFixture(nil)

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.False(t, resp.Replayed)
	assert.Equal(t, domain.StatusPending, resp.Booking.Status)
	assert.Equal(t, "2025-07-15T14:00:00", resp.Booking.DateTime().Format(domain.DateTimeFormat))
	assert.Equal(t, []string{events.TypeBookingCreated}, f.publisher.events)
	assert.Equal(t, 1, f.cache.invalidated, "cache errors must not fail the request")
	assert.Equal(t, 1, f.metrics.created)

	booked, err := f.store.GetBookedSlots(context.Background(), "artist-1", resp.Booking.Date, resp.Booking.Date)
	require.NoError(t, err)
	assert.Contains(t, booked["2025-07-15"], resp.Booking.Time)
}

func TestExecute_ReportsAllInvalidFields(t *testing.T) {
	f := newFixture(nil)

	_, err := f.uc.Execute(context.Background(), &Request{
		ArtistID:    "artist-1",
		ClientName:  " A ",
		ClientEmail: "not-an-email",
		Date:        "2025-07-09",
		Time:        "10:00",
		Service:     "Portrait",
		Message:     "too short",
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Len(t, verr.Fields, 4)
	assert.Contains(t, verr.Fields, "clientName")
	assert.Contains(t, verr.Fields, "clientEmail")
	assert.Contains(t, verr.Fields, "message")
	assert.Contains(t, verr.Fields, "dateTime")

	all, err := f.store.GetByArtistID(context.Background(), "artist-1")
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, f.publisher.events)
}

func TestExecute_EmptyDraft(t *testing.T) {
	f := newFixture(nil)

	_, err := f.uc.Execute(context.Background(), &Request{})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"artistId", "clientName", "clientEmail", "date", "time", "service", "message"} {
		assert.Contains(t, verr.Fields, field)
	}
}

func TestExecute_MalformedDateAndTime(t *testing.T) {
	f := newFixture(nil)
	req := validRequest()
	req.Date = "15/07/2025"
	req.Time = "2pm"

	_, err := f.uc.Execute(context.Background(), req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "date must be in YYYY-MM-DD format", verr.Fields["date"])
	assert.Equal(t, "time must be in HH:MM format", verr.Fields["time"])
	assert.NotContains(t, verr.Fields, "dateTime")
}

func TestExecute_SlotNotOpen(t *testing.T) {
	f := newFixture(nil)
	require.NoError(t, f.store.Upsert(context.Background(), []*domain.AvailabilityDay{
		{ArtistID: "artist-1", Date: time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), Status: domain.DayUnavailable},
	}))

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, domain.ErrSlotConflict)
	assert.ErrorIs(t, err, ErrSlotNotOpen)
	assert.Equal(t, 1, f.metrics.conflicts)
}

func TestExecute_DoubleBookingRace(t *testing.T) {
	f := newFixture(nil)
	const clients = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), validRequest())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrSlotConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, clients-1, conflicts)
	assert.Equal(t, clients-1, f.metrics.conflicts)
}

func TestExecute_IdempotencyKeyReplay(t *testing.T) {
	f := newFixture(nil)
	req := validRequest()
	req.IdempotencyKey = "5f0c7a9e-2d3b-4c1a-9e8f-0a1b2c3d4e5f"

	first, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.Booking.ID, second.Booking.ID)
	assert.Len(t, f.publisher.events, 1)
}

func TestExecute_ConcurrentSameIdempotencyKey(t *testing.T) {
	f := newFixture(nil)
	req := validRequest()
	req.IdempotencyKey = "5f0c7a9e-2d3b-4c1a-9e8f-0a1b2c3d4e5f"

	ids := make([]int64, 8)
	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := f.uc.Execute(context.Background(), req)
			if assert.NoError(t, err) {
				ids[i] = resp.Booking.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, 1, f.metrics.created)
}

func TestExecute_InvalidIdempotencyKey(t *testing.T) {
	f := newFixture(nil)
	req := validRequest()
	req.IdempotencyKey = "retry-1"

	_, err := f.uc.Execute(context.Background(), req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "idempotencyKey")
}

func TestExecute_ArtistDirectory(t *testing.T) {
	tests := []struct {
		name    string
		artists fakeArtists
		wantErr bool
	}{
		{"found", fakeArtists{artist: &artistservice.Artist{ID: "artist-1", Bookable: true}}, false},
		{"not found", fakeArtists{err: artistservice.ErrArtistNotFound}, true},
		{"not bookable", fakeArtists{artist: &artistservice.Artist{ID: "artist-1"}}, true},
		{"degraded", fakeArtists{err: artistservice.ErrServiceDegraded}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.artists)

			_, err := f.uc.Execute(context.Background(), validRequest())

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, "artistId")
		})
	}
}
