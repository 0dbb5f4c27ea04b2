package get_availability

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ArtistBooking/internal/calendar"
	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ArtistBooking/pkg/logger"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type mapCache struct {
	entries  map[string]*domain.Availability
	versions map[string]int64
	sets     int
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string]*domain.Availability{}, versions: map[string]int64{}}
}

func (c *mapCache) key(artistID string, version int64, start, end time.Time) string {
	return fmt.Sprintf("%s|v%d|%s|%s", artistID, version, types.DateKey(start), types.DateKey(end))
}

func (c *mapCache) Get(_ context.Context, artistID string, start, end time.Time) (*domain.Availability, int64, error) {
	version := c.versions[artistID]
	return c.entries[c.key(artistID, version, start, end)], version, nil
}

func (c *mapCache) Set(_ context.Context, a *domain.Availability, version int64) error {
	c.sets++
	c.entries[c.key(a.ArtistID, version, a.Start, a.End)] = a
	return nil
}

func (c *mapCache) Invalidate(artistID string) { c.versions[artistID]++ }

// racingBookings выполняет afterRead один раз сразу после чтения занятых слотов
type racingBookings struct {
	*memory.Store
	afterRead func()
}

func (r *racingBookings) GetBookedSlots(ctx context.Context, artistID string, start, end time.Time) (map[string][]types.TimeString, error) {
	booked, err := r.Store.GetBookedSlots(ctx, artistID, start, end)
	if r.afterRead != nil {
		hook := r.afterRead
		r.afterRead = nil
		hook()
	}
	return booked, err
}

type brokenCache struct{ sets int }

func (c *brokenCache) Get(context.Context, string, time.Time, time.Time) (*domain.Availability, int64, error) {
	return nil, 0, errors.New("redis: connection refused")
}

func (c *brokenCache) Set(context.Context, *domain.Availability, int64) error {
	c.sets++
	return nil
}

type lookups struct{ results []string }

func (l *lookups) CacheLookup(result string) { l.results = append(l.results, result) }

type failingRepo struct{}

func (failingRepo) GetByDateRange(context.Context, string, time.Time, time.Time) ([]*domain.AvailabilityDay, error) {
	return nil, errors.New("connection refused")
}

func day(d int) time.Time { return time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC) }

func newUseCase(store *memory.Store, c AvailabilityCache, m Metrics) *UseCase {
	return NewUseCase(store, store, c, memory.TxManager{}, m, Config{}, logger.Discard()).
		WithTimeProvider(fixedTime{now: time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)})
}

func seedBooking(t *testing.T, store *memory.Store, d int, at string, status domain.BookingStatus) {
	t.Helper()
	_, err := store.Create(context.Background(), &domain.Booking{
		ArtistID:    "artist-1",
		ClientName:  "Client",
		ClientEmail: "client@example.com",
		Date:        day(d),
		Time:        types.TimeString(at),
		Service:     "Portrait",
		Message:     "A detailed request message",
		Status:      status,
	})
	require.NoError(t, err)
}

func TestExecute_FillsEveryDate(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Upsert(context.Background(), []*domain.AvailabilityDay{
		{ArtistID: "artist-1", Date: day(16), Status: domain.DayUnavailable},
		{ArtistID: "artist-1", Date: day(17), Status: domain.DayAvailable,
			OpenSlots: []types.TimeString{"10:00", "11:00"}},
	}))
	seedBooking(t, store, 15, "14:00", domain.StatusPending)
	seedBooking(t, store, 15, "09:00", domain.StatusConfirmed)
	seedBooking(t, store, 15, "10:00", domain.StatusDeclined)

	uc := newUseCase(store, newMapCache(), &lookups{})

	got, err := uc.Execute(context.Background(), &Request{ArtistID: "artist-1", Start: day(15), End: day(17)})
	require.NoError(t, err)

	assert.Len(t, got.OpenSlotsByDate, 3)
	assert.Len(t, got.BookedSlotsByDate, 3)
	assert.Equal(t, domain.DefaultSlots(), got.OpenSlotsByDate["2025-07-15"])
	assert.Empty(t, got.OpenSlotsByDate["2025-07-16"])
	assert.NotNil(t, got.OpenSlotsByDate["2025-07-16"])
	assert.Equal(t, []types.TimeString{"10:00", "11:00"}, got.OpenSlotsByDate["2025-07-17"])
	assert.Equal(t, []types.TimeString{"09:00", "14:00"}, got.BookedSlotsByDate["2025-07-15"])
	assert.Empty(t, got.BookedSlotsByDate["2025-07-17"])
	assert.False(t, got.Degraded)
}

func TestExecute_CachesResult(t *testing.T) {
	store := memory.NewStore()
	c := newMapCache()
	m := &lookups{}
	uc := newUseCase(store, c, m)
	req := &Request{ArtistID: "artist-1", Start: day(15), End: day(15)}

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{cacheMiss, cacheHit}, m.results)
	assert.Equal(t, 1, c.sets)
}

func TestExecute_InvalidateDuringReadDropsStaleWrite(t *testing.T) {
	store := memory.NewStore()
	c := newMapCache()
	m := &lookups{}
	bookings := &racingBookings{Store: store}
	uc := NewUseCase(store, bookings, c, memory.TxManager{}, m, Config{}, logger.Discard())
	req := &Request{ArtistID: "artist-1", Start: day(15), End: day(15)}

	// Бронь коммитится и инвалидирует кеш после того, как запрос прочитал занятые слоты
	bookings.afterRead = func() {
		seedBooking(t, store, 15, "14:00", domain.StatusPending)
		c.Invalidate("artist-1")
	}

	stale, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, stale.BookedSlotsByDate["2025-07-15"])

	fresh, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{cacheMiss, cacheMiss}, m.results)
	assert.Equal(t, []types.TimeString{"14:00"}, fresh.BookedSlotsByDate["2025-07-15"])
}

func TestExecute_CacheReadErrorSkipsWrite(t *testing.T) {
	c := &brokenCache{}
	m := &lookups{}
	uc := newUseCase(memory.NewStore(), c, m)

	got, err := uc.Execute(context.Background(), &Request{ArtistID: "artist-1", Start: day(15), End: day(15)})

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, []string{cacheError}, m.results)
	assert.Zero(t, c.sets)
}

func TestExecute_Validation(t *testing.T) {
	uc := newUseCase(memory.NewStore(), newMapCache(), &lookups{})

	tests := []struct {
		name  string
		req   *Request
		field string
	}{
		{"end before start", &Request{ArtistID: "artist-1", Start: day(15), End: day(14)}, "end"},
		{"range too long", &Request{ArtistID: "artist-1", Start: day(1), End: day(1).AddDate(0, 0, 92)}, "end"},
		{"missing artist", &Request{Start: day(1), End: day(2)}, "artistId"},
		{"missing start", &Request{ArtistID: "artist-1", End: day(2)}, "start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestExecute_MaxRangeIsInclusive(t *testing.T) {
	uc := newUseCase(memory.NewStore(), newMapCache(), &lookups{})

	got, err := uc.Execute(context.Background(), &Request{
		ArtistID: "artist-1", Start: day(1), End: day(1).AddDate(0, 0, domain.DefaultMaxRangeDays-1),
	})

	require.NoError(t, err)
	assert.Len(t, got.OpenSlotsByDate, domain.DefaultMaxRangeDays)
}

func TestExecute_StoreUnavailable(t *testing.T) {
	store := memory.NewStore()
	uc := NewUseCase(failingRepo{}, store, newMapCache(), memory.TxManager{}, &lookups{}, Config{}, logger.Discard())

	_, err := uc.Execute(context.Background(), &Request{ArtistID: "artist-1", Start: day(15), End: day(15)})

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestCalendar_MonthView(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Upsert(context.Background(), []*domain.AvailabilityDay{
		{ArtistID: "artist-1", Date: day(16), Status: domain.DayUnavailable},
	}))
	seedBooking(t, store, 15, "14:00", domain.StatusPending)
	uc := newUseCase(store, newMapCache(), &lookups{})

	resp, err := uc.Calendar(context.Background(), &CalendarRequest{
		ArtistID: "artist-1", View: calendar.ViewMonth, Anchor: day(15),
	})
	require.NoError(t, err)

	require.Len(t, resp.Cells, 35)
	assert.Equal(t, day(10), resp.AsOf)

	byDate := make(map[string]calendar.Cell, len(resp.Cells))
	for _, c := range resp.Cells {
		byDate[types.DateKey(c.Date)] = c
	}
	assert.Equal(t, calendar.StatusPast, byDate["2025-07-09"].Status)
	assert.Equal(t, calendar.StatusPartiallyBooked, byDate["2025-07-15"].Status)
	assert.Equal(t, len(domain.DefaultSlotTokens)-1, byDate["2025-07-15"].AvailableCount)
	assert.True(t, byDate["2025-07-16"].Closed)
	assert.False(t, byDate["2025-07-16"].Selectable())
	assert.Equal(t, calendar.StatusAvailable, byDate["2025-07-17"].Status)
}

func TestCalendar_DefaultAnchorUsesWallClock(t *testing.T) {
	// 22:30 UTC 10 июля - уже 11 июля в UTC+3
	zone := time.FixedZone("UTC+3", 3*60*60)
	uc := NewUseCase(memory.NewStore(), memory.NewStore(), newMapCache(), memory.TxManager{}, &lookups{},
		Config{Location: zone}, logger.Discard()).
		WithTimeProvider(fixedTime{now: time.Date(2025, 7, 10, 22, 30, 0, 0, time.UTC)})

	resp, err := uc.Calendar(context.Background(), &CalendarRequest{ArtistID: "artist-1", View: calendar.ViewDay})
	require.NoError(t, err)

	assert.Equal(t, day(11), resp.AsOf)
	assert.Equal(t, day(11), resp.Anchor)
	require.Len(t, resp.Cells, 1)
	assert.Equal(t, day(11), resp.Cells[0].Date)
	assert.Equal(t, calendar.StatusAvailable, resp.Cells[0].Status)
}
