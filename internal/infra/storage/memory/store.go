package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

type dayKey struct {
	artistID string
	date     string
}

func keyOf(artistID string, date time.Time) dayKey {
	return dayKey{artistID: artistID, date: types.DateKey(date)}
}

// Store хранилище бронирований и доступности в памяти.
// Используется как dev-бэкенд (storage.driver = memory) и в тестах.
// Методы повторяют контракты Postgres-репозиториев и возвращают те же ошибки.
type Store struct {
	mu sync.RWMutex

	nextID       int64
	bookings     map[int64]*domain.Booking
	byDay        map[dayKey][]int64
	booked       map[dayKey]map[types.TimeString]int64 // материализованный индекс занятых слотов
	idempotency  map[string]int64
	availability map[dayKey]*domain.AvailabilityDay

	now func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		bookings:     make(map[int64]*domain.Booking),
		byDay:        make(map[dayKey][]int64),
		booked:       make(map[dayKey]map[types.TimeString]int64),
		idempotency:  make(map[string]int64),
		availability: make(map[dayKey]*domain.AvailabilityDay),
		now:          time.Now,
	}
}

// Create атомарно проверяет слот и сохраняет бронирование
func (s *Store) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: Create - %v", booking.ErrExecQuery, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := keyOf(b.ArtistID, b.Date)

	if b.IdempotencyKey != nil {
		if _, ok := s.idempotency[idempotencyKey(b.ArtistID, *b.IdempotencyKey)]; ok {
			return nil, fmt.Errorf("%w: Create - artist=%s", booking.ErrIdempotencyKeyTaken, b.ArtistID)
		}
	}

	if b.Status.ReservesSlot() {
		if holder, taken := s.booked[k][b.Time]; taken {
			return nil, fmt.Errorf("%w: Create - artist=%s date=%s time=%s held by id=%d",
				booking.ErrSlotTaken, b.ArtistID, k.date, b.Time, holder)
		}
	}

	s.nextID++
	now := s.now()

	stored := clone(b)
	stored.ID = s.nextID
	stored.Date = types.DateOnly(b.Date)
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.bookings[stored.ID] = stored
	s.byDay[k] = append(s.byDay[k], stored.ID)
	if stored.IdempotencyKey != nil {
		s.idempotency[idempotencyKey(stored.ArtistID, *stored.IdempotencyKey)] = stored.ID
	}
	s.reindex(k)

	b.ID = stored.ID
	b.CreatedAt = stored.CreatedAt
	b.UpdatedAt = stored.UpdatedAt

	return b, nil
}

// GetByID получает бронирование по ID
func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	return clone(b), nil
}

// GetByIdempotencyKey получает бронирование артиста по ключу идемпотентности
func (s *Store) GetByIdempotencyKey(ctx context.Context, artistID, key string) (*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.idempotency[idempotencyKey(artistID, key)]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	return clone(s.bookings[id]), nil
}

// GetByArtistID получает все бронирования артиста
func (s *Store) GetByArtistID(ctx context.Context, artistID string) ([]*domain.Booking, error) {
	return s.filter(func(b *domain.Booking) bool { return b.ArtistID == artistID }), nil
}

// GetByClientEmail получает все бронирования клиента, email без учета регистра
func (s *Store) GetByClientEmail(ctx context.Context, email string) ([]*domain.Booking, error) {
	email = strings.TrimSpace(email)
	return s.filter(func(b *domain.Booking) bool { return strings.EqualFold(b.ClientEmail, email) }), nil
}

// GetElapsedConfirmed получает подтвержденные бронирования с датой не позже upTo
func (s *Store) GetElapsedConfirmed(ctx context.Context, upTo time.Time) ([]*domain.Booking, error) {
	upTo = types.DateOnly(upTo)
	return s.filter(func(b *domain.Booking) bool {
		return b.Status == domain.StatusConfirmed && !b.Date.After(upTo)
	}), nil
}

// GetBookedSlots читает материализованный индекс занятых слотов за период
func (s *Store) GetBookedSlots(ctx context.Context, artistID string, start, end time.Time) (map[string][]types.TimeString, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBookedSlots - %v", booking.ErrExecQuery, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string][]types.TimeString)
	for _, day := range types.DaysBetween(start, end) {
		slots := s.booked[keyOf(artistID, day)]
		if len(slots) == 0 {
			continue
		}
		list := make([]types.TimeString, 0, len(slots))
		for t := range slots {
			list = append(list, t)
		}
		domain.SortSlots(list)
		result[types.DateKey(day)] = list
	}
	return result, nil
}

// UpdateStatus условно меняет статус, если текущий равен from
func (s *Store) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok || b.Status != from {
		return nil, fmt.Errorf("%w: UpdateStatus - id=%d expected status %s", booking.ErrStatusChanged, id, from)
	}

	k := keyOf(b.ArtistID, b.Date)
	if !from.ReservesSlot() && to.ReservesSlot() {
		if _, taken := s.booked[k][b.Time]; taken {
			return nil, fmt.Errorf("%w: UpdateStatus - id=%d", booking.ErrSlotTaken, id)
		}
	}

	b.Status = to
	b.UpdatedAt = s.now()
	s.reindex(k)

	return clone(b), nil
}

// reindex пересчитывает занятые слоты дня по активным бронированиям. Вызывается под s.mu.
func (s *Store) reindex(k dayKey) {
	index := make(map[types.TimeString]int64)
	for _, id := range s.byDay[k] {
		b := s.bookings[id]
		if b.IsActive() {
			index[b.Time] = b.ID
		}
	}
	if len(index) == 0 {
		delete(s.booked, k)
		return
	}
	s.booked[k] = index
}

func (s *Store) filter(match func(b *domain.Booking) bool) []*domain.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if match(b) {
			result = append(result, clone(b))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if c := a.Time.Compare(b.Time); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
	return result
}

func idempotencyKey(artistID, key string) string {
	return artistID + "|" + key
}

func clone(b *domain.Booking) *domain.Booking {
	c := *b
	if b.IdempotencyKey != nil {
		key := *b.IdempotencyKey
		c.IdempotencyKey = &key
	}
	return &c
}
