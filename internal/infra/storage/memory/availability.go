package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/internal/infra/storage/availability"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// GetByDateRange получает явные настройки дней артиста за период
func (s *Store) GetByDateRange(ctx context.Context, artistID string, start, end time.Time) ([]*domain.AvailabilityDay, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByDateRange - %v", availability.ErrExecQuery, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	days := make([]*domain.AvailabilityDay, 0)
	for _, date := range types.DaysBetween(start, end) {
		if day, ok := s.availability[keyOf(artistID, date)]; ok {
			days = append(days, cloneDay(day))
		}
	}
	return days, nil
}

// Upsert сохраняет настройки дней, последняя запись побеждает
func (s *Store) Upsert(ctx context.Context, days []*domain.AvailabilityDay) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: Upsert - %v", availability.ErrExecQuery, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, day := range days {
		stored := cloneDay(day)
		stored.Date = types.DateOnly(day.Date)
		stored.UpdatedAt = now
		s.availability[keyOf(day.ArtistID, day.Date)] = stored
	}
	return nil
}

func cloneDay(d *domain.AvailabilityDay) *domain.AvailabilityDay {
	c := *d
	c.OpenSlots = append([]types.TimeString(nil), d.OpenSlots...)
	return &c
}
