package bookings

import (
	"sort"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
)

// BuildDirectory строит проекцию бронирований владельца: фильтр по статусу и тексту,
// сортировка по дате, времени и ID, счетчики по статусам.
// Счетчики считаются по всему набору владельца без учета фильтров.
func BuildDirectory(all []*domain.Booking, status *domain.BookingStatus, query string) ([]*domain.Booking, domain.StatusCounts) {
	var counts domain.StatusCounts
	filtered := make([]*domain.Booking, 0, len(all))

	for _, b := range all {
		counts.Add(b.Status)

		if status != nil && b.Status != *status {
			continue
		}
		if !b.Matches(query) {
			continue
		}
		filtered = append(filtered, b)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if c := a.Time.Compare(b.Time); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})

	return filtered, counts
}
