package get_availability

import (
	"time"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// compose собирает модель доступности за период.
// Каждая дата периода присутствует в обеих картах: дни без настроек получают шаблон,
// недоступные дни - пустой список открытых слотов.
func compose(
	artistID string,
	start, end time.Time,
	days []*domain.AvailabilityDay,
	booked map[string][]types.TimeString,
	defaults []types.TimeString,
) *domain.Availability {
	byDate := make(map[string]*domain.AvailabilityDay, len(days))
	for _, d := range days {
		byDate[types.DateKey(d.Date)] = d
	}

	result := &domain.Availability{
		ArtistID:          artistID,
		Start:             types.DateOnly(start),
		End:               types.DateOnly(end),
		OpenSlotsByDate:   make(map[string][]types.TimeString),
		BookedSlotsByDate: make(map[string][]types.TimeString),
	}

	for _, date := range types.DaysBetween(start, end) {
		key := types.DateKey(date)

		// byDate[key] == nil для дней без настроек, Slots вернет шаблон
		result.OpenSlotsByDate[key] = byDate[key].Slots(defaults)

		slots := append([]types.TimeString{}, booked[key]...)
		domain.SortSlots(slots)
		result.BookedSlotsByDate[key] = slots
	}

	return result
}
