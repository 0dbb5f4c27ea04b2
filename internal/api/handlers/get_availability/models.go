package get_availability

import (
	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ArtistID          string              `json:"artistId"`
	Start             string              `json:"start"`
	End               string              `json:"end"`
	OpenSlotsByDate   map[string][]string `json:"openSlotsByDate"`
	BookedSlotsByDate map[string][]string `json:"bookedSlotsByDate"`
}

// FromDomain конвертирует domain модель в HTTP response
func FromDomain(a *domain.Availability) *AvailabilityResponse {
	return &AvailabilityResponse{
		ArtistID:          a.ArtistID,
		Start:             types.DateKey(a.Start),
		End:               types.DateKey(a.End),
		OpenSlotsByDate:   slotStrings(a.OpenSlotsByDate),
		BookedSlotsByDate: slotStrings(a.BookedSlotsByDate),
	}
}

func slotStrings(byDate map[string][]types.TimeString) map[string][]string {
	out := make(map[string][]string, len(byDate))
	for date, slots := range byDate {
		list := make([]string, 0, len(slots))
		for _, s := range slots {
			list = append(list, s.String())
		}
		out[date] = list
	}
	return out
}
