package check_slot

import (
	checkSlot "github.com/m04kA/SMC-ArtistBooking/internal/usecase/check_slot"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// CheckSlotResponse HTTP response model
type CheckSlotResponse struct {
	ArtistID  string `json:"artistId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Reason    string `json:"reason"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkSlot.Response) *CheckSlotResponse {
	return &CheckSlotResponse{
		ArtistID:  resp.ArtistID,
		Date:      types.DateKey(resp.Date),
		Time:      resp.Time.String(),
		Available: resp.Available,
		Reason:    string(resp.Reason),
	}
}
