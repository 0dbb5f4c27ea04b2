package transition_booking

import (
	"github.com/m04kA/SMC-ArtistBooking/internal/service/bookings/models"
)

// TransitionRequest HTTP request model
type TransitionRequest struct {
	Action string `json:"action"` // accept | decline
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *TransitionRequest) ToServiceRequest(bookingID int64, artistID string) *models.TransitionRequest {
	return &models.TransitionRequest{
		BookingID: bookingID,
		ArtistID:  artistID,
		Action:    r.Action,
	}
}
