package set_availability

import (
	"github.com/m04kA/SMC-ArtistBooking/internal/service/availability/models"
)

// SetAvailabilityRequest HTTP request model
//
//	{"days": {"2025-07-15": {"status": "available", "slots": ["10:00", "11:00"]}}}
type SetAvailabilityRequest struct {
	Days map[string]models.DayInput `json:"days"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *SetAvailabilityRequest) ToServiceRequest(artistID, callerID string) *models.SetAvailabilityRequest {
	return &models.SetAvailabilityRequest{
		ArtistID: artistID,
		CallerID: callerID,
		Days:     r.Days,
	}
}
