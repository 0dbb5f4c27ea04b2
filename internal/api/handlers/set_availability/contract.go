package set_availability

import (
	"context"

	"github.com/m04kA/SMC-ArtistBooking/internal/service/availability/models"
)

type AvailabilityService interface {
	SetAvailability(ctx context.Context, req *models.SetAvailabilityRequest) (*models.SetAvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
