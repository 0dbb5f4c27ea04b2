package get_calendar

import (
	"context"

	getAvailability "github.com/m04kA/SMC-ArtistBooking/internal/usecase/get_availability"
)

type CalendarUseCase interface {
	Calendar(ctx context.Context, req *getAvailability.CalendarRequest) (*getAvailability.CalendarResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
