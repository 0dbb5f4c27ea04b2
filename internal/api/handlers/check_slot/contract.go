package check_slot

import (
	"context"

	checkSlot "github.com/m04kA/SMC-ArtistBooking/internal/usecase/check_slot"
)

type CheckSlotUseCase interface {
	Execute(ctx context.Context, req *checkSlot.Request) (*checkSlot.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
