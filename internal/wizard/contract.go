package wizard

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// BookingCreator создает бронирование. bookingapi.Client удовлетворяет интерфейсу.
type BookingCreator interface {
	CreateBooking(ctx context.Context, draft *domain.BookingDraft) (*domain.Booking, error)
}

// SlotChecker рекомендательная проверка свободы слота перед отправкой.
// bookingapi.Client удовлетворяет интерфейсу.
type SlotChecker interface {
	CheckSlot(ctx context.Context, artistID string, date time.Time, at types.TimeString) (bool, error)
}
