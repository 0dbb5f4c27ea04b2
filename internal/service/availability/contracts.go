package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// AvailabilityRepository интерфейс репозитория настроек дней
type AvailabilityRepository interface {
	Upsert(ctx context.Context, days []*domain.AvailabilityDay) error
}

// BookingRepository чтение занятых слотов для предупреждения о затронутых бронированиях
type BookingRepository interface {
	GetBookedSlots(ctx context.Context, artistID string, start, end time.Time) (map[string][]types.TimeString, error)
}

// AvailabilityCache инвалидация кеша доступности
type AvailabilityCache interface {
	Invalidate(ctx context.Context, artistID string) error
}

// EventPublisher издатель событий доступности
type EventPublisher interface {
	PublishAvailability(ctx context.Context, artistID string, dates []time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
