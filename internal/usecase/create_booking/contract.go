package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/internal/integrations/artistservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByIdempotencyKey(ctx context.Context, artistID, key string) (*domain.Booking, error)
}

// AvailabilityRepository интерфейс репозитория настроек дней
type AvailabilityRepository interface {
	GetByDateRange(ctx context.Context, artistID string, start, end time.Time) ([]*domain.AvailabilityDay, error)
}

// ArtistDirectory интерфейс клиента каталога артистов
type ArtistDirectory interface {
	GetArtistWithGracefulDegradation(ctx context.Context, artistID string) (*artistservice.Artist, error)
}

// AvailabilityCache интерфейс инвалидации кеша доступности
type AvailabilityCache interface {
	Invalidate(ctx context.Context, artistID string) error
}

// EventPublisher интерфейс публикации событий бронирований
type EventPublisher interface {
	PublishBooking(ctx context.Context, eventType string, booking *domain.Booking) error
}

// Metrics доменные метрики создания
type Metrics interface {
	BookingCreated()
	SlotConflict()
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
