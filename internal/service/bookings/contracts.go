package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByArtistID(ctx context.Context, artistID string) ([]*domain.Booking, error)
	GetByClientEmail(ctx context.Context, email string) ([]*domain.Booking, error)
	GetElapsedConfirmed(ctx context.Context, upTo time.Time) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (*domain.Booking, error)
}

// AvailabilityCache инвалидация кеша доступности после изменения бронирований
type AvailabilityCache interface {
	Invalidate(ctx context.Context, artistID string) error
}

// EventPublisher издатель событий жизненного цикла
type EventPublisher interface {
	PublishBooking(ctx context.Context, eventType string, b *domain.Booking) error
}

// Metrics доменные метрики сервиса
type Metrics interface {
	BookingTransition(from, to string)
	BookingsCompleted(n int)
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
