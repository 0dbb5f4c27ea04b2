package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// AvailabilityRepository интерфейс репозитория настроек дней
type AvailabilityRepository interface {
	GetByDateRange(ctx context.Context, artistID string, start, end time.Time) ([]*domain.AvailabilityDay, error)
}

// BookingRepository интерфейс чтения занятых слотов
type BookingRepository interface {
	GetBookedSlots(ctx context.Context, artistID string, start, end time.Time) (map[string][]types.TimeString, error)
}

// AvailabilityCache кеш чтений доступности
type AvailabilityCache interface {
	Get(ctx context.Context, artistID string, start, end time.Time) (*domain.Availability, int64, error)
	Set(ctx context.Context, a *domain.Availability, version int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics метрики кеша
type Metrics interface {
	CacheLookup(result string)
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
