package cache

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
)

// Noop кеш, который ничего не хранит. Используется, когда Redis выключен.
type Noop struct{}

func (Noop) Get(context.Context, string, time.Time, time.Time) (*domain.Availability, int64, error) {
	return nil, 0, nil
}

func (Noop) Set(context.Context, *domain.Availability, int64) error { return nil }

func (Noop) Invalidate(context.Context, string) error { return nil }
