package events

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
)

// NoopPublisher используется, когда Kafka выключена
type NoopPublisher struct{}

func (NoopPublisher) PublishBooking(context.Context, string, *domain.Booking) error { return nil }

func (NoopPublisher) PublishAvailability(context.Context, string, []time.Time) error { return nil }

func (NoopPublisher) Close() error { return nil }
