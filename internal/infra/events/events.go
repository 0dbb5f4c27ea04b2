package events

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// Типы событий жизненного цикла бронирования
const (
	TypeBookingCreated      = "booking.created"
	TypeBookingConfirmed    = "booking.confirmed"
	TypeBookingDeclined     = "booking.declined"
	TypeBookingCompleted    = "booking.completed"
	TypeAvailabilityUpdated = "availability.updated"
)

// TypeForStatus возвращает тип события, соответствующий новому статусу
func TypeForStatus(status domain.BookingStatus) string {
	switch status {
	case domain.StatusConfirmed:
		return TypeBookingConfirmed
	case domain.StatusDeclined:
		return TypeBookingDeclined
	case domain.StatusCompleted:
		return TypeBookingCompleted
	default:
		return TypeBookingCreated
	}
}

// BookingPayload тело события бронирования
type BookingPayload struct {
	BookingID   int64  `json:"bookingId"`
	ArtistID    string `json:"artistId"`
	ClientEmail string `json:"clientEmail"`
	DateTime    string `json:"dateTime"`
	Service     string `json:"service"`
	Status      string `json:"status"`
	OccurredAt  string `json:"occurredAt"`
}

// AvailabilityPayload тело события изменения доступности
type AvailabilityPayload struct {
	ArtistID   string   `json:"artistId"`
	Dates      []string `json:"dates"`
	OccurredAt string   `json:"occurredAt"`
}

func bookingPayload(b *domain.Booking, at time.Time) ([]byte, error) {
	return json.Marshal(BookingPayload{
		BookingID:   b.ID,
		ArtistID:    b.ArtistID,
		ClientEmail: b.ClientEmail,
		DateTime:    b.DateTime().Format(domain.DateTimeFormat),
		Service:     b.Service,
		Status:      string(b.Status),
		OccurredAt:  at.UTC().Format(time.RFC3339),
	})
}

func availabilityPayload(artistID string, dates []time.Time, at time.Time) ([]byte, error) {
	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = types.DateKey(d)
	}
	return json.Marshal(AvailabilityPayload{
		ArtistID:   artistID,
		Dates:      keys,
		OccurredAt: at.UTC().Format(time.RFC3339),
	})
}

func bookingKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
