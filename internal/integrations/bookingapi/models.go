package bookingapi

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// availabilityResponse ответ GET /artists/{id}/availability
type availabilityResponse struct {
	ArtistID          string              `json:"artistId"`
	Start             string              `json:"start"`
	End               string              `json:"end"`
	OpenSlotsByDate   map[string][]string `json:"openSlotsByDate"`
	BookedSlotsByDate map[string][]string `json:"bookedSlotsByDate"`
}

type dayInput struct {
	Status string   `json:"status"`
	Slots  []string `json:"slots,omitempty"`
}

type setAvailabilityRequest struct {
	Days map[string]dayInput `json:"days"`
}

// SetAvailabilityResult результат обновления доступности
type SetAvailabilityResult struct {
	ArtistID         string   `json:"artistId"`
	UpdatedDates     []string `json:"updatedDates"`
	AffectedBookings int      `json:"affectedBookings"`
}

type checkSlotResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason"`
}

type createBookingRequest struct {
	ArtistID    string `json:"artistId"`
	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Service     string `json:"service"`
	Message     string `json:"message"`
}

type transitionRequest struct {
	Action string `json:"action"`
}

type bookingResponse struct {
	ID          int64     `json:"id"`
	ArtistID    string    `json:"artistId"`
	ClientName  string    `json:"clientName"`
	ClientEmail string    `json:"clientEmail"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Service     string    `json:"service"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type bookingListResponse struct {
	Bookings []bookingResponse `json:"bookings"`
	Counts   struct {
		Pending   int `json:"pending"`
		Confirmed int `json:"confirmed"`
		Completed int `json:"completed"`
		Declined  int `json:"declined"`
		Total     int `json:"total"`
	} `json:"counts"`
}

// BookingList список бронирований со счетчиками по статусам
type BookingList struct {
	Bookings []*domain.Booking
	Counts   domain.StatusCounts
}

// ErrorResponse модель ошибки от сервиса
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (r *availabilityResponse) toDomain() (*domain.Availability, error) {
	start, err := types.ParseDate(r.Start)
	if err != nil {
		return nil, err
	}
	end, err := types.ParseDate(r.End)
	if err != nil {
		return nil, err
	}

	open, err := toSlots(r.OpenSlotsByDate)
	if err != nil {
		return nil, err
	}
	booked, err := toSlots(r.BookedSlotsByDate)
	if err != nil {
		return nil, err
	}

	return &domain.Availability{
		ArtistID:          r.ArtistID,
		Start:             start,
		End:               end,
		OpenSlotsByDate:   open,
		BookedSlotsByDate: booked,
	}, nil
}

func toSlots(byDate map[string][]string) (map[string][]types.TimeString, error) {
	out := make(map[string][]types.TimeString, len(byDate))
	for date, slots := range byDate {
		list := make([]types.TimeString, 0, len(slots))
		for _, s := range slots {
			t, err := types.NewTimeStringFromString(s)
			if err != nil {
				return nil, fmt.Errorf("date %s: %w", date, err)
			}
			list = append(list, t)
		}
		out[date] = list
	}
	return out, nil
}

func (r *bookingResponse) toDomain() (*domain.Booking, error) {
	date, err := types.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	at, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, err
	}
	status, ok := domain.ParseBookingStatus(r.Status)
	if !ok {
		return nil, fmt.Errorf("unknown booking status %q", r.Status)
	}

	return &domain.Booking{
		ID:          r.ID,
		ArtistID:    r.ArtistID,
		ClientName:  r.ClientName,
		ClientEmail: r.ClientEmail,
		Date:        date,
		Time:        at,
		Service:     r.Service,
		Message:     r.Message,
		Status:      status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}
