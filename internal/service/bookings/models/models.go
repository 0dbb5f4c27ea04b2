package models

import (
	"time"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
)

// Request модели

// TransitionRequest решение артиста по бронированию
type TransitionRequest struct {
	BookingID int64
	ArtistID  string // артист из заголовка X-Artist-ID
	Action    string // accept | decline
}

// CompleteRequest запрос на завершение бронирования
type CompleteRequest struct {
	BookingID int64
	ArtistID  string
}

// ListBookingsRequest запрос списка бронирований.
// Указывается ровно один владелец: ArtistID или ClientEmail.
type ListBookingsRequest struct {
	ArtistID    string
	ClientEmail string
	CallerID    string // артист из заголовка X-Artist-ID, обязателен для ArtistID
	Status      string // пусто или "all" - без фильтра
	Query       string
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64     `json:"id"`
	ArtistID    string    `json:"artistId"`
	ClientName  string    `json:"clientName"`
	ClientEmail string    `json:"clientEmail"`
	Date        string    `json:"date"`     // "2025-07-15"
	Time        string    `json:"time"`     // "10:00"
	DateTime    string    `json:"dateTime"` // "2025-07-15T10:00:00", без смещения
	Service     string    `json:"service"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// StatusCounts количество бронирований владельца по статусам
type StatusCounts struct {
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Declined  int `json:"declined"`
	Total     int `json:"total"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Counts   StatusCounts      `json:"counts"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:          b.ID,
		ArtistID:    b.ArtistID,
		ClientName:  b.ClientName,
		ClientEmail: b.ClientEmail,
		Date:        b.Date.Format(domain.DateFormat),
		Time:        b.Time.String(),
		DateTime:    b.DateTime().Format(domain.DateTimeFormat),
		Service:     b.Service,
		Message:     b.Message,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список и счетчики в DTO
func FromDomainBookingList(bookings []*domain.Booking, counts domain.StatusCounts) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
		Counts: StatusCounts{
			Pending:   counts.Pending,
			Confirmed: counts.Confirmed,
			Completed: counts.Completed,
			Declined:  counts.Declined,
			Total:     counts.Total,
		},
	}

	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}

	return resp
}
