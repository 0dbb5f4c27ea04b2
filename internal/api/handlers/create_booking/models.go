package create_booking

import (
	createBooking "github.com/m04kA/SMC-ArtistBooking/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ArtistID    string `json:"artistId"`
	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail"`
	Date        string `json:"date"` // "2025-07-15"
	Time        string `json:"time"` // "10:00"
	Service     string `json:"service"`
	Message     string `json:"message"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Разбор даты и времени выполняет use case, чтобы все ошибки полей вернулись вместе.
func (r *CreateBookingRequest) ToUseCaseRequest(idempotencyKey string) *createBooking.Request {
	return &createBooking.Request{
		ArtistID:       r.ArtistID,
		ClientName:     r.ClientName,
		ClientEmail:    r.ClientEmail,
		Date:           r.Date,
		Time:           r.Time,
		Service:        r.Service,
		Message:        r.Message,
		IdempotencyKey: idempotencyKey,
	}
}
