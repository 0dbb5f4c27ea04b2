package create_booking

import (
	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
)

// Request черновик бронирования. Теги json задают имена полей в ошибках валидации.
type Request struct {
	ArtistID    string `json:"artistId" validate:"required,max=64"`
	ClientName  string `json:"clientName" validate:"required,min=2,max=200"`
	ClientEmail string `json:"clientEmail" validate:"required,email,max=254"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"required,datetime=15:04"`
	Service     string `json:"service" validate:"required,max=200"`
	Message     string `json:"message" validate:"required,min=10,max=2000"`

	// IdempotencyKey из заголовка Idempotency-Key, UUID
	IdempotencyKey string `json:"-"`
}

// Response результат создания
type Response struct {
	Booking *domain.Booking
	// Replayed выставлен, когда бронирование уже было создано с тем же ключом
	Replayed bool
}
