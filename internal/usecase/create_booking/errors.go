package create_booking

import "errors"

var (
	// ErrSlotNotOpen возвращается, когда слот закрыт артистом на эту дату
	ErrSlotNotOpen = errors.New("create_booking: slot is not open")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
