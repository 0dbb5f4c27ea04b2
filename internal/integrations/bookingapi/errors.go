package bookingapi

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("bookingapi client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("bookingapi client: invalid response")

	// ErrUnexpectedStatus возвращается для статусов без доменного соответствия
	ErrUnexpectedStatus = errors.New("bookingapi client: unexpected status")
)
