package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotTaken возвращается, когда слот уже занят активным бронированием (нарушение частичного уникального индекса)
	ErrSlotTaken = errors.New("booking.repository: slot already taken")

	// ErrIdempotencyKeyTaken возвращается, когда ключ идемпотентности уже использован этим артистом
	ErrIdempotencyKeyTaken = errors.New("booking.repository: idempotency key already used")

	// ErrStatusChanged возвращается, когда статус бронирования изменился до условного обновления
	ErrStatusChanged = errors.New("booking.repository: booking status changed concurrently")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
