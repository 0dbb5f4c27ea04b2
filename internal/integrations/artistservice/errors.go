package artistservice

import "errors"

var (
	// ErrArtistNotFound возвращается, когда артист не зарегистрирован в каталоге
	ErrArtistNotFound = errors.New("artist not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("artistservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("artistservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что каталог артистов недоступен и проверку существования следует пропустить
	ErrServiceDegraded = errors.New("artistservice unavailable: graceful degradation applied")
)
