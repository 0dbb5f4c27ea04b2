package cache

import "errors"

var (
	// ErrRedis возвращается при ошибке обращения к Redis
	ErrRedis = errors.New("cache: redis error")

	// ErrDecode возвращается, когда закешированное значение не удалось разобрать
	ErrDecode = errors.New("cache: failed to decode entry")
)
