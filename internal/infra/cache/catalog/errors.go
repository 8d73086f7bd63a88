package catalog

import "errors"

var (
	// ErrCacheMiss возвращается, когда каталога нет в кэше
	ErrCacheMiss = errors.New("catalog.cache: cache miss")

	// ErrUnavailable возвращается при недоступности Redis
	ErrUnavailable = errors.New("catalog.cache: redis unavailable")

	// ErrInternal возвращается при ошибках сериализации каталога
	ErrInternal = errors.New("catalog.cache: internal error")
)
