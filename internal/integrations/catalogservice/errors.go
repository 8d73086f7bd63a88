package catalogservice

import "errors"

var (
	// ErrUnavailable возвращается, когда каталог услуг недоступен (сеть, таймаут, 5xx)
	ErrUnavailable = errors.New("catalogservice client: service unavailable")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("catalogservice client: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalogservice client: internal error")
)
