package catalog

import "errors"

var (
	// ErrCatalogUnavailable - сервис каталога недоступен и кэш пуст
	ErrCatalogUnavailable = errors.New("catalog service unavailable")

	// ErrInternal - внутренняя ошибка сервиса
	ErrInternal = errors.New("service: internal error")
)
