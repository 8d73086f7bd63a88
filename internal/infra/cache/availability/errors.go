package availability

import "errors"

var (
	// ErrSnapshotNotFound возвращается, когда у сессии нет сохраненного снапшота слотов
	ErrSnapshotNotFound = errors.New("availability.cache: snapshot not found")

	// ErrUnavailable возвращается при недоступности Redis
	ErrUnavailable = errors.New("availability.cache: redis unavailable")

	// ErrInternal возвращается при ошибках сериализации снапшота
	ErrInternal = errors.New("availability.cache: internal error")
)
