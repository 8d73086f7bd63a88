package wizard

import "errors"

var (
	// ErrSessionNotFound - сессия не найдена или истекла
	ErrSessionNotFound = errors.New("wizard session not found")

	// ErrSessionFinished - сессия уже в терминальном статусе
	ErrSessionFinished = errors.New("wizard session already finished")

	// ErrSubmissionInFlight - по сессии идет отправка записи
	ErrSubmissionInFlight = errors.New("booking submission in flight")

	// ErrSessionConflict - сессия изменена параллельным запросом
	ErrSessionConflict = errors.New("wizard session modified concurrently")

	// ErrInvalidInput - некорректные входные данные
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTimeZone - неизвестный часовой пояс
	ErrInvalidTimeZone = errors.New("invalid time zone")

	// ErrInternal - внутренняя ошибка сервиса
	ErrInternal = errors.New("service: internal error")
)
