package advance_step

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("advance_step: wizard session not found")

	// ErrSessionFinished возвращается, когда сессия уже в терминальном статусе
	ErrSessionFinished = errors.New("advance_step: wizard session already finished")

	// ErrSubmissionInFlight возвращается, когда по сессии уже идет отправка записи
	ErrSubmissionInFlight = errors.New("advance_step: booking submission already in flight")

	// ErrSessionConflict возвращается, когда сессия изменена параллельным запросом
	ErrSessionConflict = errors.New("advance_step: wizard session modified concurrently")

	// ErrIncompleteSession возвращается при попытке отправить запись без данных всех шагов
	ErrIncompleteSession = errors.New("advance_step: wizard session draft is incomplete")

	// ErrStaleSlot возвращается, когда выбранный слот отсутствует в последнем
	// снапшоте доступности (снапшот устарел или слот выбран для другой даты)
	ErrStaleSlot = errors.New("advance_step: selected slot is not in the latest availability")

	// ErrCatalogUnavailable возвращается, когда каталог услуг недоступен
	ErrCatalogUnavailable = errors.New("advance_step: catalog service unavailable")

	// ErrSchedulingUnavailable возвращается, когда сервис расписания недоступен
	ErrSchedulingUnavailable = errors.New("advance_step: scheduling service unavailable")

	// ErrBookingRejected возвращается, когда сервис расписания отклонил бронирование
	ErrBookingRejected = errors.New("advance_step: booking rejected by scheduling service")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("advance_step: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("advance_step: internal error")
)

// RejectionError описывает отказ сервиса расписания с причиной для клиента
type RejectionError struct {
	Reason string
}

// Error реализует интерфейс error
func (e *RejectionError) Error() string {
	return "advance_step: booking rejected: " + e.Reason
}

// Unwrap позволяет errors.Is находить ErrBookingRejected
func (e *RejectionError) Unwrap() error {
	return ErrBookingRejected
}
