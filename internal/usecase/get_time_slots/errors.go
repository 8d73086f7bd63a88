package get_time_slots

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("get_time_slots: wizard session not found")

	// ErrSessionFinished возвращается, когда сессия уже в терминальном статусе
	ErrSessionFinished = errors.New("get_time_slots: wizard session already finished")

	// ErrSubmissionInFlight возвращается, когда по сессии идет отправка записи
	ErrSubmissionInFlight = errors.New("get_time_slots: booking submission in flight")

	// ErrWrongStep возвращается, когда слоты запрошены не на шаге выбора времени
	ErrWrongStep = errors.New("get_time_slots: slots are available on the date/time step only")

	// ErrSessionConflict возвращается, когда сессия изменена параллельным запросом
	ErrSessionConflict = errors.New("get_time_slots: wizard session modified concurrently")

	// ErrInvalidTimeZone возвращается при неизвестном часовом поясе
	ErrInvalidTimeZone = errors.New("get_time_slots: invalid time zone")

	// ErrSchedulingUnavailable возвращается, когда сервис расписания недоступен
	ErrSchedulingUnavailable = errors.New("get_time_slots: scheduling service unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_time_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_time_slots: internal error")
)
