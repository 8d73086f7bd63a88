package get_time_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	getTimeSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_time_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

const (
	msgMissingSessionID      = "не указан идентификатор сессии"
	msgInvalidDate           = "дата не указана или указана в неверном формате, ожидается YYYY-MM-DD"
	msgInvalidTimeZone       = "неизвестный часовой пояс"
	msgSessionNotFound       = "сессия мастера записи не найдена или истекла"
	msgSessionFinished       = "сессия уже завершена"
	msgSubmissionInFlight    = "запись уже отправляется, дождитесь результата"
	msgWrongStep             = "слоты доступны только на шаге выбора даты и времени"
	msgSessionConflict       = "сессия была изменена, обновите страницу и повторите"
	msgSchedulingUnavailable = "сервис записи временно недоступен, попробуйте позже"
)

type Handler struct {
	useCase GetTimeSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetTimeSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/wizard/sessions/{sessionId}/slots?date=2026-03-12&timeZone=Europe/Moscow
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if sessionID == "" {
		h.logger.Warn("GET /wizard/sessions/{sessionId}/slots - Missing session id")
		handlers.RespondBadRequest(w, msgMissingSessionID)
		return
	}

	req := &getTimeSlots.Request{
		SessionID: sessionID,
		Date:      r.URL.Query().Get("date"),
	}
	if timeZone := r.URL.Query().Get("timeZone"); timeZone != "" {
		req.TimeZone = ptr.Ptr(timeZone)
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getTimeSlots.ErrInvalidInput):
			h.logger.Warn("GET /wizard/sessions/{sessionId}/slots - Invalid input: session_id=%s, error=%v", sessionID, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getTimeSlots.ErrInvalidTimeZone):
			h.logger.Warn("GET /wizard/sessions/{sessionId}/slots - Invalid time zone: session_id=%s, error=%v", sessionID, err)
			handlers.RespondBadRequest(w, msgInvalidTimeZone)

		case errors.Is(err, getTimeSlots.ErrSessionNotFound):
			h.logger.Warn("GET /wizard/sessions/{sessionId}/slots - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, getTimeSlots.ErrSessionFinished):
			h.logger.Warn("GET /wizard/sessions/{sessionId}/slots - Session finished: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusConflict, msgSessionFinished)

		case errors.Is(err, getTimeSlots.ErrSubmissionInFlight):
			h.logger.Warn("GET /wizard/sessions/{sessionId}/slots - Submission in flight: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusConflict, msgSubmissionInFlight)

		case errors.Is(err, getTimeSlots.ErrWrongStep):
			h.logger.Warn("GET /wizard/sessions/{sessionId}/slots - Wrong step: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusConflict, msgWrongStep)

		case errors.Is(err, getTimeSlots.ErrSessionConflict):
			h.logger.Warn("GET /wizard/sessions/{sessionId}/slots - Concurrent modification: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusConflict, msgSessionConflict)

		case errors.Is(err, getTimeSlots.ErrSchedulingUnavailable):
			h.logger.Warn("GET /wizard/sessions/{sessionId}/slots - Scheduling unavailable: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgSchedulingUnavailable)

		default:
			h.logger.Error("GET /wizard/sessions/{sessionId}/slots - Failed to get slots: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /wizard/sessions/{sessionId}/slots - Slots returned: session_id=%s, date=%s, count=%d",
		sessionID, req.Date, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
