package advance_step

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	wizardmodels "github.com/m04kA/SMC-AppointmentService/internal/service/wizard/models"
	advanceStep "github.com/m04kA/SMC-AppointmentService/internal/usecase/advance_step"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgMissingSessionID      = "не указан идентификатор сессии"
	msgValidationFailed      = "проверьте правильность заполнения полей"
	msgInvalidInput          = "отсутствуют данные текущего шага"
	msgSessionNotFound       = "сессия мастера записи не найдена или истекла"
	msgSessionFinished       = "сессия уже завершена"
	msgSubmissionInFlight    = "запись уже отправляется, дождитесь результата"
	msgSessionConflict       = "сессия была изменена, обновите страницу и повторите"
	msgIncompleteSession     = "заполнены не все шаги мастера"
	msgStaleSlot             = "выбранное время устарело, обновите список слотов"
	msgCatalogUnavailable    = "каталог услуг временно недоступен"
	msgSchedulingUnavailable = "сервис записи временно недоступен, попробуйте позже"
)

type Handler struct {
	useCase AdvanceStepUseCase
	logger  Logger
}

func NewHandler(useCase AdvanceStepUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/wizard/sessions/{sessionId}/advance
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if sessionID == "" {
		h.logger.Warn("POST /wizard/sessions/{sessionId}/advance - Missing session id")
		handlers.RespondBadRequest(w, msgMissingSessionID)
		return
	}

	var req AdvanceStepRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /wizard/sessions/{sessionId}/advance - Invalid request body: session_id=%s, error=%v", sessionID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(sessionID))
	if err != nil {
		var validationErr *domain.ValidationError
		var rejectionErr *advanceStep.RejectionError

		switch {
		case errors.As(err, &validationErr):
			h.logger.Warn("POST /wizard/sessions/{sessionId}/advance - Validation failed: session_id=%s, error=%v", sessionID, err)
			handlers.RespondValidationError(w, msgValidationFailed, validationErr.Fields)

		case errors.Is(err, advanceStep.ErrInvalidInput):
			h.logger.Warn("POST /wizard/sessions/{sessionId}/advance - Invalid input: session_id=%s, error=%v", sessionID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, advanceStep.ErrSessionNotFound):
			h.logger.Warn("POST /wizard/sessions/{sessionId}/advance - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, advanceStep.ErrSessionFinished):
			h.logger.Warn("POST /wizard/sessions/{sessionId}/advance - Session finished: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusConflict, msgSessionFinished)

		case errors.Is(err, advanceStep.ErrSubmissionInFlight):
			h.logger.Warn("POST /wizard/sessions/{sessionId}/advance - Submission in flight: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusConflict, msgSubmissionInFlight)

		case errors.Is(err, advanceStep.ErrSessionConflict):
			h.logger.Warn("POST /wizard/sessions/{sessionId}/advance - Concurrent modification: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusConflict, msgSessionConflict)

		case errors.Is(err, advanceStep.ErrIncompleteSession):
			h.logger.Warn("POST /wizard/sessions/{sessionId}/advance - Incomplete session: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusConflict, msgIncompleteSession)

		case errors.Is(err, advanceStep.ErrStaleSlot):
			h.logger.Warn("POST /wizard/sessions/{sessionId}/advance - Stale slot: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusConflict, msgStaleSlot)

		case errors.As(err, &rejectionErr):
			h.logger.Warn("POST /wizard/sessions/{sessionId}/advance - Booking rejected: session_id=%s, reason=%s", sessionID, rejectionErr.Reason)
			handlers.RespondError(w, http.StatusConflict, rejectionErr.Reason)

		case errors.Is(err, advanceStep.ErrCatalogUnavailable):
			h.logger.Warn("POST /wizard/sessions/{sessionId}/advance - Catalog unavailable: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgCatalogUnavailable)

		case errors.Is(err, advanceStep.ErrSchedulingUnavailable):
			h.logger.Warn("POST /wizard/sessions/{sessionId}/advance - Scheduling unavailable: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgSchedulingUnavailable)

		default:
			h.logger.Error("POST /wizard/sessions/{sessionId}/advance - Failed to advance session: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	session := result.Session
	h.logger.Info("POST /wizard/sessions/{sessionId}/advance - Step confirmed: session_id=%s, step=%d, status=%s",
		sessionID, session.CurrentStep, session.Status)
	handlers.RespondJSON(w, http.StatusOK, wizardmodels.FromDomainSession(session))
}
