package retreat_step

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/wizard"
)

const (
	msgMissingSessionID   = "не указан идентификатор сессии"
	msgSessionNotFound    = "сессия мастера записи не найдена или истекла"
	msgSessionFinished    = "сессия уже завершена"
	msgSubmissionInFlight = "запись уже отправляется, дождитесь результата"
	msgSessionConflict    = "сессия была изменена, обновите страницу и повторите"
)

type Handler struct {
	service WizardService
	logger  Logger
}

func NewHandler(service WizardService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/wizard/sessions/{sessionId}/retreat
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if sessionID == "" {
		h.logger.Warn("POST /wizard/sessions/{sessionId}/retreat - Missing session id")
		handlers.RespondBadRequest(w, msgMissingSessionID)
		return
	}

	result, err := h.service.Retreat(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, wizard.ErrSessionNotFound):
			h.logger.Warn("POST /wizard/sessions/{sessionId}/retreat - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, wizard.ErrSessionFinished):
			h.logger.Warn("POST /wizard/sessions/{sessionId}/retreat - Session finished: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusConflict, msgSessionFinished)

		case errors.Is(err, wizard.ErrSubmissionInFlight):
			h.logger.Warn("POST /wizard/sessions/{sessionId}/retreat - Submission in flight: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusConflict, msgSubmissionInFlight)

		case errors.Is(err, wizard.ErrSessionConflict):
			h.logger.Warn("POST /wizard/sessions/{sessionId}/retreat - Concurrent modification: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusConflict, msgSessionConflict)

		default:
			h.logger.Error("POST /wizard/sessions/{sessionId}/retreat - Failed to retreat session: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /wizard/sessions/{sessionId}/retreat - Step retreated: session_id=%s, step=%d", sessionID, result.CurrentStep)
	handlers.RespondJSON(w, http.StatusOK, result)
}
