package cancel_wizard

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

// Handle DELETE /api/v1/wizard/sessions/{sessionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if sessionID == "" {
		h.logger.Warn("DELETE /wizard/sessions/{sessionId} - Missing session id")
		handlers.RespondBadRequest(w, msgMissingSessionID)
		return
	}

	err := h.service.Cancel(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, wizard.ErrSessionNotFound):
			h.logger.Warn("DELETE /wizard/sessions/{sessionId} - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, wizard.ErrSessionFinished):
			h.logger.Warn("DELETE /wizard/sessions/{sessionId} - Session finished: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusConflict, msgSessionFinished)

		case errors.Is(err, wizard.ErrSubmissionInFlight):
			h.logger.Warn("DELETE /wizard/sessions/{sessionId} - Submission in flight: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusConflict, msgSubmissionInFlight)

		default:
			h.logger.Error("DELETE /wizard/sessions/{sessionId} - Failed to cancel session: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /wizard/sessions/{sessionId} - Session cancelled: session_id=%s", sessionID)
	handlers.RespondNoContent(w)
}
