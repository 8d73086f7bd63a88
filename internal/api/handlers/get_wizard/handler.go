package get_wizard

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/wizard"
)

const (
	msgMissingSessionID = "не указан идентификатор сессии"
	msgSessionNotFound  = "сессия мастера записи не найдена или истекла"
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

// Handle GET /api/v1/wizard/sessions/{sessionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if sessionID == "" {
		h.logger.Warn("GET /wizard/sessions/{sessionId} - Missing session id")
		handlers.RespondBadRequest(w, msgMissingSessionID)
		return
	}

	result, err := h.service.Get(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, wizard.ErrSessionNotFound):
			h.logger.Warn("GET /wizard/sessions/{sessionId} - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		default:
			h.logger.Error("GET /wizard/sessions/{sessionId} - Failed to get session: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /wizard/sessions/{sessionId} - Session returned: session_id=%s, step=%d", sessionID, result.CurrentStep)
	handlers.RespondJSON(w, http.StatusOK, result)
}
