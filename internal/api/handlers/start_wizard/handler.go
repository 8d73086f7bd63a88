package start_wizard

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/wizard"
	"github.com/m04kA/SMC-AppointmentService/internal/service/wizard/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "не указан тип записи"
	msgInvalidTimeZone    = "неизвестный часовой пояс"
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

// Handle POST /api/v1/wizard/sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.StartWizardRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /wizard/sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Start(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, wizard.ErrInvalidInput):
			h.logger.Warn("POST /wizard/sessions - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, wizard.ErrInvalidTimeZone):
			h.logger.Warn("POST /wizard/sessions - Invalid time zone: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTimeZone)

		default:
			h.logger.Error("POST /wizard/sessions - Failed to start wizard session: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /wizard/sessions - Wizard session started: session_id=%s", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
