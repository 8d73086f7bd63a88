package retreat_step

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/wizard/models"
)

type WizardService interface {
	Retreat(ctx context.Context, sessionID string) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
