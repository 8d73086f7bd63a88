package advance_step

import (
	"context"

	advanceStep "github.com/m04kA/SMC-AppointmentService/internal/usecase/advance_step"
)

type AdvanceStepUseCase interface {
	Execute(ctx context.Context, req *advanceStep.Request) (*advanceStep.Response, error)
}

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
