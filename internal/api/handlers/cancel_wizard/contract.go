package cancel_wizard

import "context"

type WizardService interface {
	Cancel(ctx context.Context, sessionID string) error
}

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
