package wizard

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// SessionRepository интерфейс репозитория сессий мастера
type SessionRepository interface {
	Create(ctx context.Context, session *domain.WizardSession) (*domain.WizardSession, error)
	GetByID(ctx context.Context, id string) (*domain.WizardSession, error)
	SetStep(ctx context.Context, id string, from, to domain.WizardStep) error
	Cancel(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// AvailabilityCache интерфейс кэша снапшотов доступности
type AvailabilityCache interface {
	Drop(ctx context.Context, sessionID string) error
}

// Metrics интерфейс бизнес-метрик мастера
type Metrics interface {
	WizardSessionEvent(event string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реализация TimeProvider на системных часах
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
