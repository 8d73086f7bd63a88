package get_time_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/schedulingservice"
)

// SessionRepository интерфейс репозитория сессий мастера
type SessionRepository interface {
	GetByID(ctx context.Context, id string) (*domain.WizardSession, error)
	UpdateTimeZone(ctx context.Context, id string, timeZone string) error
}

// AvailabilityCache интерфейс кэша снапшотов доступности
type AvailabilityCache interface {
	NextSeq(ctx context.Context, sessionID string) (int64, error)
	Save(ctx context.Context, sessionID string, snapshot *domain.AvailabilitySnapshot) (bool, error)
}

// SchedulingServiceClient интерфейс клиента сервиса расписания
type SchedulingServiceClient interface {
	GetTimeSlots(ctx context.Context, query schedulingservice.SlotsQuery) (*schedulingservice.SlotsResult, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
