package advance_step

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/schedulingservice"
)

// SessionRepository интерфейс репозитория сессий мастера
type SessionRepository interface {
	GetByID(ctx context.Context, id string) (*domain.WizardSession, error)
	UpdateDraft(ctx context.Context, session *domain.WizardSession, expectedStep domain.WizardStep) error
	MarkSubmitting(ctx context.Context, id string, schedule *domain.Schedule) error
	Confirm(ctx context.Context, id string, confirmation *domain.Confirmation) error
	RecordSubmissionFailure(ctx context.Context, id string, message string) error
}

// CatalogProvider интерфейс каталога услуг
type CatalogProvider interface {
	ListEnabled(ctx context.Context) ([]domain.Service, error)
}

// AvailabilityCache интерфейс кэша снапшотов доступности
type AvailabilityCache interface {
	Get(ctx context.Context, sessionID string) (*domain.AvailabilitySnapshot, error)
}

// SchedulingServiceClient интерфейс клиента сервиса расписания
type SchedulingServiceClient interface {
	CreateBooking(ctx context.Context, req *schedulingservice.BookingRequest) (*schedulingservice.BookingConfirmation, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс бизнес-метрик мастера
type Metrics interface {
	WizardSessionEvent(event string)
	BookingSubmissionResult(result string)
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
