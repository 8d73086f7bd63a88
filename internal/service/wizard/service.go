package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/session"
	"github.com/m04kA/SMC-AppointmentService/internal/service/wizard/models"
)

// События для бизнес-метрик сессий мастера
const (
	eventStarted   = "started"
	eventCancelled = "cancelled"
)

// Service сервис управления жизненным циклом сессий мастера записи
type Service struct {
	repo            SessionRepository
	availability    AvailabilityCache
	metrics         Metrics
	timeProvider    TimeProvider
	log             Logger
	sessionTTL      time.Duration
	defaultTimeZone string
}

// NewService создает новый сервис сессий мастера
func NewService(
	repo SessionRepository,
	availability AvailabilityCache,
	metrics Metrics,
	timeProvider TimeProvider,
	log Logger,
	sessionTTL time.Duration,
	defaultTimeZone string,
) *Service {
	return &Service{
		repo:            repo,
		availability:    availability,
		metrics:         metrics,
		timeProvider:    timeProvider,
		log:             log,
		sessionTTL:      sessionTTL,
		defaultTimeZone: defaultTimeZone,
	}
}

// Start создает новую сессию мастера на первом шаге
func (s *Service) Start(ctx context.Context, req *models.StartWizardRequest) (*models.SessionResponse, error) {
	if req.DurationID == "" {
		return nil, fmt.Errorf("%w: durationId is required", ErrInvalidInput)
	}

	timeZone := s.defaultTimeZone
	if req.TimeZone != nil && *req.TimeZone != "" {
		timeZone = *req.TimeZone
	}
	if _, err := time.LoadLocation(timeZone); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimeZone, timeZone)
	}

	now := s.timeProvider.Now()
	draft := &domain.WizardSession{
		ID:          uuid.NewString(),
		DurationID:  req.DurationID,
		TimeZone:    timeZone,
		Status:      domain.StatusInProgress,
		CurrentStep: domain.StepCustomerInfo,
		ExpiresAt:   now.Add(s.sessionTTL),
	}

	created, err := s.repo.Create(ctx, draft)
	if err != nil {
		s.log.Error("Start: failed to create wizard session: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.trackEvent(eventStarted)
	s.log.Info("Start: wizard session %s created, duration %s, time zone %s", created.ID, created.DurationID, created.TimeZone)

	return models.FromDomainSession(created), nil
}

// Get возвращает текущее состояние сессии мастера
func (s *Service) Get(ctx context.Context, id string) (*models.SessionResponse, error) {
	current, err := s.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainSession(current), nil
}

// Retreat возвращает сессию на предыдущий шаг.
// На первом шаге запрос игнорируется, данные шагов сохраняются.
func (s *Service) Retreat(ctx context.Context, id string) (*models.SessionResponse, error) {
	current, err := s.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.IsTerminal() {
		return nil, ErrSessionFinished
	}
	if current.IsSubmitting() {
		return nil, ErrSubmissionInFlight
	}
	if current.CurrentStep.IsFirst() {
		return models.FromDomainSession(current), nil
	}

	if err := s.repo.SetStep(ctx, id, current.CurrentStep, current.CurrentStep.Prev()); err != nil {
		if errors.Is(err, session.ErrSessionConflict) {
			s.log.Warn("Retreat: session %s changed concurrently", id)
			return nil, ErrSessionConflict
		}
		s.log.Error("Retreat: failed to move session %s back: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	updated, err := s.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info("Retreat: session %s moved back to step %d", id, updated.CurrentStep)

	return models.FromDomainSession(updated), nil
}

// Cancel переводит сессию в статус cancelled и чистит связанный кэш слотов
func (s *Service) Cancel(ctx context.Context, id string) error {
	current, err := s.getSession(ctx, id)
	if err != nil {
		return err
	}

	if current.IsTerminal() {
		return ErrSessionFinished
	}
	if current.IsSubmitting() {
		return ErrSubmissionInFlight
	}

	if err := s.repo.Cancel(ctx, id); err != nil {
		if errors.Is(err, session.ErrSessionConflict) {
			s.log.Warn("Cancel: session %s changed concurrently", id)
			return ErrSessionConflict
		}
		s.log.Error("Cancel: failed to cancel session %s: %v", id, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := s.availability.Drop(ctx, id); err != nil {
		s.log.Warn("Cancel: failed to drop availability snapshot for session %s: %v", id, err)
	}

	s.trackEvent(eventCancelled)
	s.log.Info("Cancel: wizard session %s cancelled", id)

	return nil
}

// CleanupExpired удаляет сессии с истекшим TTL. Вызывается фоновой задачей.
func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	now := s.timeProvider.Now()

	deleted, err := s.repo.DeleteExpired(ctx, now)
	if err != nil {
		s.log.Error("CleanupExpired: failed to delete expired sessions: %v", err)
		return 0, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if deleted > 0 {
		s.log.Info("CleanupExpired: removed %d expired wizard sessions", deleted)
	}

	return deleted, nil
}

// getSession читает сессию и отсекает отсутствующие и истекшие
func (s *Service) getSession(ctx context.Context, id string) (*domain.WizardSession, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		s.log.Error("getSession: failed to load session %s: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if current.IsExpired(s.timeProvider.Now()) {
		return nil, ErrSessionNotFound
	}

	return current, nil
}

func (s *Service) trackEvent(event string) {
	if s.metrics == nil {
		return
	}
	s.metrics.WizardSessionEvent(event)
}
