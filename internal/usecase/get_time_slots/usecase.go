package get_time_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	storage "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/session"
	schedClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/schedulingservice"
)

// UseCase use case получения доступных слотов для сессии мастера
type UseCase struct {
	sessionRepo      SessionRepository
	availability     AvailabilityCache
	schedulingClient SchedulingServiceClient
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	availability AvailabilityCache,
	schedulingClient SchedulingServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:      sessionRepo,
		availability:     availability,
		schedulingClient: schedulingClient,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute запрашивает у сервиса расписания слоты на дату и сохраняет
// полученный снапшот для последующей валидации выбранного слота.
// Номер снапшота берется до обращения к бэкенду, поэтому поздний ответ
// на ранний запрос никогда не вытесняет более новые данные.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetTimeSlots: session=%s, date=%s", req.SessionID, req.Date)

	// 1. Валидация входных данных
	if req.SessionID == "" {
		return nil, fmt.Errorf("%w: sessionId is required", ErrInvalidInput)
	}
	if req.Date == "" {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
	}

	// 2. Загружаем сессию и проверяем ее состояние
	session, err := uc.getActiveSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session.CurrentStep != domain.StepDateTime {
		uc.logger.Warn("GetTimeSlots: session %s is on step %d, slots rejected", session.ID, session.CurrentStep)
		return nil, ErrWrongStep
	}

	// 3. Актуализируем часовой пояс, если клиент его сменил
	timeZone, err := uc.resolveTimeZone(ctx, session, req.TimeZone)
	if err != nil {
		return nil, err
	}
	location, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimeZone, timeZone)
	}

	// 4. Берем номер снапшота до обращения к бэкенду
	seq, err := uc.availability.NextSeq(ctx, session.ID)
	if err != nil {
		uc.logger.Error("GetTimeSlots: failed to allocate snapshot seq for session %s: %v", session.ID, err)
		return nil, fmt.Errorf("%w: failed to allocate snapshot seq: %v", ErrInternal, err)
	}

	// 5. Запрашиваем слоты у сервиса расписания.
	// Смещение берем на полдень запрошенной даты, чтобы не попасть
	// на ночной переход летнего времени.
	noon := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, location)
	_, offsetSeconds := noon.Zone()

	result, err := uc.schedulingClient.GetTimeSlots(ctx, schedClient.SlotsQuery{
		DurationID:            session.DurationID,
		Date:                  date,
		TimeZoneOffsetMinutes: offsetSeconds / 60,
	})
	if err != nil {
		if errors.Is(err, schedClient.ErrUnavailable) {
			uc.logger.Warn("GetTimeSlots: scheduling service unavailable for session %s", session.ID)
			return nil, ErrSchedulingUnavailable
		}
		uc.logger.Error("GetTimeSlots: failed to fetch slots for session %s: %v", session.ID, err)
		return nil, fmt.Errorf("%w: failed to fetch slots: %v", ErrInternal, err)
	}

	// 6. Сохраняем снапшот для валидации выбранного слота
	snapshot := uc.buildSnapshot(seq, session.DurationID, date, timeZone, result)
	saved, err := uc.availability.Save(ctx, session.ID, snapshot)
	if err != nil {
		uc.logger.Error("GetTimeSlots: failed to save snapshot for session %s: %v", session.ID, err)
		return nil, fmt.Errorf("%w: failed to save snapshot: %v", ErrInternal, err)
	}
	if !saved {
		uc.logger.Info("GetTimeSlots: snapshot seq=%d for session %s superseded by a newer one", seq, session.ID)
	}

	uc.logger.Info("GetTimeSlots: session %s got %d slots for %s (seq=%d)",
		session.ID, len(snapshot.Slots), req.Date, seq)

	return uc.buildResponse(session.ID, date, timeZone, snapshot), nil
}

// getActiveSession загружает сессию и отсекает недоступные
func (uc *UseCase) getActiveSession(ctx context.Context, id string) (*domain.WizardSession, error) {
	session, err := uc.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			uc.logger.Warn("GetTimeSlots: session %s not found", id)
			return nil, ErrSessionNotFound
		}
		uc.logger.Error("GetTimeSlots: failed to load session %s: %v", id, err)
		return nil, fmt.Errorf("%w: failed to load session: %v", ErrInternal, err)
	}

	if session.IsExpired(uc.timeProvider.Now()) {
		uc.logger.Warn("GetTimeSlots: session %s expired", id)
		return nil, ErrSessionNotFound
	}
	if session.IsTerminal() {
		return nil, ErrSessionFinished
	}
	if session.IsSubmitting() {
		return nil, ErrSubmissionInFlight
	}

	return session, nil
}

// resolveTimeZone применяет смену часового пояса клиентом.
// Смена пояса делает ранее выбранный слот невалидным, но слот и так
// проверяется по последнему снапшоту, который пишется уже в новом поясе.
func (uc *UseCase) resolveTimeZone(ctx context.Context, session *domain.WizardSession, requested *string) (string, error) {
	if requested == nil || *requested == "" || *requested == session.TimeZone {
		return session.TimeZone, nil
	}

	timeZone := *requested
	if _, err := time.LoadLocation(timeZone); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidTimeZone, timeZone)
	}

	if err := uc.sessionRepo.UpdateTimeZone(ctx, session.ID, timeZone); err != nil {
		if errors.Is(err, storage.ErrSessionConflict) {
			uc.logger.Warn("GetTimeSlots: session %s changed concurrently during time zone update", session.ID)
			return "", ErrSessionConflict
		}
		uc.logger.Error("GetTimeSlots: failed to update time zone for session %s: %v", session.ID, err)
		return "", fmt.Errorf("%w: failed to update time zone: %v", ErrInternal, err)
	}

	uc.logger.Info("GetTimeSlots: session %s switched time zone %s -> %s", session.ID, session.TimeZone, timeZone)
	session.TimeZone = timeZone

	return timeZone, nil
}

// buildSnapshot собирает доменный снапшот из ответа бэкенда
func (uc *UseCase) buildSnapshot(seq int64, durationID string, date time.Time, timeZone string, result *schedClient.SlotsResult) *domain.AvailabilitySnapshot {
	slots := make([]domain.TimeSlot, 0, len(result.AvailableSlots))
	for _, slot := range result.AvailableSlots {
		slots = append(slots, domain.TimeSlot{StartTime: slot.StartTime, EndTime: slot.EndTime})
	}

	snapshot := &domain.AvailabilitySnapshot{
		Seq:               seq,
		DurationID:        durationID,
		Date:              domain.DateOnly(date),
		TimeZone:          timeZone,
		Slots:             slots,
		AvailableWeekdays: result.AvailableWeekdays,
		FetchedAt:         uc.timeProvider.Now(),
	}

	rangeStart, err := time.Parse(domain.DateFormat, result.ValidDateRange.Start)
	if err != nil {
		uc.logger.Warn("GetTimeSlots: malformed date range start %q from backend", result.ValidDateRange.Start)
		return snapshot
	}
	rangeEnd, err := time.Parse(domain.DateFormat, result.ValidDateRange.End)
	if err != nil {
		uc.logger.Warn("GetTimeSlots: malformed date range end %q from backend", result.ValidDateRange.End)
		return snapshot
	}
	snapshot.DateRange = domain.DateRange{Start: rangeStart, End: rangeEnd}

	return snapshot
}

// buildResponse конвертирует снапшот в модель ответа
func (uc *UseCase) buildResponse(sessionID string, date time.Time, timeZone string, snapshot *domain.AvailabilitySnapshot) *Response {
	slots := make([]Slot, 0, len(snapshot.Slots))
	for _, slot := range snapshot.Slots {
		slots = append(slots, Slot{StartTime: slot.StartTime, EndTime: slot.EndTime})
	}

	return &Response{
		SessionID: sessionID,
		Date:      date,
		TimeZone:  timeZone,
		Slots:     slots,
		ValidDateRange: DateRange{
			Start: snapshot.DateRange.Start,
			End:   snapshot.DateRange.End,
		},
		AvailableWeekdays: snapshot.AvailableWeekdays,
	}
}
