package advance_step

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	availabilityCache "github.com/m04kA/SMC-AppointmentService/internal/infra/cache/availability"
	storage "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/session"
	schedClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/schedulingservice"
	catalogService "github.com/m04kA/SMC-AppointmentService/internal/service/catalog"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// События и результаты отправки для бизнес-метрик
const (
	eventConfirmed = "confirmed"

	submissionSuccess  = "success"
	submissionRejected = "rejected"
	submissionError    = "error"
)

// msgSchedulingUnavailable сохраняется в lastSubmissionError, когда бэкенд
// расписания не ответил
const msgSchedulingUnavailable = "scheduling service unavailable, please try again"

// UseCase use case подтверждения текущего шага мастера записи
type UseCase struct {
	sessionRepo        SessionRepository
	catalog            CatalogProvider
	availability       AvailabilityCache
	schedulingClient   SchedulingServiceClient
	txManager          TransactionManager
	metrics            Metrics
	timeProvider       TimeProvider
	logger             Logger
	ourLocationAddress string
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	catalog CatalogProvider,
	availability AvailabilityCache,
	schedulingClient SchedulingServiceClient,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	ourLocationAddress string,
) *UseCase {
	return &UseCase{
		sessionRepo:        sessionRepo,
		catalog:            catalog,
		availability:       availability,
		schedulingClient:   schedulingClient,
		txManager:          txManager,
		metrics:            metrics,
		timeProvider:       &RealTimeProvider{},
		logger:             logger,
		ourLocationAddress: ourLocationAddress,
	}
}

// Execute выполняет подтверждение текущего шага сессии.
// Для шагов 1-3 данные валидируются и сохраняются в черновик, сессия
// переходит на следующий шаг. На шаге 4 выполняется отправка записи.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AdvanceStep: session=%s", req.SessionID)

	if req.SessionID == "" {
		return nil, fmt.Errorf("%w: sessionId is required", ErrInvalidInput)
	}

	// 1. Загружаем сессию и проверяем, что она принимает данные шага
	session, err := uc.getActiveSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	// 2. Обрабатываем полезную нагрузку текущего шага
	switch session.CurrentStep {
	case domain.StepCustomerInfo:
		return uc.advanceCustomerInfo(ctx, session, req.CustomerInfo)
	case domain.StepServices:
		return uc.advanceServices(ctx, session, req.Services)
	case domain.StepLocation:
		return uc.advanceLocation(ctx, session, req.Location)
	case domain.StepDateTime:
		return uc.submitBooking(ctx, session, req.DateTime)
	default:
		return nil, fmt.Errorf("%w: session %s is on unknown step %d", ErrInternal, session.ID, session.CurrentStep)
	}
}

// getActiveSession загружает сессию и отсекает недоступные для изменения
func (uc *UseCase) getActiveSession(ctx context.Context, id string) (*domain.WizardSession, error) {
	session, err := uc.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			uc.logger.Warn("AdvanceStep: session %s not found", id)
			return nil, ErrSessionNotFound
		}
		uc.logger.Error("AdvanceStep: failed to load session %s: %v", id, err)
		return nil, fmt.Errorf("%w: failed to load session: %v", ErrInternal, err)
	}

	if session.IsExpired(uc.timeProvider.Now()) {
		uc.logger.Warn("AdvanceStep: session %s expired at %s", id, session.ExpiresAt.Format(time.RFC3339))
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

// advanceCustomerInfo обрабатывает шаг 1 (контактные данные)
func (uc *UseCase) advanceCustomerInfo(ctx context.Context, session *domain.WizardSession, input *CustomerInfoInput) (*Response, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: customerInfo payload is required on step %d", ErrInvalidInput, session.CurrentStep)
	}

	if vErr := validateCustomerInfo(input); vErr != nil {
		uc.logger.Warn("AdvanceStep: customer info validation failed for session %s: %v", session.ID, vErr)
		return nil, vErr
	}

	session.Customer = &domain.CustomerInfo{
		Name:  strings.TrimSpace(input.Name),
		Phone: strings.TrimSpace(input.Phone),
		Email: strings.TrimSpace(input.Email),
	}

	return uc.advanceDraft(ctx, session)
}

// advanceServices обрабатывает шаг 2 (выбор услуг)
func (uc *UseCase) advanceServices(ctx context.Context, session *domain.WizardSession, input *ServicesInput) (*Response, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: services payload is required on step %d", ErrInvalidInput, session.CurrentStep)
	}

	catalog, err := uc.catalog.ListEnabled(ctx)
	if err != nil {
		if errors.Is(err, catalogService.ErrCatalogUnavailable) {
			uc.logger.Warn("AdvanceStep: catalog unavailable while validating services for session %s", session.ID)
			return nil, ErrCatalogUnavailable
		}
		uc.logger.Error("AdvanceStep: failed to load catalog for session %s: %v", session.ID, err)
		return nil, fmt.Errorf("%w: failed to load catalog: %v", ErrInternal, err)
	}

	normalized, vErr := validateServices(input, catalog)
	if vErr != nil {
		uc.logger.Warn("AdvanceStep: services validation failed for session %s: %v", session.ID, vErr)
		return nil, vErr
	}

	session.Services = &domain.ServiceSelection{ServiceIDs: normalized}

	return uc.advanceDraft(ctx, session)
}

// advanceLocation обрабатывает шаг 3 (место встречи)
func (uc *UseCase) advanceLocation(ctx context.Context, session *domain.WizardSession, input *LocationInput) (*Response, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: location payload is required on step %d", ErrInvalidInput, session.CurrentStep)
	}

	if vErr := validateLocation(input); vErr != nil {
		uc.logger.Warn("AdvanceStep: location validation failed for session %s: %v", session.ID, vErr)
		return nil, vErr
	}

	location := &domain.Location{Type: domain.LocationType(input.Type)}
	if location.Type == domain.LocationCustomer {
		location.Address = &domain.CustomerAddress{
			Location:  strings.TrimSpace(input.Address.Location),
			Street:    strings.TrimSpace(input.Address.Street),
			Building:  strings.TrimSpace(input.Address.Building),
			Apartment: input.Address.Apartment,
		}
	}
	session.Location = location

	return uc.advanceDraft(ctx, session)
}

// advanceDraft сохраняет данные шага и двигает сессию на следующий шаг
func (uc *UseCase) advanceDraft(ctx context.Context, session *domain.WizardSession) (*Response, error) {
	fromStep := session.CurrentStep
	session.CurrentStep = fromStep.Next()

	if err := uc.sessionRepo.UpdateDraft(ctx, session, fromStep); err != nil {
		if errors.Is(err, storage.ErrSessionConflict) {
			uc.logger.Warn("AdvanceStep: session %s changed concurrently on step %d", session.ID, fromStep)
			return nil, ErrSessionConflict
		}
		uc.logger.Error("AdvanceStep: failed to save step %d for session %s: %v", fromStep, session.ID, err)
		return nil, fmt.Errorf("%w: failed to save step data: %v", ErrInternal, err)
	}

	uc.logger.Info("AdvanceStep: session %s advanced to step %d", session.ID, session.CurrentStep)

	updated, err := uc.sessionRepo.GetByID(ctx, session.ID)
	if err != nil {
		uc.logger.Error("AdvanceStep: failed to reload session %s: %v", session.ID, err)
		return nil, fmt.Errorf("%w: failed to reload session: %v", ErrInternal, err)
	}

	return &Response{Session: updated}, nil
}

// submitBooking валидирует выбранный слот и отправляет запись в сервис
// расписания. Перевод сессии в submitting выполняется в сериализуемой
// транзакции, параллельная отправка по той же сессии получает конфликт.
func (uc *UseCase) submitBooking(ctx context.Context, session *domain.WizardSession, input *DateTimeInput) (*Response, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: dateTime payload is required on step %d", ErrInvalidInput, session.CurrentStep)
	}

	// 1. Валидация формата слота
	date, vErr := validateDateTime(input)
	if vErr != nil {
		uc.logger.Warn("AdvanceStep: date/time validation failed for session %s: %v", session.ID, vErr)
		return nil, vErr
	}

	// 2. Данные всех предыдущих шагов должны быть собраны
	if session.Customer == nil || session.Services == nil || session.Location == nil {
		uc.logger.Warn("AdvanceStep: session %s reached submission with incomplete draft", session.ID)
		return nil, ErrIncompleteSession
	}

	// 3. Слот должен присутствовать в последнем снапшоте доступности
	snapshot, err := uc.availability.Get(ctx, session.ID)
	if err != nil {
		if errors.Is(err, availabilityCache.ErrSnapshotNotFound) {
			uc.logger.Warn("AdvanceStep: no availability snapshot for session %s", session.ID)
			return nil, ErrStaleSlot
		}
		uc.logger.Error("AdvanceStep: failed to load availability snapshot for session %s: %v", session.ID, err)
		return nil, fmt.Errorf("%w: failed to load availability snapshot: %v", ErrInternal, err)
	}

	slot := domain.TimeSlot{StartTime: input.StartTime, EndTime: input.EndTime}
	if !snapshot.Covers(date, session.TimeZone) || !snapshot.HasSlot(slot) {
		uc.logger.Warn("AdvanceStep: session %s picked a slot outside the latest availability", session.ID)
		return nil, ErrStaleSlot
	}

	schedule := &domain.Schedule{
		Date:      domain.DateOnly(date),
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		TimeZone:  session.TimeZone,
	}

	// 4. Переводим сессию в submitting в сериализуемой транзакции.
	// Строка сессии блокируется, состояние перепроверяется под блокировкой.
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := uc.sessionRepo.GetByID(txCtx, session.ID)
		if err != nil {
			if errors.Is(err, storage.ErrSessionNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("%w: failed to load session: %v", ErrInternal, err)
		}

		if current.IsSubmitting() {
			return ErrSubmissionInFlight
		}
		if current.IsTerminal() {
			return ErrSessionFinished
		}
		if current.CurrentStep != domain.StepDateTime {
			return ErrSessionConflict
		}
		if current.Customer == nil || current.Services == nil || current.Location == nil {
			return ErrIncompleteSession
		}

		if err := uc.sessionRepo.MarkSubmitting(txCtx, session.ID, schedule); err != nil {
			if errors.Is(err, storage.ErrSessionConflict) {
				return ErrSubmissionInFlight
			}
			return fmt.Errorf("%w: failed to mark session submitting: %v", ErrInternal, err)
		}

		// Данные для запроса бронирования берем из строки под блокировкой
		session = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	session.Schedule = schedule
	session.Status = domain.StatusSubmitting

	// 5. Отправляем запись в сервис расписания
	bookingReq, err := uc.buildBookingRequest(session, schedule)
	if err != nil {
		uc.logger.Error("AdvanceStep: failed to build booking request for session %s: %v", session.ID, err)
		uc.failSubmission(ctx, session.ID, msgSchedulingUnavailable)
		return nil, fmt.Errorf("%w: failed to build booking request: %v", ErrInternal, err)
	}

	confirmation, err := uc.schedulingClient.CreateBooking(ctx, bookingReq)
	if err != nil {
		return nil, uc.handleSubmissionFailure(ctx, session.ID, err)
	}

	// 6. Фиксируем подтверждение
	if err := uc.sessionRepo.Confirm(ctx, session.ID, &domain.Confirmation{
		MeetingProvider:   confirmation.MeetingProvider,
		MeetLink:          confirmation.MeetLink,
		RescheduleLink:    confirmation.RescheduleLink,
		CalendarExportURL: confirmation.CalendarExportURL,
	}); err != nil {
		uc.logger.Error("AdvanceStep: booking created but confirmation of session %s failed: %v", session.ID, err)
		return nil, fmt.Errorf("%w: failed to record confirmation: %v", ErrInternal, err)
	}

	uc.trackSubmission(submissionSuccess)
	uc.trackEvent(eventConfirmed)
	uc.logger.Info("AdvanceStep: session %s confirmed", session.ID)

	updated, err := uc.sessionRepo.GetByID(ctx, session.ID)
	if err != nil {
		uc.logger.Error("AdvanceStep: failed to reload session %s: %v", session.ID, err)
		return nil, fmt.Errorf("%w: failed to reload session: %v", ErrInternal, err)
	}

	return &Response{Session: updated}, nil
}

// handleSubmissionFailure возвращает сессию на шаг 4 и сохраняет причину отказа
func (uc *UseCase) handleSubmissionFailure(ctx context.Context, sessionID string, cause error) error {
	var rejection *schedClient.RejectionError
	if errors.As(cause, &rejection) {
		uc.logger.Warn("AdvanceStep: booking for session %s rejected: %s", sessionID, rejection.Message)
		uc.failSubmission(ctx, sessionID, rejection.Message)
		uc.trackSubmission(submissionRejected)
		return &RejectionError{Reason: rejection.Message}
	}

	uc.logger.Error("AdvanceStep: booking submission for session %s failed: %v", sessionID, cause)
	uc.failSubmission(ctx, sessionID, msgSchedulingUnavailable)
	uc.trackSubmission(submissionError)

	if errors.Is(cause, schedClient.ErrUnavailable) {
		return ErrSchedulingUnavailable
	}
	return fmt.Errorf("%w: booking submission failed: %v", ErrInternal, cause)
}

// failSubmission возвращает сессию из submitting на шаг 4
func (uc *UseCase) failSubmission(ctx context.Context, sessionID, message string) {
	if err := uc.sessionRepo.RecordSubmissionFailure(ctx, sessionID, message); err != nil {
		uc.logger.Error("AdvanceStep: failed to record submission failure for session %s: %v", sessionID, err)
	}
}

// buildBookingRequest собирает запрос бронирования из данных сессии
func (uc *UseCase) buildBookingRequest(session *domain.WizardSession, schedule *domain.Schedule) (*schedClient.BookingRequest, error) {
	location, err := time.LoadLocation(session.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load location %s: %v", session.TimeZone, err)
	}
	_, offsetSeconds := schedule.StartTime.In(location).Zone()

	serviceIDs, err := json.Marshal(session.Services.ServiceIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal service ids: %v", err)
	}

	req := &schedClient.BookingRequest{
		DurationID:            session.DurationID,
		Date:                  schedule.Date.Format(domain.DateFormat),
		TimeZoneOffsetMinutes: offsetSeconds / 60,
		StartTime:             schedule.StartTime,
		EndTime:               schedule.EndTime,
		CustomerName:          session.Customer.Name,
		CustomerEmail:         session.Customer.Email,
		CustomerPhone:         session.Customer.Phone,
		SelectedServiceIDs:    string(serviceIDs),
		LocationType:          string(session.Location.Type),
	}

	switch session.Location.Type {
	case domain.LocationOur:
		req.OurLocationAddress = ptr.Ptr(uc.ourLocationAddress)
	case domain.LocationCustomer:
		address, err := json.Marshal(customerLocationRecord{
			Location:  session.Location.Address.Location,
			Street:    session.Location.Address.Street,
			Building:  session.Location.Address.Building,
			Apartment: session.Location.Address.Apartment,
		})
		if err != nil {
			return nil, fmt.Errorf("marshal customer location: %v", err)
		}
		req.CustomerLocation = ptr.Ptr(string(address))
	}

	return req, nil
}

// customerLocationRecord адрес клиента в протоколе бэкенда планирования
type customerLocationRecord struct {
	Location  string  `json:"location"`
	Street    string  `json:"street"`
	Building  string  `json:"building"`
	Apartment *string `json:"apartment,omitempty"`
}

func (uc *UseCase) trackEvent(event string) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.WizardSessionEvent(event)
}

func (uc *UseCase) trackSubmission(result string) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.BookingSubmissionResult(result)
}
