package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с сессиями мастера записи
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую сессию мастера на первом шаге
func (r *Repository) Create(ctx context.Context, session *domain.WizardSession) (*domain.WizardSession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("wizard_sessions").
		Columns(
			"id",
			"duration_id",
			"time_zone",
			"status",
			"current_step",
			"expires_at",
		).
		Values(
			session.ID,
			session.DurationID,
			session.TimeZone,
			session.Status,
			session.CurrentStep,
			session.ExpiresAt,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	session.CreatedAt = createdAt.Time
	session.UpdatedAt = updatedAt.Time

	return session, nil
}

// GetByID получает сессию мастера по идентификатору
// Если в контексте передана активная транзакция, строка блокируется FOR UPDATE,
// чтобы конкурирующие отправки выстраивались за row lock.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.WizardSession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"duration_id",
		"time_zone",
		"status",
		"current_step",
		"customer_name",
		"customer_phone",
		"customer_email",
		"service_ids",
		"location_type",
		"location_name",
		"location_street",
		"location_building",
		"location_apartment",
		"schedule_date",
		"schedule_start_time",
		"schedule_end_time",
		"schedule_time_zone",
		"meeting_provider",
		"meet_link",
		"reschedule_link",
		"calendar_export_url",
		"last_submission_error",
		"created_at",
		"updated_at",
		"expires_at",
	).
		From("wizard_sessions").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		session domain.WizardSession

		customerName, customerPhone, customerEmail             sql.NullString
		serviceIDs                                             pq.StringArray
		locationType, locationName                             sql.NullString
		locationStreet, locationBuilding, locationApartment    sql.NullString
		scheduleDate, scheduleStart, scheduleEnd               sql.NullTime
		scheduleZone                                           sql.NullString
		meetingProvider, meetLink, rescheduleLink, calendarURL sql.NullString
		lastSubmissionError                                    sql.NullString
		createdAt, updatedAt, expiresAt                        sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&session.ID,
		&session.DurationID,
		&session.TimeZone,
		&session.Status,
		&session.CurrentStep,
		&customerName,
		&customerPhone,
		&customerEmail,
		&serviceIDs,
		&locationType,
		&locationName,
		&locationStreet,
		&locationBuilding,
		&locationApartment,
		&scheduleDate,
		&scheduleStart,
		&scheduleEnd,
		&scheduleZone,
		&meetingProvider,
		&meetLink,
		&rescheduleLink,
		&calendarURL,
		&lastSubmissionError,
		&createdAt,
		&updatedAt,
		&expiresAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan session: %v", ErrScanRow, err)
	}

	// Собираем заполненные части черновика
	if customerName.Valid {
		session.Customer = &domain.CustomerInfo{
			Name:  customerName.String,
			Phone: customerPhone.String,
			Email: customerEmail.String,
		}
	}

	if len(serviceIDs) > 0 {
		session.Services = &domain.ServiceSelection{ServiceIDs: []string(serviceIDs)}
	}

	if locationType.Valid {
		location := &domain.Location{Type: domain.LocationType(locationType.String)}
		if location.Type == domain.LocationCustomer {
			address := &domain.CustomerAddress{
				Location: locationName.String,
				Street:   locationStreet.String,
				Building: locationBuilding.String,
			}
			if locationApartment.Valid {
				apartment := locationApartment.String
				address.Apartment = &apartment
			}
			location.Address = address
		}
		session.Location = location
	}

	if scheduleStart.Valid {
		session.Schedule = &domain.Schedule{
			Date:      scheduleDate.Time,
			StartTime: scheduleStart.Time,
			EndTime:   scheduleEnd.Time,
			TimeZone:  scheduleZone.String,
		}
	}

	if meetLink.Valid || meetingProvider.Valid {
		session.Confirmation = &domain.Confirmation{
			MeetingProvider:   meetingProvider.String,
			MeetLink:          meetLink.String,
			RescheduleLink:    rescheduleLink.String,
			CalendarExportURL: calendarURL.String,
		}
	}

	if lastSubmissionError.Valid {
		message := lastSubmissionError.String
		session.LastSubmissionError = &message
	}

	session.CreatedAt = createdAt.Time
	session.UpdatedAt = updatedAt.Time
	session.ExpiresAt = expiresAt.Time

	return &session, nil
}

// UpdateDraft записывает черновик и новый шаг сессии.
// Запись условная: проходит только если сессия все еще in_progress на шаге
// expectedStep. Иначе состояние изменилось конкурентно - ErrSessionConflict.
func (r *Repository) UpdateDraft(ctx context.Context, session *domain.WizardSession, expectedStep domain.WizardStep) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("wizard_sessions").
		Set("current_step", session.CurrentStep).
		Set("updated_at", squirrel.Expr("NOW()"))

	if session.Customer != nil {
		updateBuilder = updateBuilder.
			Set("customer_name", session.Customer.Name).
			Set("customer_phone", session.Customer.Phone).
			Set("customer_email", session.Customer.Email)
	}

	if session.Services != nil {
		updateBuilder = updateBuilder.Set("service_ids", pq.Array(session.Services.ServiceIDs))
	}

	if session.Location != nil {
		updateBuilder = updateBuilder.Set("location_type", session.Location.Type)
		if session.Location.Address != nil {
			updateBuilder = updateBuilder.
				Set("location_name", session.Location.Address.Location).
				Set("location_street", session.Location.Address.Street).
				Set("location_building", session.Location.Address.Building).
				Set("location_apartment", session.Location.Address.Apartment)
		} else {
			// Переключение на our_location убирает адрес клиента
			updateBuilder = updateBuilder.
				Set("location_name", nil).
				Set("location_street", nil).
				Set("location_building", nil).
				Set("location_apartment", nil)
		}
	}

	if session.Schedule != nil {
		updateBuilder = updateBuilder.
			Set("schedule_date", domain.DateOnly(session.Schedule.Date)).
			Set("schedule_start_time", session.Schedule.StartTime).
			Set("schedule_end_time", session.Schedule.EndTime).
			Set("schedule_time_zone", session.Schedule.TimeZone)
	}

	query, args, err := updateBuilder.
		Where(squirrel.Eq{
			"id":           session.ID,
			"status":       domain.StatusInProgress,
			"current_step": expectedStep,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateDraft - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, query, args, "UpdateDraft")
}

// MarkSubmitting переводит сессию in_progress@4 -> submitting и фиксирует
// выбранный слот. Именно этот условный переход гарантирует, что отправка
// бронирования выполняется не более одного раза за попытку.
func (r *Repository) MarkSubmitting(ctx context.Context, id string, schedule *domain.Schedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("wizard_sessions").
		Set("status", domain.StatusSubmitting).
		Set("schedule_date", domain.DateOnly(schedule.Date)).
		Set("schedule_start_time", schedule.StartTime).
		Set("schedule_end_time", schedule.EndTime).
		Set("schedule_time_zone", schedule.TimeZone).
		Set("last_submission_error", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":           id,
			"status":       domain.StatusInProgress,
			"current_step": domain.StepDateTime,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkSubmitting - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, query, args, "MarkSubmitting")
}

// Confirm фиксирует успешное бронирование и переводит сессию в confirmed
func (r *Repository) Confirm(ctx context.Context, id string, confirmation *domain.Confirmation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("wizard_sessions").
		Set("status", domain.StatusConfirmed).
		Set("meeting_provider", confirmation.MeetingProvider).
		Set("meet_link", confirmation.MeetLink).
		Set("reschedule_link", confirmation.RescheduleLink).
		Set("calendar_export_url", confirmation.CalendarExportURL).
		Set("last_submission_error", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": domain.StatusSubmitting,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Confirm - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, query, args, "Confirm")
}

// RecordSubmissionFailure возвращает сессию на шаг 4 с сохранением причины отказа.
// Черновик остается нетронутым, клиент может выбрать другой слот и повторить.
func (r *Repository) RecordSubmissionFailure(ctx context.Context, id string, message string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("wizard_sessions").
		Set("status", domain.StatusInProgress).
		Set("current_step", domain.StepDateTime).
		Set("last_submission_error", message).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": domain.StatusSubmitting,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RecordSubmissionFailure - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, query, args, "RecordSubmissionFailure")
}

// SetStep переводит сессию с шага from на шаг to (навигация назад)
func (r *Repository) SetStep(ctx context.Context, id string, from, to domain.WizardStep) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("wizard_sessions").
		Set("current_step", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":           id,
			"status":       domain.StatusInProgress,
			"current_step": from,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetStep - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, query, args, "SetStep")
}

// UpdateTimeZone меняет зону сессии (клиент выбрал другую зону в календаре)
func (r *Repository) UpdateTimeZone(ctx context.Context, id string, timeZone string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("wizard_sessions").
		Set("time_zone", timeZone).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": domain.StatusInProgress,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateTimeZone - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, query, args, "UpdateTimeZone")
}

// Cancel переводит сессию в cancelled.
// Для сессии с уже запущенной отправкой переход не проходит - ErrSessionConflict.
func (r *Repository) Cancel(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("wizard_sessions").
		Set("status", domain.StatusCancelled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": domain.StatusInProgress,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, query, args, "Cancel")
}

// DeleteExpired удаляет сессии, у которых истек срок жизни
// Возвращает количество удаленных строк
func (r *Repository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("wizard_sessions").
		Where(squirrel.Lt{"expires_at": before}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - execute delete: %v", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - get rows affected: %v", ErrExecQuery, err)
	}

	return deleted, nil
}

// execConditional выполняет условную запись: ноль затронутых строк означает,
// что состояние сессии изменилось между чтением и записью
func (r *Repository) execConditional(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrSessionConflict
	}

	return nil
}
