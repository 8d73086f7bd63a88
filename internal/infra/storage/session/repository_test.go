package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var sessionColumns = []string{
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
}

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO wizard_sessions").
		WithArgs("sess-1", "dur-30", "Europe/Moscow", string(domain.StatusInProgress), int(domain.StepCustomerInfo), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	created, err := repo.Create(context.Background(), &domain.WizardSession{
		ID:          "sess-1",
		DurationID:  "dur-30",
		TimeZone:    "Europe/Moscow",
		Status:      domain.StatusInProgress,
		CurrentStep: domain.StepCustomerInfo,
		ExpiresAt:   now.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, now, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .+ FROM wizard_sessions WHERE id = ").
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows(sessionColumns).AddRow(
			"sess-1", "dur-30", "Europe/Moscow", "in_progress", 4,
			"Анна Петрова", "+7 900 123-45-67", "anna@example.com",
			"{consultation,massage}",
			"customer_location", "Москва", "Складочная", "3", nil,
			date, start, start.Add(30*time.Minute), "Europe/Moscow",
			nil, nil, nil, nil,
			"slot is no longer available",
			now, now, now.Add(2*time.Hour),
		))

	session, err := repo.GetByID(context.Background(), "sess-1")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusInProgress, session.Status)
	assert.Equal(t, domain.StepDateTime, session.CurrentStep)

	require.NotNil(t, session.Customer)
	assert.Equal(t, "Анна Петрова", session.Customer.Name)

	require.NotNil(t, session.Services)
	assert.Equal(t, []string{"consultation", "massage"}, session.Services.ServiceIDs)

	require.NotNil(t, session.Location)
	assert.Equal(t, domain.LocationCustomer, session.Location.Type)
	require.NotNil(t, session.Location.Address)
	assert.Equal(t, "Складочная", session.Location.Address.Street)
	assert.Nil(t, session.Location.Address.Apartment)

	require.NotNil(t, session.Schedule)
	assert.Equal(t, start, session.Schedule.StartTime)

	assert.Nil(t, session.Confirmation)
	require.NotNil(t, session.LastSubmissionError)
	assert.Equal(t, "slot is no longer available", *session.LastSubmissionError)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT .+ FROM wizard_sessions WHERE id = ").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(sessionColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestRepository_GetByID_EmptyDraft(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT .+ FROM wizard_sessions WHERE id = ").
		WithArgs("sess-2").
		WillReturnRows(sqlmock.NewRows(sessionColumns).AddRow(
			"sess-2", "dur-30", "Europe/Moscow", "in_progress", 1,
			nil, nil, nil,
			nil,
			nil, nil, nil, nil, nil,
			nil, nil, nil, nil,
			nil, nil, nil, nil,
			nil,
			now, now, now.Add(2*time.Hour),
		))

	session, err := repo.GetByID(context.Background(), "sess-2")
	require.NoError(t, err)

	assert.Nil(t, session.Customer)
	assert.Nil(t, session.Services)
	assert.Nil(t, session.Location)
	assert.Nil(t, session.Schedule)
	assert.Nil(t, session.Confirmation)
	assert.Nil(t, session.LastSubmissionError)
	assert.False(t, session.IsComplete())
}

func TestRepository_UpdateDraft_Conflict(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("UPDATE wizard_sessions SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	session := &domain.WizardSession{
		ID:          "sess-1",
		CurrentStep: domain.StepServices,
		Customer:    &domain.CustomerInfo{Name: "Анна", Phone: "+79001234567", Email: "anna@example.com"},
	}

	err := repo.UpdateDraft(context.Background(), session, domain.StepCustomerInfo)
	assert.True(t, errors.Is(err, ErrSessionConflict))
}

func TestRepository_MarkSubmitting(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("UPDATE wizard_sessions SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	err := repo.MarkSubmitting(context.Background(), "sess-1", &domain.Schedule{
		Date:      start,
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		TimeZone:  "Europe/Moscow",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Cancel_WhileSubmitting(t *testing.T) {
	repo, mock := newMock(t)

	// Строка существует, но статус submitting - условный UPDATE не проходит
	mock.ExpectExec("UPDATE wizard_sessions SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Cancel(context.Background(), "sess-1")
	assert.True(t, errors.Is(err, ErrSessionConflict))
}

func TestRepository_DeleteExpired(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("DELETE FROM wizard_sessions WHERE expires_at <").
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := repo.DeleteExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}
