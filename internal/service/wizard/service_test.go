package wizard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/session"
	"github.com/m04kA/SMC-AppointmentService/internal/service/wizard/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type fakeSessionRepo struct {
	sessions   map[string]*domain.WizardSession
	createErr  error
	setStepErr error
	cancelErr  error
	deleted    int64
	stepCalls  int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*domain.WizardSession{}}
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *domain.WizardSession) (*domain.WizardSession, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	stored := *s
	stored.CreatedAt = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	stored.UpdatedAt = stored.CreatedAt
	f.sessions[s.ID] = &stored
	return &stored, nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (*domain.WizardSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessionRepo) SetStep(ctx context.Context, id string, from, to domain.WizardStep) error {
	f.stepCalls++
	if f.setStepErr != nil {
		return f.setStepErr
	}
	s, ok := f.sessions[id]
	if !ok {
		return session.ErrSessionNotFound
	}
	if s.CurrentStep != from || s.Status != domain.StatusInProgress {
		return session.ErrSessionConflict
	}
	s.CurrentStep = to
	return nil
}

func (f *fakeSessionRepo) Cancel(ctx context.Context, id string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	s, ok := f.sessions[id]
	if !ok {
		return session.ErrSessionNotFound
	}
	if s.Status != domain.StatusInProgress {
		return session.ErrSessionConflict
	}
	s.Status = domain.StatusCancelled
	return nil
}

func (f *fakeSessionRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return f.deleted, nil
}

type fakeAvailability struct {
	dropped []string
	dropErr error
}

func (f *fakeAvailability) Drop(ctx context.Context, sessionID string) error {
	f.dropped = append(f.dropped, sessionID)
	return f.dropErr
}

type fakeMetrics struct {
	events []string
}

func (f *fakeMetrics) WizardSessionEvent(event string) {
	f.events = append(f.events, event)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newTestService(repo *fakeSessionRepo, availability *fakeAvailability, metrics *fakeMetrics, now time.Time) *Service {
	return NewService(repo, availability, metrics, fixedTime{now: now}, nopLogger{}, 2*time.Hour, "Europe/Moscow")
}

func seedSession(repo *fakeSessionRepo, id string, status domain.WizardStatus, step domain.WizardStep, expiresAt time.Time) *domain.WizardSession {
	s := &domain.WizardSession{
		ID:          id,
		DurationID:  "dur-30",
		TimeZone:    "Europe/Moscow",
		Status:      status,
		CurrentStep: step,
		ExpiresAt:   expiresAt,
	}
	repo.sessions[id] = s
	return s
}

func TestStart_CreatesSessionOnFirstStep(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeSessionRepo()
	metrics := &fakeMetrics{}
	svc := newTestService(repo, &fakeAvailability{}, metrics, now)

	resp, err := svc.Start(context.Background(), &models.StartWizardRequest{DurationID: "dur-30"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "dur-30", resp.DurationID)
	assert.Equal(t, "Europe/Moscow", resp.TimeZone)
	assert.Equal(t, string(domain.StatusInProgress), resp.Status)
	assert.Equal(t, 1, resp.CurrentStep)
	assert.Equal(t, now.Add(2*time.Hour), resp.ExpiresAt)
	assert.Nil(t, resp.CustomerInfo)
	assert.Equal(t, []string{"started"}, metrics.events)
}

func TestStart_OverridesTimeZone(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeSessionRepo()
	svc := newTestService(repo, &fakeAvailability{}, &fakeMetrics{}, now)

	resp, err := svc.Start(context.Background(), &models.StartWizardRequest{
		DurationID: "dur-30",
		TimeZone:   ptr.Ptr("America/New_York"),
	})
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", resp.TimeZone)
}

func TestStart_RejectsUnknownTimeZone(t *testing.T) {
	svc := newTestService(newFakeSessionRepo(), &fakeAvailability{}, &fakeMetrics{}, time.Now())

	_, err := svc.Start(context.Background(), &models.StartWizardRequest{
		DurationID: "dur-30",
		TimeZone:   ptr.Ptr("Mars/Olympus"),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeZone)
}

func TestStart_RequiresDurationID(t *testing.T) {
	svc := newTestService(newFakeSessionRepo(), &fakeAvailability{}, &fakeMetrics{}, time.Now())

	_, err := svc.Start(context.Background(), &models.StartWizardRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService(newFakeSessionRepo(), &fakeAvailability{}, &fakeMetrics{}, time.Now())

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestGet_ExpiredSessionIsGone(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeSessionRepo()
	seedSession(repo, "sess-1", domain.StatusInProgress, domain.StepServices, now.Add(-time.Minute))
	svc := newTestService(repo, &fakeAvailability{}, &fakeMetrics{}, now)

	_, err := svc.Get(context.Background(), "sess-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRetreat_MovesOneStepBack(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeSessionRepo()
	seedSession(repo, "sess-1", domain.StatusInProgress, domain.StepLocation, now.Add(time.Hour))
	svc := newTestService(repo, &fakeAvailability{}, &fakeMetrics{}, now)

	resp, err := svc.Retreat(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.CurrentStep)
	assert.Equal(t, 1, repo.stepCalls)
}

func TestRetreat_FirstStepIsNoOp(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeSessionRepo()
	seedSession(repo, "sess-1", domain.StatusInProgress, domain.StepCustomerInfo, now.Add(time.Hour))
	svc := newTestService(repo, &fakeAvailability{}, &fakeMetrics{}, now)

	resp, err := svc.Retreat(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.CurrentStep)
	assert.Equal(t, 0, repo.stepCalls)
}

func TestRetreat_FinishedSession(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeSessionRepo()
	seedSession(repo, "sess-1", domain.StatusConfirmed, domain.StepDateTime, now.Add(time.Hour))
	svc := newTestService(repo, &fakeAvailability{}, &fakeMetrics{}, now)

	_, err := svc.Retreat(context.Background(), "sess-1")
	assert.ErrorIs(t, err, ErrSessionFinished)
}

func TestRetreat_WhileSubmitting(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeSessionRepo()
	seedSession(repo, "sess-1", domain.StatusSubmitting, domain.StepDateTime, now.Add(time.Hour))
	svc := newTestService(repo, &fakeAvailability{}, &fakeMetrics{}, now)

	_, err := svc.Retreat(context.Background(), "sess-1")
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
}

func TestCancel_DropsSnapshotAndCountsEvent(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeSessionRepo()
	seedSession(repo, "sess-1", domain.StatusInProgress, domain.StepDateTime, now.Add(time.Hour))
	availability := &fakeAvailability{}
	metrics := &fakeMetrics{}
	svc := newTestService(repo, availability, metrics, now)

	err := svc.Cancel(context.Background(), "sess-1")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, repo.sessions["sess-1"].Status)
	assert.Equal(t, []string{"sess-1"}, availability.dropped)
	assert.Equal(t, []string{"cancelled"}, metrics.events)
}

func TestCancel_WhileSubmitting(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeSessionRepo()
	seedSession(repo, "sess-1", domain.StatusSubmitting, domain.StepDateTime, now.Add(time.Hour))
	svc := newTestService(repo, &fakeAvailability{}, &fakeMetrics{}, now)

	err := svc.Cancel(context.Background(), "sess-1")
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeSessionRepo()
	seedSession(repo, "sess-1", domain.StatusCancelled, domain.StepDateTime, now.Add(time.Hour))
	svc := newTestService(repo, &fakeAvailability{}, &fakeMetrics{}, now)

	err := svc.Cancel(context.Background(), "sess-1")
	assert.ErrorIs(t, err, ErrSessionFinished)
}

func TestCleanupExpired_ReportsCount(t *testing.T) {
	repo := newFakeSessionRepo()
	repo.deleted = 4
	svc := newTestService(repo, &fakeAvailability{}, &fakeMetrics{}, time.Now())

	deleted, err := svc.CleanupExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
}
