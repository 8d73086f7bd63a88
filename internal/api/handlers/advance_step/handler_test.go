package advance_step

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	advanceStep "github.com/m04kA/SMC-AppointmentService/internal/usecase/advance_step"
)

type fakeUseCase struct {
	resp    *advanceStep.Response
	err     error
	lastReq *advanceStep.Request
	calls   int
}

func (f *fakeUseCase) Execute(_ context.Context, req *advanceStep.Request) (*advanceStep.Response, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func serveAdvance(h *Handler, sessionID, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/wizard/sessions/{sessionId}/advance", h.Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wizard/sessions/"+sessionID+"/advance", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionAtStep(step domain.WizardStep) *domain.WizardSession {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return &domain.WizardSession{
		ID:          "sess-1",
		DurationID:  "consultation-30",
		TimeZone:    "Europe/Moscow",
		Status:      domain.StatusInProgress,
		CurrentStep: step,
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(2 * time.Hour),
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()
	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandle_CustomerInfoAdvancesSession(t *testing.T) {
	session := sessionAtStep(domain.StepServices)
	session.Customer = &domain.CustomerInfo{Name: "Анна", Phone: "+7 900 123-45-67", Email: "anna@example.com"}
	uc := &fakeUseCase{resp: &advanceStep.Response{Session: session}}
	h := NewHandler(uc, nopLogger{})

	body := `{"customerInfo":{"name":"Анна","phone":"+7 900 123-45-67","email":"anna@example.com"}}`
	w := serveAdvance(h, "sess-1", body)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, uc.lastReq)
	assert.Equal(t, "sess-1", uc.lastReq.SessionID)
	require.NotNil(t, uc.lastReq.CustomerInfo)
	assert.Equal(t, "Анна", uc.lastReq.CustomerInfo.Name)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(domain.StepServices), resp["currentStep"])
	assert.Equal(t, string(domain.StatusInProgress), resp["status"])
}

func TestHandle_InvalidJSONBody(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, nopLogger{})

	w := serveAdvance(h, "sess-1", `{"customerInfo":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, uc.calls)
}

func TestHandle_ValidationErrorListsFields(t *testing.T) {
	vErr := domain.NewValidationError(domain.StepCustomerInfo)
	vErr.Add("name", "имя должно содержать минимум 2 символа")
	vErr.Add("email", "некорректный email")
	uc := &fakeUseCase{err: vErr}
	h := NewHandler(uc, nopLogger{})

	w := serveAdvance(h, "sess-1", `{"customerInfo":{"name":"A","phone":"123","email":"nope"}}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Contains(t, resp.Fields, "name")
	assert.Contains(t, resp.Fields, "email")
}

func TestHandle_MissingStepPayload(t *testing.T) {
	uc := &fakeUseCase{err: advanceStep.ErrInvalidInput}
	h := NewHandler(uc, nopLogger{})

	w := serveAdvance(h, "sess-1", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandle_SessionNotFound(t *testing.T) {
	uc := &fakeUseCase{err: advanceStep.ErrSessionNotFound}
	h := NewHandler(uc, nopLogger{})

	w := serveAdvance(h, "missing", `{"customerInfo":{"name":"Анна","phone":"+79001234567","email":"anna@example.com"}}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandle_StaleSlotConflict(t *testing.T) {
	uc := &fakeUseCase{err: advanceStep.ErrStaleSlot}
	h := NewHandler(uc, nopLogger{})

	body := `{"dateTime":{"date":"2026-03-12","startTime":"2026-03-12T07:00:00Z","endTime":"2026-03-12T07:30:00Z"}}`
	w := serveAdvance(h, "sess-1", body)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, msgStaleSlot, decodeError(t, w).Message)
}

func TestHandle_BookingRejectedPropagatesReason(t *testing.T) {
	uc := &fakeUseCase{err: &advanceStep.RejectionError{Reason: "слот уже занят"}}
	h := NewHandler(uc, nopLogger{})

	body := `{"dateTime":{"date":"2026-03-12","startTime":"2026-03-12T07:00:00Z","endTime":"2026-03-12T07:30:00Z"}}`
	w := serveAdvance(h, "sess-1", body)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "слот уже занят", decodeError(t, w).Message)
}

func TestHandle_SchedulingUnavailable(t *testing.T) {
	uc := &fakeUseCase{err: advanceStep.ErrSchedulingUnavailable}
	h := NewHandler(uc, nopLogger{})

	body := `{"dateTime":{"date":"2026-03-12","startTime":"2026-03-12T07:00:00Z","endTime":"2026-03-12T07:30:00Z"}}`
	w := serveAdvance(h, "sess-1", body)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandle_ConfirmedSessionCarriesConfirmation(t *testing.T) {
	session := sessionAtStep(domain.StepDateTime)
	session.Status = domain.StatusConfirmed
	session.Confirmation = &domain.Confirmation{
		MeetingProvider: "google_meet",
		MeetLink:        "https://meet.google.com/abc-defg-hij",
	}
	uc := &fakeUseCase{resp: &advanceStep.Response{Session: session}}
	h := NewHandler(uc, nopLogger{})

	body := `{"dateTime":{"date":"2026-03-12","startTime":"2026-03-12T07:00:00Z","endTime":"2026-03-12T07:30:00Z"}}`
	w := serveAdvance(h, "sess-1", body)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(domain.StatusConfirmed), resp["status"])
	confirmation, ok := resp["confirmation"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", confirmation["meetLink"])
}

func TestHandle_UnknownErrorIsInternal(t *testing.T) {
	uc := &fakeUseCase{err: errors.New("boom")}
	h := NewHandler(uc, nopLogger{})

	w := serveAdvance(h, "sess-1", `{"services":{"serviceIds":["consultation"]}}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
