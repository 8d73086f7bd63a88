package get_time_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getTimeSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_time_slots"
)

type fakeUseCase struct {
	resp    *getTimeSlots.Response
	err     error
	lastReq *getTimeSlots.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *getTimeSlots.Request) (*getTimeSlots.Response, error) {
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

func serveSlots(h *Handler, sessionID, query string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/wizard/sessions/{sessionId}/slots", h.Handle).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wizard/sessions/"+sessionID+"/slots"+query, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandle_ReturnsSlots(t *testing.T) {
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{
		resp: &getTimeSlots.Response{
			SessionID: "sess-1",
			Date:      date,
			TimeZone:  "Europe/Moscow",
			Slots: []getTimeSlots.Slot{
				{StartTime: date.Add(7 * time.Hour), EndTime: date.Add(7*time.Hour + 30*time.Minute)},
				{StartTime: date.Add(8 * time.Hour), EndTime: date.Add(8*time.Hour + 30*time.Minute)},
			},
			ValidDateRange: getTimeSlots.DateRange{
				Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
			},
			AvailableWeekdays: []int{1, 2, 3, 4, 5},
		},
	}
	h := NewHandler(uc, nopLogger{})

	w := serveSlots(h, "sess-1", "?date=2026-03-12")

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, uc.lastReq)
	assert.Equal(t, "sess-1", uc.lastReq.SessionID)
	assert.Equal(t, "2026-03-12", uc.lastReq.Date)
	assert.Nil(t, uc.lastReq.TimeZone)

	var resp TimeSlotsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2026-03-12", resp.Date)
	assert.Len(t, resp.Slots, 2)
	require.NotNil(t, resp.ValidDateRange)
	assert.Equal(t, "2026-03-01", resp.ValidDateRange.Start)
	assert.Equal(t, "2026-04-30", resp.ValidDateRange.End)
}

func TestHandle_PassesTimeZoneOverride(t *testing.T) {
	uc := &fakeUseCase{
		resp: &getTimeSlots.Response{
			SessionID: "sess-1",
			Date:      time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
			TimeZone:  "America/New_York",
		},
	}
	h := NewHandler(uc, nopLogger{})

	w := serveSlots(h, "sess-1", "?date=2026-03-12&timeZone=America/New_York")

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, uc.lastReq.TimeZone)
	assert.Equal(t, "America/New_York", *uc.lastReq.TimeZone)
}

func TestHandle_OmitsZeroDateRange(t *testing.T) {
	uc := &fakeUseCase{
		resp: &getTimeSlots.Response{
			SessionID: "sess-1",
			Date:      time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
			TimeZone:  "Europe/Moscow",
		},
	}
	h := NewHandler(uc, nopLogger{})

	w := serveSlots(h, "sess-1", "?date=2026-03-12")

	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.NotContains(t, raw, "validDateRange")
}

func TestHandle_BadDate(t *testing.T) {
	uc := &fakeUseCase{err: getTimeSlots.ErrInvalidInput}
	h := NewHandler(uc, nopLogger{})

	w := serveSlots(h, "sess-1", "?date=12.03.2026")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandle_UnknownTimeZone(t *testing.T) {
	uc := &fakeUseCase{err: getTimeSlots.ErrInvalidTimeZone}
	h := NewHandler(uc, nopLogger{})

	w := serveSlots(h, "sess-1", "?date=2026-03-12&timeZone=Mars/Olympus")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandle_WrongStepConflict(t *testing.T) {
	uc := &fakeUseCase{err: getTimeSlots.ErrWrongStep}
	h := NewHandler(uc, nopLogger{})

	w := serveSlots(h, "sess-1", "?date=2026-03-12")

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandle_SessionNotFound(t *testing.T) {
	uc := &fakeUseCase{err: getTimeSlots.ErrSessionNotFound}
	h := NewHandler(uc, nopLogger{})

	w := serveSlots(h, "missing", "?date=2026-03-12")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandle_SchedulingUnavailable(t *testing.T) {
	uc := &fakeUseCase{err: getTimeSlots.ErrSchedulingUnavailable}
	h := NewHandler(uc, nopLogger{})

	w := serveSlots(h, "sess-1", "?date=2026-03-12")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
