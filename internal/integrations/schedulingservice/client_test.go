package schedulingservice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestClient_GetTimeSlots(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/internal/availability", r.URL.Path)
		assert.Equal(t, "dur-30", r.URL.Query().Get("durationId"))
		assert.Equal(t, "2025-06-02", r.URL.Query().Get("date"))
		assert.Equal(t, "180", r.URL.Query().Get("timeZoneOffsetMinutes"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"availableSlots": [
				{"startTime": "2025-06-02T10:00:00Z", "endTime": "2025-06-02T10:30:00Z"},
				{"startTime": "2025-06-02T10:30:00Z", "endTime": "2025-06-02T11:00:00Z"}
			],
			"validDateRange": {"start": "2025-06-01", "end": "2025-06-30"},
			"availableWeekdays": [1, 2, 3, 4, 5]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nopLogger{})

	result, err := client.GetTimeSlots(context.Background(), SlotsQuery{
		DurationID:            "dur-30",
		Date:                  time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		TimeZoneOffsetMinutes: 180,
	})
	require.NoError(t, err)

	require.Len(t, result.AvailableSlots, 2)
	assert.Equal(t, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), result.AvailableSlots[0].StartTime)
	assert.Equal(t, "2025-06-01", result.ValidDateRange.Start)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, result.AvailableWeekdays)
}

func TestClient_GetTimeSlots_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nopLogger{})

	_, err := client.GetTimeSlots(context.Background(), SlotsQuery{DurationID: "dur-30", Date: time.Now()})
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestClient_CreateBooking(t *testing.T) {
	var received BookingRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/internal/bookings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{
			"meetingProvider": "google_meet",
			"meetLink": "https://meet.example.com/abc",
			"rescheduleLink": "https://book.example.com/r/abc",
			"calendarExportUrl": "https://book.example.com/ics/abc"
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nopLogger{})

	address := "г. Москва, ул. Складочная, д. 3"
	confirmation, err := client.CreateBooking(context.Background(), &BookingRequest{
		DurationID:            "dur-30",
		Date:                  "2025-06-02",
		TimeZoneOffsetMinutes: 180,
		StartTime:             time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		EndTime:               time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC),
		CustomerName:          "Анна Петрова",
		CustomerEmail:         "anna@example.com",
		CustomerPhone:         "+7 900 123-45-67",
		SelectedServiceIDs:    `["consultation"]`,
		LocationType:          "our_location",
		OurLocationAddress:    &address,
	})
	require.NoError(t, err)

	assert.Equal(t, "google_meet", confirmation.MeetingProvider)
	assert.Equal(t, "https://meet.example.com/abc", confirmation.MeetLink)

	// Проверяем, что тело запроса ушло в формате протокола
	assert.Equal(t, "dur-30", received.DurationID)
	assert.Equal(t, "2025-06-02", received.Date)
	assert.Equal(t, `["consultation"]`, received.SelectedServiceIDs)
	require.NotNil(t, received.OurLocationAddress)
	assert.Nil(t, received.CustomerLocation)
}

func TestClient_CreateBooking_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message": "slot is no longer available"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nopLogger{})

	_, err := client.CreateBooking(context.Background(), &BookingRequest{DurationID: "dur-30"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBookingRejected))

	var rejection *RejectionError
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, "slot is no longer available", rejection.Message)
}

func TestClient_CreateBooking_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nopLogger{})

	_, err := client.CreateBooking(context.Background(), &BookingRequest{DurationID: "dur-30"})
	assert.True(t, errors.Is(err, ErrUnavailable))
}
