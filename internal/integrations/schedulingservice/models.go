package schedulingservice

import "time"

// dateFormat формат календарной даты в протоколе бэкенда планирования
const dateFormat = "2006-01-02"

// SlotsQuery параметры запроса доступных слотов
type SlotsQuery struct {
	DurationID            string
	Date                  time.Time
	TimeZoneOffsetMinutes int
}

// Slot временной интервал, доступный для записи
type Slot struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// DateRange допустимый диапазон дат календаря (даты в формате YYYY-MM-DD)
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SlotsResult ответ бэкенда со слотами и ограничениями календаря
type SlotsResult struct {
	AvailableSlots    []Slot    `json:"availableSlots"`
	ValidDateRange    DateRange `json:"validDateRange"`
	AvailableWeekdays []int     `json:"availableWeekdays"`
}

// BookingRequest запрос на создание бронирования.
// SelectedServiceIDs и CustomerLocation передаются сериализованными
// JSON-строками, так их ожидает протокол бэкенда.
type BookingRequest struct {
	DurationID            string    `json:"durationId"`
	Date                  string    `json:"date"`
	TimeZoneOffsetMinutes int       `json:"timeZoneOffsetMinutes"`
	StartTime             time.Time `json:"startTime"`
	EndTime               time.Time `json:"endTime"`
	CustomerName          string    `json:"customerName"`
	CustomerEmail         string    `json:"customerEmail"`
	CustomerPhone         string    `json:"customerPhone"`
	SelectedServiceIDs    string    `json:"selectedServiceIds"`
	LocationType          string    `json:"locationType"`
	OurLocationAddress    *string   `json:"ourLocationAddress,omitempty"`
	CustomerLocation      *string   `json:"customerLocation,omitempty"`
}

// BookingConfirmation результат успешного бронирования
type BookingConfirmation struct {
	MeetingProvider   string `json:"meetingProvider"`
	MeetLink          string `json:"meetLink"`
	RescheduleLink    string `json:"rescheduleLink"`
	CalendarExportURL string `json:"calendarExportUrl"`
}

// ErrorResponse модель ошибки от бэкенда планирования
type ErrorResponse struct {
	Message string `json:"message"`
}
