package get_time_slots

import "time"

// Request модель запроса доступных слотов на дату
type Request struct {
	SessionID string  // ID сессии мастера
	Date      string  // Дата в формате YYYY-MM-DD
	TimeZone  *string // Часовой пояс IANA, задается при смене пояса клиентом
}

// Slot доступный для записи интервал
type Slot struct {
	StartTime time.Time // Начало слота
	EndTime   time.Time // Конец слота
}

// DateRange допустимый диапазон дат календаря
type DateRange struct {
	Start time.Time // Первый доступный день
	End   time.Time // Последний доступный день
}

// Response модель ответа со слотами на дату
type Response struct {
	SessionID         string    // ID сессии
	Date              time.Time // Запрошенная дата
	TimeZone          string    // Часовой пояс, в котором выбирались слоты
	Slots             []Slot    // Доступные слоты
	ValidDateRange    DateRange // Границы календаря
	AvailableWeekdays []int     // Дни недели с приемом (0 = воскресенье)
}
