package get_time_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getTimeSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_time_slots"
)

// TimeSlotsResponse HTTP response model
type TimeSlotsResponse struct {
	SessionID         string             `json:"sessionId"`
	Date              string             `json:"date"`
	TimeZone          string             `json:"timeZone"`
	Slots             []SlotResponse     `json:"slots"`
	ValidDateRange    *DateRangeResponse `json:"validDateRange,omitempty"`
	AvailableWeekdays []int              `json:"availableWeekdays,omitempty"`
}

// SlotResponse доступный интервал записи
type SlotResponse struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// DateRangeResponse границы календаря записи
type DateRangeResponse struct {
	Start string `json:"start"` // "2026-03-01"
	End   string `json:"end"`   // "2026-04-30"
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getTimeSlots.Response) *TimeSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}

	result := &TimeSlotsResponse{
		SessionID:         resp.SessionID,
		Date:              resp.Date.Format(domain.DateFormat),
		TimeZone:          resp.TimeZone,
		Slots:             slots,
		AvailableWeekdays: resp.AvailableWeekdays,
	}

	if !resp.ValidDateRange.Start.IsZero() && !resp.ValidDateRange.End.IsZero() {
		result.ValidDateRange = &DateRangeResponse{
			Start: resp.ValidDateRange.Start.Format(domain.DateFormat),
			End:   resp.ValidDateRange.End.Format(domain.DateFormat),
		}
	}

	return result
}
