package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// StartWizardRequest - запрос на создание новой сессии мастера
type StartWizardRequest struct {
	DurationID string  `json:"durationId"`
	TimeZone   *string `json:"timeZone,omitempty"`
}

// CustomerInfo - контактные данные клиента (шаг 1)
type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// ServiceSelection - выбранные услуги (шаг 2)
type ServiceSelection struct {
	ServiceIDs []string `json:"serviceIds"`
}

// CustomerAddress - адрес клиента для выезда
type CustomerAddress struct {
	Location  string  `json:"location"`
	Street    string  `json:"street"`
	Building  string  `json:"building"`
	Apartment *string `json:"apartment,omitempty"`
}

// Location - место встречи (шаг 3)
type Location struct {
	Type    string           `json:"type"`
	Address *CustomerAddress `json:"address,omitempty"`
}

// Schedule - выбранные дата и время (шаг 4)
type Schedule struct {
	Date      string    `json:"date"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	TimeZone  string    `json:"timeZone"`
}

// Confirmation - данные подтвержденной записи
type Confirmation struct {
	MeetingProvider   string `json:"meetingProvider,omitempty"`
	MeetLink          string `json:"meetLink,omitempty"`
	RescheduleLink    string `json:"rescheduleLink,omitempty"`
	CalendarExportURL string `json:"calendarExportUrl,omitempty"`
}

// SessionResponse - полное состояние сессии мастера
type SessionResponse struct {
	ID                  string            `json:"id"`
	DurationID          string            `json:"durationId"`
	TimeZone            string            `json:"timeZone"`
	Status              string            `json:"status"`
	CurrentStep         int               `json:"currentStep"`
	CustomerInfo        *CustomerInfo     `json:"customerInfo,omitempty"`
	Services            *ServiceSelection `json:"services,omitempty"`
	Location            *Location         `json:"location,omitempty"`
	DateTime            *Schedule         `json:"dateTime,omitempty"`
	Confirmation        *Confirmation     `json:"confirmation,omitempty"`
	LastSubmissionError *string           `json:"lastSubmissionError,omitempty"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
	ExpiresAt           time.Time         `json:"expiresAt"`
}

// FromDomainSession конвертирует доменную сессию в DTO ответа
func FromDomainSession(session *domain.WizardSession) *SessionResponse {
	resp := &SessionResponse{
		ID:                  session.ID,
		DurationID:          session.DurationID,
		TimeZone:            session.TimeZone,
		Status:              string(session.Status),
		CurrentStep:         int(session.CurrentStep),
		LastSubmissionError: session.LastSubmissionError,
		CreatedAt:           session.CreatedAt,
		UpdatedAt:           session.UpdatedAt,
		ExpiresAt:           session.ExpiresAt,
	}

	if session.Customer != nil {
		resp.CustomerInfo = &CustomerInfo{
			Name:  session.Customer.Name,
			Phone: session.Customer.Phone,
			Email: session.Customer.Email,
		}
	}

	if session.Services != nil {
		resp.Services = &ServiceSelection{ServiceIDs: session.Services.ServiceIDs}
	}

	if session.Location != nil {
		loc := &Location{Type: string(session.Location.Type)}
		if session.Location.Address != nil {
			loc.Address = &CustomerAddress{
				Location:  session.Location.Address.Location,
				Street:    session.Location.Address.Street,
				Building:  session.Location.Address.Building,
				Apartment: session.Location.Address.Apartment,
			}
		}
		resp.Location = loc
	}

	if session.Schedule != nil {
		resp.DateTime = &Schedule{
			Date:      session.Schedule.Date.Format(domain.DateFormat),
			StartTime: session.Schedule.StartTime,
			EndTime:   session.Schedule.EndTime,
			TimeZone:  session.Schedule.TimeZone,
		}
	}

	if session.Confirmation != nil {
		resp.Confirmation = &Confirmation{
			MeetingProvider:   session.Confirmation.MeetingProvider,
			MeetLink:          session.Confirmation.MeetLink,
			RescheduleLink:    session.Confirmation.RescheduleLink,
			CalendarExportURL: session.Confirmation.CalendarExportURL,
		}
	}

	return resp
}
