package advance_step

import (
	"time"

	advanceStep "github.com/m04kA/SMC-AppointmentService/internal/usecase/advance_step"
)

// AdvanceStepRequest HTTP request model.
// Клиент заполняет ровно одно поле - данные текущего шага сессии.
type AdvanceStepRequest struct {
	CustomerInfo *CustomerInfoPayload `json:"customerInfo,omitempty"`
	Services     *ServicesPayload     `json:"services,omitempty"`
	Location     *LocationPayload     `json:"location,omitempty"`
	DateTime     *DateTimePayload     `json:"dateTime,omitempty"`
}

// CustomerInfoPayload данные шага контактов
type CustomerInfoPayload struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// ServicesPayload данные шага выбора услуг
type ServicesPayload struct {
	ServiceIDs []string `json:"serviceIds"`
}

// LocationPayload данные шага выбора места встречи
type LocationPayload struct {
	LocationType string          `json:"locationType"`
	Address      *AddressPayload `json:"address,omitempty"`
}

// AddressPayload адрес клиента для выезда
type AddressPayload struct {
	Location  string  `json:"location"`
	Street    string  `json:"street"`
	Building  string  `json:"building"`
	Apartment *string `json:"apartment,omitempty"`
}

// DateTimePayload данные шага выбора слота
type DateTimePayload struct {
	Date      string    `json:"date"` // "2026-03-12"
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *AdvanceStepRequest) ToUseCaseRequest(sessionID string) *advanceStep.Request {
	req := &advanceStep.Request{
		SessionID: sessionID,
	}

	if r.CustomerInfo != nil {
		req.CustomerInfo = &advanceStep.CustomerInfoInput{
			Name:  r.CustomerInfo.Name,
			Phone: r.CustomerInfo.Phone,
			Email: r.CustomerInfo.Email,
		}
	}

	if r.Services != nil {
		req.Services = &advanceStep.ServicesInput{
			ServiceIDs: r.Services.ServiceIDs,
		}
	}

	if r.Location != nil {
		req.Location = &advanceStep.LocationInput{
			Type: r.Location.LocationType,
		}
		if r.Location.Address != nil {
			req.Location.Address = &advanceStep.AddressInput{
				Location:  r.Location.Address.Location,
				Street:    r.Location.Address.Street,
				Building:  r.Location.Address.Building,
				Apartment: r.Location.Address.Apartment,
			}
		}
	}

	if r.DateTime != nil {
		req.DateTime = &advanceStep.DateTimeInput{
			Date:      r.DateTime.Date,
			StartTime: r.DateTime.StartTime,
			EndTime:   r.DateTime.EndTime,
		}
	}

	return req
}
