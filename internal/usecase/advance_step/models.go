package advance_step

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на подтверждение текущего шага мастера.
// Заполняется ровно одно поле полезной нагрузки, соответствующее
// текущему шагу сессии.
type Request struct {
	SessionID    string             // ID сессии мастера
	CustomerInfo *CustomerInfoInput // Данные шага 1
	Services     *ServicesInput     // Данные шага 2
	Location     *LocationInput     // Данные шага 3
	DateTime     *DateTimeInput     // Данные шага 4
}

// CustomerInfoInput контактные данные клиента
type CustomerInfoInput struct {
	Name  string
	Phone string
	Email string
}

// ServicesInput выбранные услуги каталога
type ServicesInput struct {
	ServiceIDs []string
}

// LocationInput место встречи
type LocationInput struct {
	Type    string        // our_location или customer_location
	Address *AddressInput // Обязателен для customer_location
}

// AddressInput адрес клиента для выезда
type AddressInput struct {
	Location  string
	Street    string
	Building  string
	Apartment *string
}

// DateTimeInput выбранный слот
type DateTimeInput struct {
	Date      string    // Дата записи в формате YYYY-MM-DD
	StartTime time.Time // Начало слота
	EndTime   time.Time // Конец слота
}

// Response модель ответа с состоянием сессии после шага
type Response struct {
	Session *domain.WizardSession
}
