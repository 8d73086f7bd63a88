package catalogservice

// Service модель услуги из каталога
type Service struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	Enabled         bool    `json:"enabled"`
}

// ServicesResponse ответ каталога со списком услуг
type ServicesResponse struct {
	Services []Service `json:"services"`
}

// ErrorResponse модель ошибки от каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
