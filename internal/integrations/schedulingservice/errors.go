package schedulingservice

import (
	"errors"
	"fmt"
)

var (
	// ErrBookingRejected возвращается, когда бэкенд планирования отклонил бронирование
	ErrBookingRejected = errors.New("schedulingservice client: booking rejected")

	// ErrUnavailable возвращается, когда бэкенд планирования недоступен (сеть, таймаут, 5xx)
	ErrUnavailable = errors.New("schedulingservice client: service unavailable")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("schedulingservice client: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("schedulingservice client: internal error")
)

// RejectionError несет причину отказа, которую вернул бэкенд.
// Сообщение сохраняется, чтобы показать его клиенту при неудачной отправке.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string {
	if e.Message == "" {
		return ErrBookingRejected.Error()
	}
	return fmt.Sprintf("%v: %s", ErrBookingRejected, e.Message)
}

// Unwrap поддерживает errors.Is(err, ErrBookingRejected)
func (e *RejectionError) Unwrap() error {
	return ErrBookingRejected
}
