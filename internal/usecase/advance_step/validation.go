package advance_step

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateCustomerInfo валидирует контактные данные шага 1
func validateCustomerInfo(input *CustomerInfoInput) *domain.ValidationError {
	vErr := domain.NewValidationError(domain.StepCustomerInfo)

	name := strings.TrimSpace(input.Name)
	if len([]rune(name)) < domain.MinNameLength {
		vErr.Add("name", fmt.Sprintf("name must be at least %d characters", domain.MinNameLength))
	}

	if countDigits(input.Phone) < domain.MinPhoneDigits {
		vErr.Add("phone", fmt.Sprintf("phone must contain at least %d digits", domain.MinPhoneDigits))
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		vErr.Add("email", "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		vErr.Add("email", "email must be a valid address")
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// validateServices валидирует выбор услуг шага 2 и возвращает
// нормализованный список без дубликатов
func validateServices(input *ServicesInput, catalog []domain.Service) ([]string, *domain.ValidationError) {
	vErr := domain.NewValidationError(domain.StepServices)

	normalized := dedupeIDs(input.ServiceIDs)
	if len(normalized) == 0 {
		vErr.Add("serviceIds", "at least one service must be selected")
		return nil, vErr
	}

	known := domain.ServiceSet(catalog)
	var unknown []string
	for _, id := range normalized {
		if _, ok := known[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		vErr.Add("serviceIds", fmt.Sprintf("unknown services: %s", strings.Join(unknown, ", ")))
	}

	if vErr.HasErrors() {
		return nil, vErr
	}
	return normalized, nil
}

// validateLocation валидирует место встречи шага 3
func validateLocation(input *LocationInput) *domain.ValidationError {
	vErr := domain.NewValidationError(domain.StepLocation)

	locationType := domain.LocationType(input.Type)
	switch locationType {
	case domain.LocationOur:
		return nil
	case domain.LocationCustomer:
		if input.Address == nil {
			vErr.Add("address", "address is required for customer location")
			return vErr
		}
		if len([]rune(strings.TrimSpace(input.Address.Location))) < domain.MinLocationLength {
			vErr.Add("address.location", fmt.Sprintf("location must be at least %d characters", domain.MinLocationLength))
		}
		if len([]rune(strings.TrimSpace(input.Address.Street))) < domain.MinStreetLength {
			vErr.Add("address.street", fmt.Sprintf("street must be at least %d characters", domain.MinStreetLength))
		}
		if len([]rune(strings.TrimSpace(input.Address.Building))) < domain.MinBuildingLength {
			vErr.Add("address.building", "building is required")
		}
		if vErr.HasErrors() {
			return vErr
		}
		return nil
	default:
		vErr.Add("type", "type must be our_location or customer_location")
		return vErr
	}
}

// validateDateTime валидирует выбранный слот шага 4 и возвращает дату записи
func validateDateTime(input *DateTimeInput) (time.Time, *domain.ValidationError) {
	vErr := domain.NewValidationError(domain.StepDateTime)

	date, err := time.Parse(domain.DateFormat, input.Date)
	if err != nil {
		vErr.Add("date", "date must be in YYYY-MM-DD format")
	}

	if input.StartTime.IsZero() {
		vErr.Add("startTime", "startTime is required")
	}
	if input.EndTime.IsZero() {
		vErr.Add("endTime", "endTime is required")
	}
	if !input.StartTime.IsZero() && !input.EndTime.IsZero() && !input.EndTime.After(input.StartTime) {
		vErr.Add("endTime", "endTime must be after startTime")
	}

	if vErr.HasErrors() {
		return time.Time{}, vErr
	}
	return date, nil
}

// dedupeIDs убирает дубликаты, сохраняя порядок первого вхождения
func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// countDigits подсчитывает количество цифр в строке
func countDigits(s string) int {
	count := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			count++
		}
	}
	return count
}
