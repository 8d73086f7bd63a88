package domain

// Service represents an offerable service from the catalog
type Service struct {
	ID              string
	Name            string
	Description     *string
	DurationMinutes int
	Price           float64
	Enabled         bool
}

// ServiceSet builds a lookup set of service ids for membership checks
func ServiceSet(services []Service) map[string]struct{} {
	set := make(map[string]struct{}, len(services))
	for _, svc := range services {
		set[svc.ID] = struct{}{}
	}
	return set
}
