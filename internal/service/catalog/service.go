package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	cache "github.com/m04kA/SMC-AppointmentService/internal/infra/cache/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
)

// Service сервис каталога услуг с кэшированием
type Service struct {
	client CatalogClient
	cache  CatalogCache
	log    Logger
}

// NewService создает новый сервис каталога
func NewService(client CatalogClient, catalogCache CatalogCache, log Logger) *Service {
	return &Service{
		client: client,
		cache:  catalogCache,
		log:    log,
	}
}

// ListServices возвращает список доступных услуг для выбора в мастере
func (s *Service) ListServices(ctx context.Context) (*models.ServiceListResponse, error) {
	services, err := s.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}

	return models.FromDomainServices(services), nil
}

// ListEnabled возвращает включенные услуги каталога.
// Сначала проверяет кэш, при промахе обращается к сервису каталога
// и сохраняет результат.
func (s *Service) ListEnabled(ctx context.Context) ([]domain.Service, error) {
	cached, err := s.cache.Get(ctx)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("ListEnabled: failed to read catalog cache: %v", err)
	}

	raw, err := s.client.GetServices(ctx)
	if err != nil {
		s.log.Error("ListEnabled: failed to fetch services from catalog: %v", err)
		if errors.Is(err, catalogservice.ErrUnavailable) {
			return nil, ErrCatalogUnavailable
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	services := make([]domain.Service, 0, len(raw))
	for _, item := range raw {
		if !item.Enabled {
			continue
		}
		services = append(services, domain.Service{
			ID:              item.ID,
			Name:            item.Name,
			Description:     item.Description,
			DurationMinutes: item.DurationMinutes,
			Price:           item.Price,
			Enabled:         item.Enabled,
		})
	}

	if err := s.cache.Set(ctx, services); err != nil {
		s.log.Warn("ListEnabled: failed to update catalog cache: %v", err)
	}

	return services, nil
}
