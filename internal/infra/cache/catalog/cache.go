package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const servicesKey = "catalog:services"

// serviceRecord формат хранения услуги каталога в Redis
type serviceRecord struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	Enabled         bool    `json:"enabled"`
}

// Cache кэширует каталог услуг в Redis, снимая нагрузку с каталога
// на каждый шаг выбора услуг
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache создает кэш каталога с заданным временем жизни
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get возвращает каталог услуг из кэша
func (c *Cache) Get(ctx context.Context) ([]domain.Service, error) {
	data, err := c.client.Get(ctx, servicesKey).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get services: %v", ErrUnavailable, err)
	}

	var records []serviceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: unmarshal services: %v", ErrInternal, err)
	}

	services := make([]domain.Service, len(records))
	for i, record := range records {
		services[i] = domain.Service{
			ID:              record.ID,
			Name:            record.Name,
			Description:     record.Description,
			DurationMinutes: record.DurationMinutes,
			Price:           record.Price,
			Enabled:         record.Enabled,
		}
	}

	return services, nil
}

// Set записывает каталог услуг в кэш
func (c *Cache) Set(ctx context.Context, services []domain.Service) error {
	records := make([]serviceRecord, len(services))
	for i, svc := range services {
		records[i] = serviceRecord{
			ID:              svc.ID,
			Name:            svc.Name,
			Description:     svc.Description,
			DurationMinutes: svc.DurationMinutes,
			Price:           svc.Price,
			Enabled:         svc.Enabled,
		}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: marshal services: %v", ErrInternal, err)
	}

	if err := c.client.Set(ctx, servicesKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set services: %v", ErrUnavailable, err)
	}

	return nil
}
