package catalog

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/catalogservice"
)

// CatalogClient интерфейс клиента каталога услуг
type CatalogClient interface {
	GetServices(ctx context.Context) ([]catalogservice.Service, error)
}

// CatalogCache интерфейс кэша каталога
type CatalogCache interface {
	Get(ctx context.Context) ([]domain.Service, error)
	Set(ctx context.Context, services []domain.Service) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
