package list_services

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog"
)

const msgCatalogUnavailable = "каталог услуг временно недоступен"

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListServices(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrCatalogUnavailable):
			h.logger.Warn("GET /services - Catalog unavailable: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgCatalogUnavailable)

		default:
			h.logger.Error("GET /services - Failed to list services: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services - Services returned: count=%d", len(result.Services))
	handlers.RespondJSON(w, http.StatusOK, result)
}
