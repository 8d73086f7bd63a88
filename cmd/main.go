package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	advanceStepHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/advance_step"
	cancelWizardHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_wizard"
	getTimeSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_time_slots"
	getWizardHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_wizard"
	listServicesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_services"
	retreatStepHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/retreat_step"
	startWizardHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/start_wizard"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	availabilityCache "github.com/m04kA/SMC-AppointmentService/internal/infra/cache/availability"
	catalogCache "github.com/m04kA/SMC-AppointmentService/internal/infra/cache/catalog"
	sessionRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/session"
	catalogServiceClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/catalogservice"
	schedulingServiceClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/schedulingservice"
	catalogService "github.com/m04kA/SMC-AppointmentService/internal/service/catalog"
	wizardService "github.com/m04kA/SMC-AppointmentService/internal/service/wizard"
	advanceStepUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/advance_step"
	getTimeSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_time_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Подключаемся к Redis (кэш каталога и снапшоты слотов)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to ping redis: %v", err)
	}
	log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	// Инициализируем интеграционных клиентов
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	schedulingClient := schedulingServiceClient.NewClient(
		cfg.SchedulingService.URL,
		time.Duration(cfg.SchedulingService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds, SchedulingService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout, cfg.SchedulingService.URL, cfg.SchedulingService.Timeout)

	// Инициализируем репозиторий сессий (с метриками или без)
	var sessionRepository *sessionRepo.Repository

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		sessionRepository = sessionRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		sessionRepository = sessionRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем кэши
	snapshotCache := availabilityCache.NewCache(
		redisClient,
		time.Duration(cfg.Wizard.SlotsTTLMinutes)*time.Minute,
	)
	servicesCache := catalogCache.NewCache(
		redisClient,
		time.Duration(cfg.Wizard.CatalogCacheTTLSeconds)*time.Second,
	)

	// Бизнес-метрики опциональны: при выключенных метриках сервисы
	// получают nil и пропускают учет событий
	var (
		wizardEvents      wizardService.Metrics
		submissionMetrics advanceStepUC.Metrics
	)
	if cfg.Metrics.Enabled {
		wizardEvents = metricsCollector
		submissionMetrics = metricsCollector
	}

	// Инициализируем сервисы
	wizardSvc := wizardService.NewService(
		sessionRepository,
		snapshotCache,
		wizardEvents,
		wizardService.RealTimeProvider{},
		log,
		time.Duration(cfg.Wizard.SessionTTLMinutes)*time.Minute,
		cfg.Wizard.DefaultTimeZone,
	)
	catalogSvc := catalogService.NewService(
		catalogClient,
		servicesCache,
		log,
	)

	// Инициализируем use cases
	advanceStepUseCase := advanceStepUC.NewUseCase(
		sessionRepository,
		catalogSvc,
		snapshotCache,
		schedulingClient,
		txMgr,
		submissionMetrics,
		log,
		cfg.Wizard.OurLocationAddress,
	)

	getTimeSlotsUseCase := getTimeSlotsUC.NewUseCase(
		sessionRepository,
		snapshotCache,
		schedulingClient,
		log,
	)

	// Инициализируем handlers
	startWizard := startWizardHandler.NewHandler(wizardSvc, log)
	getWizard := getWizardHandler.NewHandler(wizardSvc, log)
	cancelWizard := cancelWizardHandler.NewHandler(wizardSvc, log)
	retreatStep := retreatStepHandler.NewHandler(wizardSvc, log)
	advanceStep := advanceStepHandler.NewHandler(advanceStepUseCase, log)
	getTimeSlots := getTimeSlotsHandler.NewHandler(getTimeSlotsUseCase, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Ограничение частоты запросов (публичный API без аутентификации)
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst, log))
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Каталог услуг ---
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)

	// --- Мастер записи ---
	// Создание новой сессии мастера
	api.HandleFunc("/wizard/sessions", startWizard.Handle).Methods(http.MethodPost)

	// Текущее состояние сессии
	api.HandleFunc("/wizard/sessions/{sessionId}", getWizard.Handle).Methods(http.MethodGet)

	// Отмена сессии
	api.HandleFunc("/wizard/sessions/{sessionId}", cancelWizard.Handle).Methods(http.MethodDelete)

	// Подтверждение текущего шага (на последнем шаге - отправка записи)
	api.HandleFunc("/wizard/sessions/{sessionId}/advance", advanceStep.Handle).Methods(http.MethodPost)

	// Возврат на предыдущий шаг
	api.HandleFunc("/wizard/sessions/{sessionId}/retreat", retreatStep.Handle).Methods(http.MethodPost)

	// Доступные слоты на дату
	api.HandleFunc("/wizard/sessions/{sessionId}/slots", getTimeSlots.Handle).Methods(http.MethodGet)

	// Фоновая очистка истекших сессий
	cleanupInterval := time.Duration(cfg.Wizard.CleanupIntervalMinutes) * time.Minute
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}
	stopJanitorCh := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := wizardSvc.CleanupExpired(context.Background()); err != nil {
					log.Error("Session cleanup run failed: %v", err)
				}
			case <-stopJanitorCh:
				return
			}
		}
	}()
	log.Info("Session cleanup job started (interval=%s)", cleanupInterval)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновую очистку
	close(stopJanitorCh)

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
