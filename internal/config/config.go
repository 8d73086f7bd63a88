package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из TOML файла
type Config struct {
	Server            ServerConfig    `toml:"server"`
	Logs              LogsConfig      `toml:"logs"`
	Database          DatabaseConfig  `toml:"database"`
	Redis             RedisConfig     `toml:"redis"`
	Metrics           MetricsConfig   `toml:"metrics"`
	CatalogService    ClientConfig    `toml:"catalog_service"`
	SchedulingService ClientConfig    `toml:"scheduling_service"`
	Wizard            WizardConfig    `toml:"wizard"`
	RateLimit         RateLimitConfig `toml:"rate_limit"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN собирает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig настройки подключения к Redis
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// ClientConfig настройки интеграционного HTTP клиента (таймаут в секундах)
type ClientConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// WizardConfig настройки мастера записи
type WizardConfig struct {
	// SessionTTLMinutes время жизни незавершенной сессии
	SessionTTLMinutes int `toml:"session_ttl_minutes"`
	// CleanupIntervalMinutes период удаления истекших сессий
	CleanupIntervalMinutes int `toml:"cleanup_interval_minutes"`
	// DefaultTimeZone IANA-зона по умолчанию для новых сессий
	DefaultTimeZone string `toml:"default_time_zone"`
	// OurLocationAddress адрес офиса, подставляется при location_type = our_location
	OurLocationAddress string `toml:"our_location_address"`
	// CatalogCacheTTLSeconds время жизни кэша каталога услуг в Redis
	CatalogCacheTTLSeconds int `toml:"catalog_cache_ttl_seconds"`
	// SlotsTTLMinutes время жизни снапшота доступных слотов в Redis
	SlotsTTLMinutes int `toml:"slots_ttl_minutes"`
}

// RateLimitConfig настройки ограничения частоты запросов по IP
type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
}

// Load читает и разбирает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: validate %s: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("server.http_port must be positive")
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("database.host and database.dbname are required")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if c.CatalogService.URL == "" {
		return fmt.Errorf("catalog_service.url is required")
	}
	if c.SchedulingService.URL == "" {
		return fmt.Errorf("scheduling_service.url is required")
	}
	if c.Wizard.SessionTTLMinutes <= 0 {
		return fmt.Errorf("wizard.session_ttl_minutes must be positive")
	}
	if c.Wizard.OurLocationAddress == "" {
		return fmt.Errorf("wizard.our_location_address is required")
	}
	return nil
}
