package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/wellside/barber-booking/pkg/types"
)

// ErrInvalidConfig возвращается, если конфигурация не прошла валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Redis         RedisConfig         `toml:"redis"`
	Queue         QueueConfig         `toml:"queue"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Auth          AuthConfig          `toml:"auth"`
	Business      BusinessConfig      `toml:"business"`
	Notifications NotificationsConfig `toml:"notifications"`
	Resend        ResendConfig        `toml:"resend"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

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

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	// SessionTTL время хранения снимка grace-сессии, секунды
	SessionTTL int `toml:"session_ttl"`
}

type QueueConfig struct {
	Concurrency int    `toml:"concurrency"`
	Queue       string `toml:"queue"`
	MaxRetry    int    `toml:"max_retry"`
	// TaskTimeout таймаут обработки одной задачи, секунды
	TaskTimeout int `toml:"task_timeout"`
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	Issuer    string `toml:"issuer"`
}

type BusinessConfig struct {
	Timezone string `toml:"timezone"`
	// SlotMinutes длительность слота расписания
	SlotMinutes int              `toml:"slot_minutes"`
	BreakStart  types.TimeString `toml:"break_start"`
	BreakEnd    types.TimeString `toml:"break_end"`
	// GracePeriodSeconds окно отмены перед фиксацией бронирования
	GracePeriodSeconds int `toml:"grace_period_seconds"`
	// CancellationCutoffMinutes минимальный запас до начала визита для отмены
	CancellationCutoffMinutes int `toml:"cancellation_cutoff_minutes"`
	// MaxDaysAhead сколько дней вперёд от сегодняшнего доступно для бронирования, 0 = без ограничений
	MaxDaysAhead int `toml:"max_days_ahead"`
	// AttemptRetentionSeconds сколько держать завершённую сессию в памяти
	AttemptRetentionSeconds int    `toml:"attempt_retention_seconds"`
	Currency                string `toml:"currency"`
}

// Location часовой пояс бизнеса
func (c BusinessConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c BusinessConfig) SlotUnit() time.Duration {
	return time.Duration(c.SlotMinutes) * time.Minute
}

func (c BusinessConfig) GracePeriod() time.Duration {
	return time.Duration(c.GracePeriodSeconds) * time.Second
}

func (c BusinessConfig) CancellationCutoff() time.Duration {
	return time.Duration(c.CancellationCutoffMinutes) * time.Minute
}

func (c BusinessConfig) AttemptRetention() time.Duration {
	return time.Duration(c.AttemptRetentionSeconds) * time.Second
}

type NotificationsConfig struct {
	Enabled bool `toml:"enabled"`
	// BufferSize ёмкость очереди событий диспетчера
	BufferSize int    `toml:"buffer_size"`
	From       string `toml:"from"`
	// AdminEmail адрес администратора на случай, если в profiles нет ни одного admin
	AdminEmail string `toml:"admin_email"`
}

type ResendConfig struct {
	URL     string `toml:"url"`
	APIKey  string `toml:"api_key"`
	Timeout int    `toml:"timeout"`
	// MaxFailures подряд идущих ошибок до размыкания circuit breaker
	MaxFailures int `toml:"max_failures"`
	// OpenTimeout время в разомкнутом состоянии, секунды
	OpenTimeout int `toml:"open_timeout"`
}

// Load читает конфигурацию из TOML файла, подмешивает .env и переменные окружения
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			SessionTTL: 3600,
		},
		Queue: QueueConfig{
			Concurrency: 5,
			Queue:       "notifications",
			MaxRetry:    5,
			TaskTimeout: 30,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "barber-booking",
		},
		Auth: AuthConfig{
			Issuer: "wellside",
		},
		Business: BusinessConfig{
			Timezone:                  "Asia/Kuala_Lumpur",
			SlotMinutes:               60,
			BreakStart:                "19:00",
			BreakEnd:                  "20:00",
			GracePeriodSeconds:        10,
			CancellationCutoffMinutes: 120,
			MaxDaysAhead:              14,
			AttemptRetentionSeconds:   300,
			Currency:                  "MYR",
		},
		Notifications: NotificationsConfig{
			Enabled:    true,
			BufferSize: 256,
			From:       "Wellside <no-reply@mail.wellside.xyz>",
		},
		Resend: ResendConfig{
			URL:         "https://api.resend.com",
			Timeout:     10,
			MaxFailures: 5,
			OpenTimeout: 30,
		},
	}
}

// applyEnv переопределяет секреты из окружения
func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DATABASE_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("RESEND_API_KEY"); v != "" {
		cfg.Resend.APIKey = v
	}
	if v := os.Getenv("BOOKING_EMAIL_FROM"); v != "" {
		cfg.Notifications.From = v
	}
	if v := os.Getenv("BOOKING_ADMIN_EMAIL"); v != "" {
		cfg.Notifications.AdminEmail = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.HTTPPort = port
		}
	}
}

// Validate проверяет бизнес-параметры, без которых сервис не может считать слоты
func (c *Config) Validate() error {
	if _, err := c.Business.Location(); err != nil {
		return fmt.Errorf("%w: business.timezone %q: %v", ErrInvalidConfig, c.Business.Timezone, err)
	}
	if c.Business.SlotMinutes <= 0 {
		return fmt.Errorf("%w: business.slot_minutes must be positive", ErrInvalidConfig)
	}
	if err := c.Business.BreakStart.Validate(); err != nil {
		return fmt.Errorf("%w: business.break_start: %v", ErrInvalidConfig, err)
	}
	if err := c.Business.BreakEnd.Validate(); err != nil {
		return fmt.Errorf("%w: business.break_end: %v", ErrInvalidConfig, err)
	}
	if !c.Business.BreakStart.IsBefore(c.Business.BreakEnd) {
		return fmt.Errorf("%w: business.break_start must be before break_end", ErrInvalidConfig)
	}
	if c.Business.GracePeriodSeconds <= 0 {
		return fmt.Errorf("%w: business.grace_period_seconds must be positive", ErrInvalidConfig)
	}
	if c.Business.CancellationCutoffMinutes < 0 {
		return fmt.Errorf("%w: business.cancellation_cutoff_minutes must not be negative", ErrInvalidConfig)
	}
	if c.Business.MaxDaysAhead < 0 {
		return fmt.Errorf("%w: business.max_days_ahead must not be negative", ErrInvalidConfig)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required (JWT_SECRET)", ErrInvalidConfig)
	}
	return nil
}
