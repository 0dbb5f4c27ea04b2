package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/pkg/types"
)

// EnvPrefix префикс переменных окружения, переопределяющих config.toml
const EnvPrefix = "ARTIST_BOOKING"

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server" split_words:"true"`
	Storage       StorageConfig       `toml:"storage" split_words:"true"`
	Database      DatabaseConfig      `toml:"database" split_words:"true"`
	Logs          LogsConfig          `toml:"logs" split_words:"true"`
	Metrics       MetricsConfig       `toml:"metrics" split_words:"true"`
	Tracing       TracingConfig       `toml:"tracing" split_words:"true"`
	Redis         RedisConfig         `toml:"redis" split_words:"true"`
	Kafka         KafkaConfig         `toml:"kafka" split_words:"true"`
	ArtistService ArtistServiceConfig `toml:"artist_service" split_words:"true"`
	Availability  AvailabilityConfig  `toml:"availability" split_words:"true"`
	Booking       BookingConfig       `toml:"booking" split_words:"true"`
	Sweeper       SweeperConfig       `toml:"sweeper" split_words:"true"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true" validate:"min=1,max=65535"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true" validate:"min=1"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true" validate:"min=1"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true" validate:"min=1"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true" validate:"min=1"`
}

type StorageConfig struct {
	Driver string `toml:"driver" split_words:"true" validate:"oneof=postgres memory"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" split_words:"true"`
	Port            int    `toml:"port" split_words:"true"`
	User            string `toml:"user" split_words:"true"`
	Password        string `toml:"password" split_words:"true"`
	DBName          string `toml:"dbname" split_words:"true"`
	SSLMode         string `toml:"sslmode" split_words:"true"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file" split_words:"true"`
	Level string `toml:"level" split_words:"true" validate:"oneof=debug info warn error"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	Path        string `toml:"path" split_words:"true" validate:"required_if=Enabled true"`
	ServiceName string `toml:"service_name" split_words:"true" validate:"required_if=Enabled true"`
}

type TracingConfig struct {
	Enabled      bool    `toml:"enabled" split_words:"true"`
	ServiceName  string  `toml:"service_name" split_words:"true"`
	OTLPEndpoint string  `toml:"otlp_endpoint" split_words:"true" validate:"required_if=Enabled true"`
	SampleRatio  float64 `toml:"sample_ratio" split_words:"true" validate:"min=0,max=1"`
}

type RedisConfig struct {
	Enabled   bool   `toml:"enabled" split_words:"true"`
	Addr      string `toml:"addr" split_words:"true" validate:"required_if=Enabled true"`
	Password  string `toml:"password" split_words:"true"`
	DB        int    `toml:"db" split_words:"true"`
	TTL       int    `toml:"ttl" split_words:"true" validate:"min=0"`
	KeyPrefix string `toml:"key_prefix" split_words:"true"`
}

type KafkaConfig struct {
	Enabled bool   `toml:"enabled" split_words:"true"`
	Brokers string `toml:"brokers" split_words:"true" validate:"required_if=Enabled true"`
	Topic   string `toml:"topic" split_words:"true" validate:"required_if=Enabled true"`
}

type ArtistServiceConfig struct {
	Enabled bool   `toml:"enabled" split_words:"true"`
	URL     string `toml:"url" split_words:"true" validate:"required_if=Enabled true"`
	Timeout int    `toml:"timeout" split_words:"true" validate:"min=0"`
}

type AvailabilityConfig struct {
	DefaultSlots []string `toml:"default_slots" split_words:"true"`
	MaxRangeDays int      `toml:"max_range_days" split_words:"true" validate:"min=0"`
}

// Slots шаблон слотов по умолчанию. Пустой шаблон в конфиге - 09:00-17:00.
func (a AvailabilityConfig) Slots() []types.TimeString {
	if len(a.DefaultSlots) == 0 {
		return domain.DefaultSlots()
	}
	slots := make([]types.TimeString, len(a.DefaultSlots))
	for i, s := range a.DefaultSlots {
		slots[i] = types.TimeString(s)
	}
	return slots
}

type BookingConfig struct {
	// Timezone часовой пояс настенных часов артистов (IANA)
	Timezone string `toml:"timezone" split_words:"true"`
}

// Location возвращает часовой пояс бронирований, по умолчанию UTC
func (b BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(b.Timezone)
}

type SweeperConfig struct {
	Enabled  bool `toml:"enabled" split_words:"true"`
	Interval int  `toml:"interval" split_words:"true" validate:"required_if=Enabled true,min=0"`
}

// Load читает config.toml, применяет переменные окружения ARTIST_BOOKING_* и проверяет результат
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default конфигурация с безопасными значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Storage: StorageConfig{Driver: StorageDriverPostgres},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs:          LogsConfig{Level: "info"},
		Metrics:       MetricsConfig{Path: "/metrics", ServiceName: "artist-booking"},
		Tracing:       TracingConfig{ServiceName: "artist-booking", SampleRatio: 1},
		Redis:         RedisConfig{TTL: 60, KeyPrefix: "artist-booking:availability"},
		Kafka:         KafkaConfig{Topic: "artist-booking.events"},
		ArtistService: ArtistServiceConfig{Timeout: 2},
		Availability:  AvailabilityConfig{MaxRangeDays: domain.DefaultMaxRangeDays},
		Booking:       BookingConfig{Timezone: domain.DefaultTimezone},
		Sweeper:       SweeperConfig{Interval: 300},
	}
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate проверяет значения, которые нельзя исправить по умолчанию
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.Storage.Driver == StorageDriverPostgres && (c.Database.Host == "" || c.Database.DBName == "") {
		return fmt.Errorf("%w: database host and dbname are required for postgres storage", ErrInvalidConfig)
	}

	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}

	if _, err := domain.NormalizeSlots(c.Availability.Slots()); err != nil {
		return fmt.Errorf("%w: availability.default_slots: %v", ErrInvalidConfig, err)
	}

	return nil
}
