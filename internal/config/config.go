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

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	PaymentProviderStripe  = "stripe"
	PaymentProviderSandbox = "sandbox"

	FeePolicyNone     = "none"
	FeePolicyFacility = "facility"
)

var (
	// ErrReadConfig возвращается, если файл конфигурации не удалось прочитать
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается, если конфигурация не прошла валидацию
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Storage  StorageConfig  `toml:"storage"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Engine   EngineConfig   `toml:"engine"`
	Payments PaymentsConfig `toml:"payments"`
	Redis    RedisConfig    `toml:"redis"`
	RabbitMQ RabbitMQConfig `toml:"rabbitmq"`
	Sweeper  SweeperConfig  `toml:"sweeper"`
	Admin    AdminConfig    `toml:"admin"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" validate:"min=1,max=65535"`
	ReadTimeout     int `toml:"read_timeout" validate:"min=1"`
	WriteTimeout    int `toml:"write_timeout" validate:"min=1"`
	IdleTimeout     int `toml:"idle_timeout" validate:"min=1"`
	ShutdownTimeout int `toml:"shutdown_timeout" validate:"min=1"`
}

type StorageConfig struct {
	Driver string `toml:"driver" validate:"oneof=postgres memory"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int    `toml:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" validate:"min=0"`
}

// DSN строка подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path" validate:"required_if=Enabled true"`
	ServiceName string `toml:"service_name" validate:"required_if=Enabled true"`
}

// EngineConfig бизнес-параметры бронирования
type EngineConfig struct {
	PlatformFeeBps            int64  `toml:"platform_fee_bps" validate:"min=0,max=10000"`
	TaxBps                    int64  `toml:"tax_bps" validate:"min=0,max=10000"`
	Currency                  string `toml:"currency" validate:"required,len=3"`
	TimeZone                  string `toml:"timezone" validate:"required"`
	PaymentSessionTTLMinutes  int    `toml:"payment_session_ttl_minutes" validate:"min=1"`
	CancellationNoticeMinutes int    `toml:"cancellation_notice_minutes" validate:"min=0"`
	ModificationNoticeMinutes int    `toml:"modification_notice_minutes" validate:"min=0"`
	ModificationMinDaysAhead  int    `toml:"modification_min_days_ahead" validate:"min=0"`
	ModificationMaxDaysAhead  int    `toml:"modification_max_days_ahead" validate:"gtefield=ModificationMinDaysAhead"`
	AdvanceBookingDays        int    `toml:"advance_booking_days" validate:"min=1,max=365"`
	FeePolicy                 string `toml:"fee_policy" validate:"oneof=none facility"`
}

type PaymentsConfig struct {
	Provider      string `toml:"provider" validate:"oneof=stripe sandbox"`
	PublicBaseURL string `toml:"public_base_url" validate:"required,url"`
	ProductName   string `toml:"product_name"`

	// Секреты приходят из окружения
	StripeSecretKey     string `toml:"-"`
	StripeWebhookSecret string `toml:"-"`
}

type RedisConfig struct {
	Enabled         bool   `toml:"enabled"`
	Addr            string `toml:"addr" validate:"required_if=Enabled true"`
	DB              int    `toml:"db"`
	DedupTTLMinutes int    `toml:"dedup_ttl_minutes" validate:"min=1"`
	Password        string `toml:"-"`
}

type RabbitMQConfig struct {
	Enabled    bool   `toml:"enabled"`
	URL        string `toml:"-"`
	Exchange   string `toml:"exchange" validate:"required_if=Enabled true"`
	BufferSize int    `toml:"buffer_size" validate:"min=1"`
}

type SweeperConfig struct {
	Enabled                   bool `toml:"enabled"`
	ExpiryIntervalSeconds     int  `toml:"expiry_interval_seconds" validate:"min=1"`
	CompletionIntervalSeconds int  `toml:"completion_interval_seconds" validate:"min=1"`
	BatchSize                 int  `toml:"batch_size" validate:"min=1,max=1000"`
}

// AdminConfig пользователи, управляющие слотами и политиками сборов
type AdminConfig struct {
	UserIDs []int64 `toml:"user_ids" validate:"dive,gt=0"`
}

// secrets переменные окружения, перекрывающие файл
type secrets struct {
	DatabasePassword    string `envconfig:"DB_PASSWORD"`
	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET"`
	RedisPassword       string `envconfig:"REDIS_PASSWORD"`
	RabbitURL           string `envconfig:"RABBIT_URL"`
}

// Load читает конфигурацию из TOML-файла, применяет значения по умолчанию,
// подставляет секреты из окружения и валидирует результат
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}
	return Parse(string(data))
}

// Parse разбирает конфигурацию из строки
func Parse(data string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: decode toml: %v", ErrReadConfig, err)
	}

	var env secrets
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("%w: read environment: %v", ErrInvalidConfig, err)
	}
	cfg.applySecrets(env)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default конфигурация по умолчанию
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
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "court_booking_service"},
		Engine: EngineConfig{
			PlatformFeeBps:            domain.DefaultPlatformFeeBps,
			TaxBps:                    domain.DefaultTaxBps,
			Currency:                  domain.DefaultCurrency,
			TimeZone:                  domain.DefaultTimeZone,
			PaymentSessionTTLMinutes:  domain.DefaultPaymentSessionTTLMinutes,
			CancellationNoticeMinutes: domain.DefaultCancellationNoticeMinutes,
			ModificationNoticeMinutes: domain.DefaultModificationNoticeMinutes,
			ModificationMinDaysAhead:  domain.DefaultModificationMinDaysAhead,
			ModificationMaxDaysAhead:  domain.DefaultModificationMaxDaysAhead,
			AdvanceBookingDays:        domain.DefaultAdvanceBookingDays,
			FeePolicy:                 FeePolicyNone,
		},
		Payments: PaymentsConfig{
			Provider:      PaymentProviderSandbox,
			PublicBaseURL: "http://localhost:8080",
			ProductName:   "Court booking",
		},
		Redis:    RedisConfig{DedupTTLMinutes: 24 * 60},
		RabbitMQ: RabbitMQConfig{Exchange: "booking.events", BufferSize: 256},
		Sweeper: SweeperConfig{
			Enabled:                   true,
			ExpiryIntervalSeconds:     domain.DefaultSweepIntervalSeconds,
			CompletionIntervalSeconds: 300,
			BatchSize:                 100,
		},
	}
}

func (c *Config) applySecrets(env secrets) {
	if env.DatabasePassword != "" {
		c.Database.Password = env.DatabasePassword
	}
	if env.StripeSecretKey != "" {
		c.Payments.StripeSecretKey = env.StripeSecretKey
	}
	if env.StripeWebhookSecret != "" {
		c.Payments.StripeWebhookSecret = env.StripeWebhookSecret
	}
	if env.RedisPassword != "" {
		c.Redis.Password = env.RedisPassword
	}
	if env.RabbitURL != "" {
		c.RabbitMQ.URL = env.RabbitURL
	}
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if _, err := time.LoadLocation(c.Engine.TimeZone); err != nil {
		return fmt.Errorf("%w: engine.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Storage.Driver == StorageDriverPostgres && (c.Database.Host == "" || c.Database.DBName == "") {
		return fmt.Errorf("%w: database host and dbname are required for postgres storage", ErrInvalidConfig)
	}
	if c.Payments.Provider == PaymentProviderStripe && c.Payments.StripeSecretKey == "" {
		return fmt.Errorf("%w: STRIPE_SECRET_KEY is required for stripe provider", ErrInvalidConfig)
	}
	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		return fmt.Errorf("%w: RABBIT_URL is required when rabbitmq is enabled", ErrInvalidConfig)
	}
	return nil
}

// Policy собирает бизнес-политику из секции engine
func (c *Config) Policy() (domain.Policy, error) {
	loc, err := time.LoadLocation(c.Engine.TimeZone)
	if err != nil {
		return domain.Policy{}, fmt.Errorf("%w: engine.timezone: %v", ErrInvalidConfig, err)
	}
	return domain.Policy{
		PlatformFeeBps:     c.Engine.PlatformFeeBps,
		TaxBps:             c.Engine.TaxBps,
		Currency:           c.Engine.Currency,
		Location:           loc,
		SessionTTL:         time.Duration(c.Engine.PaymentSessionTTLMinutes) * time.Minute,
		CancellationNotice: time.Duration(c.Engine.CancellationNoticeMinutes) * time.Minute,
		ModificationNotice: time.Duration(c.Engine.ModificationNoticeMinutes) * time.Minute,
		ModifyMinDaysAhead: c.Engine.ModificationMinDaysAhead,
		ModifyMaxDaysAhead: c.Engine.ModificationMaxDaysAhead,
		AdvanceBookingDays: c.Engine.AdvanceBookingDays,
	}, nil
}
