package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPPort string `envconfig:"APP_PORT" default:"8080"`
	DB       DBConfig
	Kafka    KafkaConfig
	Quote    QuoteConfig
	Scheme   SchemeConfig
	Callback CallbackConfig
	Relay    RelayConfig
}

type DBConfig struct {
	Host     string `envconfig:"POSTGRES_HOST"     required:"true"`
	Port     string `envconfig:"POSTGRES_PORT"     required:"true"`
	User     string `envconfig:"POSTGRES_USER"     required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	DBName   string `envconfig:"POSTGRES_DB"       required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE"  default:"disable"`

	AppName           string        `envconfig:"POSTGRES_APP_NAME"          default:"nexus-gateway"`
	MaxConns          int32         `envconfig:"POSTGRES_MAX_CONNS"         default:"50"`
	MinConns          int32         `envconfig:"POSTGRES_MIN_CONNS"         default:"5"`
	HealthCheckPeriod time.Duration `envconfig:"POSTGRES_HEALTH_CHECK"      default:"30s"`
	ConnectTimeout    time.Duration `envconfig:"POSTGRES_CONNECT_TIMEOUT"   default:"5s"`
	StatementTimeout  time.Duration `envconfig:"POSTGRES_STATEMENT_TIMEOUT" default:"10s"`
	RetryAttempts     int           `envconfig:"POSTGRES_RETRY_ATTEMPTS"    default:"5"`
	RetryDelay        time.Duration `envconfig:"POSTGRES_RETRY_DELAY"       default:"1s"`
	MigrationsPath    string        `envconfig:"MIGRATIONS_PATH"            default:"migrations"`
}

type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic   string   `envconfig:"KAFKA_TOPIC" default:"payment-events"`
	Enabled bool     `envconfig:"KAFKA_ENABLED" default:"true"`
}

type QuoteConfig struct {
	Validity       time.Duration `envconfig:"QUOTE_VALIDITY" default:"600s"`
	SyntheticRates bool          `envconfig:"QUOTE_SYNTHETIC_RATES" default:"false"`
	PivotCurrency  string        `envconfig:"QUOTE_PIVOT_CURRENCY" default:"USD"`
}

type SchemeConfig struct {
	ChargeBearer            string          `envconfig:"SCHEME_CHARGE_BEARER" default:"SHAR"`
	AmountLimit             decimal.Decimal `envconfig:"SCHEME_AMOUNT_LIMIT" default:"50000"`
	DemoTriggers            bool            `envconfig:"SCHEME_DEMO_TRIGGERS" default:"true"`
	InsufficientFundsSuffix string          `envconfig:"SCHEME_INSUFFICIENT_FUNDS_SUFFIX" default:"99999"`
	ClearingSystemCode      string          `envconfig:"SCHEME_DEST_CLEARING_CODE"`
}

type CallbackConfig struct {
	Delay         time.Duration `envconfig:"CALLBACK_DELAY" default:"500ms"`
	MaxAttempts   int           `envconfig:"CALLBACK_MAX_ATTEMPTS" default:"3"`
	Backoff       time.Duration `envconfig:"CALLBACK_BACKOFF" default:"1s"`
	Timeout       time.Duration `envconfig:"CALLBACK_TIMEOUT" default:"10s"`
	Workers       int           `envconfig:"CALLBACK_WORKERS" default:"5"`
	QueueSize     int           `envconfig:"CALLBACK_QUEUE_SIZE" default:"100"`
	SigningSecret string        `envconfig:"CALLBACK_SIGNING_SECRET"`
}

type RelayConfig struct {
	Interval  time.Duration `envconfig:"EVENT_RELAY_INTERVAL" default:"1s"`
	BatchSize int           `envconfig:"EVENT_RELAY_BATCH" default:"100"`
}

func NewConfig() (*Config, error) {
	envFile := "config.env"

	if err := godotenv.Load(envFile); err != nil {
		log.Printf("warning: не удалось загрузить файл %s, используются только системные переменные окружения: %v", envFile, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации: %w", err)
	}

	if cfg.DB.RetryAttempts < 1 {
		return nil, fmt.Errorf("POSTGRES_RETRY_ATTEMPTS должен быть >= 1, получено %d", cfg.DB.RetryAttempts)
	}
	if cfg.DB.MinConns > cfg.DB.MaxConns {
		return nil, fmt.Errorf("POSTGRES_MIN_CONNS (%d) больше POSTGRES_MAX_CONNS (%d)", cfg.DB.MinConns, cfg.DB.MaxConns)
	}

	if cfg.Callback.MaxAttempts < 1 {
		return nil, fmt.Errorf("CALLBACK_MAX_ATTEMPTS должен быть >= 1, получено %d", cfg.Callback.MaxAttempts)
	}

	return &cfg, nil
}

func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func (d *DBConfig) MigrationURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}
