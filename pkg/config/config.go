package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	// EnvPrefix scopes every environment variable the service reads.
	EnvPrefix = "AGRILINK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	PayChangu    PayChanguConfig
	Mail         MailConfig
	Uploads      UploadsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.PayChangu.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AGRILINK_APP_ENV" required:"true"`
	Port         string `envconfig:"AGRILINK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AGRILINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AGRILINK_LOG_WARN_STACK" default:"false"`
	BaseURL      string `envconfig:"AGRILINK_APP_BASE_URL" default:"http://localhost:8080"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AGRILINK_DB_DSN"`
	Driver string `envconfig:"AGRILINK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AGRILINK_DB_HOST"`
	LegacyPort     int    `envconfig:"AGRILINK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AGRILINK_DB_USER"`
	LegacyPassword string `envconfig:"AGRILINK_DB_PASSWORD"`
	LegacyName     string `envconfig:"AGRILINK_DB_NAME"`
	LegacySSLMode  string `envconfig:"AGRILINK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AGRILINK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AGRILINK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AGRILINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AGRILINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("either AGRILINK_DB_DSN or AGRILINK_DB_HOST/USER/NAME must be set")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.LegacyUser),
		url.QueryEscape(d.LegacyPassword),
		d.LegacyHost,
		d.LegacyPort,
		d.LegacyName,
		d.LegacySSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"AGRILINK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AGRILINK_REDIS_ADDR"`
	Password     string        `envconfig:"AGRILINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"AGRILINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AGRILINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AGRILINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AGRILINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AGRILINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AGRILINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"AGRILINK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AGRILINK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"AGRILINK_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"AGRILINK_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AGRILINK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AGRILINK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AGRILINK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AGRILINK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AGRILINK_ARGON_KEY_LEN" default:"32"`

	ResetTokenTTL time.Duration `envconfig:"AGRILINK_PASSWORD_RESET_TTL" default:"1h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"AGRILINK_AUTO_MIGRATE" default:"false"`
}

// PaymentFailureMode selects how non-success webhook statuses are handled.
type PaymentFailureMode string

const (
	// PaymentFailureIgnore acknowledges the callback and leaves the order pending.
	PaymentFailureIgnore PaymentFailureMode = "ignore"
	// PaymentFailureMarkFailed transitions the order to the failed state.
	PaymentFailureMarkFailed PaymentFailureMode = "mark_failed"
)

type PayChanguConfig struct {
	PublicKey      string             `envconfig:"AGRILINK_PAYCHANGU_PUBLIC_KEY" required:"true"`
	WebhookSecret  string             `envconfig:"AGRILINK_PAYCHANGU_WEBHOOK_SECRET"`
	Currency       string             `envconfig:"AGRILINK_PAYCHANGU_CURRENCY" default:"MWK"`
	TxRefPrefix    string             `envconfig:"AGRILINK_PAYCHANGU_TX_REF_PREFIX" default:"agri"`
	DeliveryFee    string             `envconfig:"AGRILINK_DELIVERY_FEE" default:"5000"`
	FailureMode    PaymentFailureMode `envconfig:"AGRILINK_PAYCHANGU_FAILURE_MODE" default:"ignore"`
	IdempotencyTTL time.Duration      `envconfig:"AGRILINK_PAYCHANGU_IDEMPOTENCY_TTL" default:"24h"`
}

func (p PayChanguConfig) validate() error {
	switch p.FailureMode {
	case PaymentFailureIgnore, PaymentFailureMarkFailed:
	default:
		return fmt.Errorf("invalid payment failure mode %q", p.FailureMode)
	}
	if _, err := decimal.NewFromString(p.DeliveryFee); err != nil {
		return fmt.Errorf("invalid delivery fee %q: %w", p.DeliveryFee, err)
	}
	return nil
}

// DeliveryFeeAmount parses the configured flat delivery surcharge.
func (p PayChanguConfig) DeliveryFeeAmount() decimal.Decimal {
	fee, err := decimal.NewFromString(p.DeliveryFee)
	if err != nil {
		return decimal.NewFromInt(5000)
	}
	return fee
}

type MailConfig struct {
	APIBaseURL  string        `envconfig:"AGRILINK_MAIL_API_BASE_URL"`
	APIKey      string        `envconfig:"AGRILINK_MAIL_API_KEY"`
	FromName    string        `envconfig:"AGRILINK_MAIL_FROM_NAME" default:"AgriLink Malawi"`
	FromAddress string        `envconfig:"AGRILINK_MAIL_FROM_ADDRESS"`
	Timeout     time.Duration `envconfig:"AGRILINK_MAIL_TIMEOUT" default:"10s"`
}

type UploadsConfig struct {
	Dir          string `envconfig:"AGRILINK_UPLOADS_DIR" default:"static/uploads"`
	MaxSizeBytes int64  `envconfig:"AGRILINK_UPLOADS_MAX_SIZE_BYTES" default:"5242880"`
}
