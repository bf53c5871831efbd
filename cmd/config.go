package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	HTTPPort    string
	StoreDriver string
	LogLevel    slog.Level

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr string

	KafkaHost             string
	KafkaOrderEventsTopic string

	JWTSecret         string
	DefaultCurrency   string
	VariantSeedPath   string
	PromotionSeedPath string

	WebhookWorkers        int
	WebhookQueueSize      int
	WebhookMaxAttempts    int
	WebhookAttemptTimeout time.Duration
	WebhookRetrySchedule  string
}

// DSN is the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadConfig reads the configuration from the environment. Variables in
// envFile are added first; a missing file is not an error and variables
// already set in the environment win.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "storefront")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("KAFKA_HOST", "")
	v.SetDefault("KAFKA_ORDER_EVENTS_TOPIC", "order-events")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("DEFAULT_CURRENCY", "USD")
	v.SetDefault("VARIANT_SEED_PATH", "")
	v.SetDefault("PROMOTION_SEED_PATH", "")
	v.SetDefault("WEBHOOK_WORKERS", 4)
	v.SetDefault("WEBHOOK_QUEUE_SIZE", 256)
	v.SetDefault("WEBHOOK_MAX_ATTEMPTS", 5)
	v.SetDefault("WEBHOOK_ATTEMPT_TIMEOUT", "10s")
	v.SetDefault("WEBHOOK_RETRY_SCHEDULE", "*/30 * * * * *")

	cfg := Config{
		HTTPPort:              v.GetString("HTTP_PORT"),
		StoreDriver:           strings.ToLower(v.GetString("STORE_DRIVER")),
		DBHost:                v.GetString("DB_HOST"),
		DBPort:                v.GetString("DB_PORT"),
		DBUser:                v.GetString("DB_USER"),
		DBPassword:            v.GetString("DB_PASSWORD"),
		DBName:                v.GetString("DB_NAME"),
		DBSslMode:             v.GetString("DB_SSLMODE"),
		RedisAddr:             v.GetString("REDIS_ADDR"),
		KafkaHost:             v.GetString("KAFKA_HOST"),
		KafkaOrderEventsTopic: v.GetString("KAFKA_ORDER_EVENTS_TOPIC"),
		JWTSecret:             v.GetString("JWT_SECRET"),
		DefaultCurrency:       strings.ToUpper(v.GetString("DEFAULT_CURRENCY")),
		VariantSeedPath:       v.GetString("VARIANT_SEED_PATH"),
		PromotionSeedPath:     v.GetString("PROMOTION_SEED_PATH"),
		WebhookWorkers:        v.GetInt("WEBHOOK_WORKERS"),
		WebhookQueueSize:      v.GetInt("WEBHOOK_QUEUE_SIZE"),
		WebhookMaxAttempts:    v.GetInt("WEBHOOK_MAX_ATTEMPTS"),
		WebhookAttemptTimeout: v.GetDuration("WEBHOOK_ATTEMPT_TIMEOUT"),
		WebhookRetrySchedule:  v.GetString("WEBHOOK_RETRY_SCHEDULE"),
	}

	var errLevel error
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		errLevel = fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if err := errors.Join(errLevel, cfg.validate()); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.StoreDriver != StoreDriverPostgres && c.StoreDriver != StoreDriverMemory {
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q",
			StoreDriverPostgres, StoreDriverMemory, c.StoreDriver))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if len(c.DefaultCurrency) != 3 {
		errs = append(errs, fmt.Errorf("DEFAULT_CURRENCY must be a three letter code, got %q", c.DefaultCurrency))
	}
	if c.WebhookWorkers <= 0 {
		errs = append(errs, errors.New("WEBHOOK_WORKERS must be positive"))
	}
	if c.WebhookQueueSize <= 0 {
		errs = append(errs, errors.New("WEBHOOK_QUEUE_SIZE must be positive"))
	}
	if c.WebhookMaxAttempts <= 0 {
		errs = append(errs, errors.New("WEBHOOK_MAX_ATTEMPTS must be positive"))
	}
	if c.WebhookAttemptTimeout <= 0 {
		errs = append(errs, errors.New("WEBHOOK_ATTEMPT_TIMEOUT must be a positive duration"))
	}
	return errors.Join(errs...)
}
