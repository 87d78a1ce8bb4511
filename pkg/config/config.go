package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Backend  BackendConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Checkout CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PPB_APP_ENV" required:"true"`
	Port         string `envconfig:"PPB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PPB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PPB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points the terminal at the back-office API that owns
// catalog data, receipt media, and sale records.
type BackendConfig struct {
	BaseURL      string        `envconfig:"PPB_BACKEND_BASE_URL" required:"true"`
	Timeout      time.Duration `envconfig:"PPB_BACKEND_TIMEOUT" default:"15s"`
	ServiceToken string        `envconfig:"PPB_BACKEND_SERVICE_TOKEN"`
}

type JWTConfig struct {
	Secret string `envconfig:"PPB_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"PPB_JWT_ISSUER" required:"true"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PPB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PPB_REDIS_ADDR"`
	Password     string        `envconfig:"PPB_REDIS_PASSWORD"`
	DB           int           `envconfig:"PPB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PPB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PPB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PPB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PPB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PPB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CheckoutConfig struct {
	IdempotencyTTL time.Duration `envconfig:"PPB_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
}
