package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "jewelpos"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Storage driver names accepted by StorageConfig.Driver.
const (
	StorageDriverSQLite = "sqlite"
	StorageDriverRedis  = "redis"
	StorageDriverMemory = "memory"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	Storage StorageConfig
	Redis   RedisConfig
}

// Load reads configuration from the environment, preloading a local .env
// file when one is present.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"JEWELPOS_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"JEWELPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"JEWELPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig locates the remote catalog/pricing and invoice services.
// The auth token is carried as an opaque bearer string; issuing and
// refreshing it is owned elsewhere.
type BackendConfig struct {
	BaseURL     string        `envconfig:"JEWELPOS_BACKEND_BASE_URL" required:"true"`
	AuthToken   string        `envconfig:"JEWELPOS_BACKEND_AUTH_TOKEN"`
	HTTPTimeout time.Duration `envconfig:"JEWELPOS_BACKEND_HTTP_TIMEOUT" default:"10s"`
}

// StorageConfig selects the durable store backing the staging carts.
type StorageConfig struct {
	Driver     string `envconfig:"JEWELPOS_STORAGE_DRIVER" default:"sqlite"`
	SQLitePath string `envconfig:"JEWELPOS_STORAGE_SQLITE_PATH" default:"jewelpos.db"`
}

func (s StorageConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case StorageDriverSQLite, StorageDriverRedis, StorageDriverMemory:
		return nil
	default:
		return fmt.Errorf("unknown storage driver %q", s.Driver)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"JEWELPOS_REDIS_URL"`
	Address      string        `envconfig:"JEWELPOS_REDIS_ADDR"`
	Password     string        `envconfig:"JEWELPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"JEWELPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"JEWELPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"JEWELPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"JEWELPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"JEWELPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"JEWELPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}
