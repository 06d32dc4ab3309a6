package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every environment variable consumed by the service.
	EnvPrefix = "DROPSHIP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Catalog      CatalogConfig
	Sync         SyncConfig
	Import       ImportConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DROPSHIP_APP_ENV" required:"true"`
	Port         string `envconfig:"DROPSHIP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DROPSHIP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DROPSHIP_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"DROPSHIP_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DROPSHIP_DB_DSN"`
	Driver string `envconfig:"DROPSHIP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DROPSHIP_DB_HOST"`
	LegacyPort     int    `envconfig:"DROPSHIP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DROPSHIP_DB_USER"`
	LegacyPassword string `envconfig:"DROPSHIP_DB_PASSWORD"`
	LegacyName     string `envconfig:"DROPSHIP_DB_NAME"`
	LegacySSLMode  string `envconfig:"DROPSHIP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DROPSHIP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DROPSHIP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DROPSHIP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DROPSHIP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a DSN from the legacy host/port fields when one was not
// provided directly.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("either DROPSHIP_DB_DSN or DROPSHIP_DB_HOST/USER/NAME must be set")
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
	URL          string        `envconfig:"DROPSHIP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DROPSHIP_REDIS_ADDR"`
	Password     string        `envconfig:"DROPSHIP_REDIS_PASSWORD"`
	DB           int           `envconfig:"DROPSHIP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DROPSHIP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DROPSHIP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DROPSHIP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DROPSHIP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DROPSHIP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DROPSHIP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DROPSHIP_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DROPSHIP_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DROPSHIP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DROPSHIP_AUTO_MIGRATE" default:"false"`
}

type CatalogConfig struct {
	RequestTimeout time.Duration `envconfig:"DROPSHIP_CATALOG_REQUEST_TIMEOUT" default:"30s"`
	MaxRetries     int           `envconfig:"DROPSHIP_CATALOG_MAX_RETRIES" default:"2"`
	RetryPause     time.Duration `envconfig:"DROPSHIP_CATALOG_RETRY_PAUSE" default:"1s"`
}

type SyncConfig struct {
	PageSize int           `envconfig:"DROPSHIP_SYNC_PAGE_SIZE" default:"100"`
	MaxPages int           `envconfig:"DROPSHIP_SYNC_MAX_PAGES" default:"20"`
	LockTTL  time.Duration `envconfig:"DROPSHIP_SYNC_LOCK_TTL" default:"15m"`
}

type ImportConfig struct {
	MaxMarkupPercent float64 `envconfig:"DROPSHIP_IMPORT_MAX_MARKUP_PERCENT" default:"1000"`
	MaxBulkErrors    int     `envconfig:"DROPSHIP_IMPORT_MAX_BULK_ERRORS" default:"25"`
}
