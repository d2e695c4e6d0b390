package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App    AppConfig
	Store  StoreConfig
	DB     DBConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	HTTP   HTTPConfig
	Import ImportConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.App.Port == "" {
		cfg.App.Port = os.Getenv(EnvPortFallback)
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8000"
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverSQLite:
		if strings.TrimSpace(c.DB.DSN) == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvStoreDriver, c.Store.Driver)
		}
	case StoreDriverMongo:
		if strings.TrimSpace(c.Mongo.URI) == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvMongoURI, EnvStoreDriver, c.Store.Driver)
		}
	default:
		return fmt.Errorf("unsupported %s %q (expected postgres, sqlite or mongo)", EnvStoreDriver, c.Store.Driver)
	}
	if c.Import.PageSize <= 0 {
		return fmt.Errorf("import page size must be positive, got %d", c.Import.PageSize)
	}
	if c.Import.Concurrency <= 0 {
		return fmt.Errorf("import concurrency must be positive, got %d", c.Import.Concurrency)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"FOODCATALOG_APP_ENV" default:"dev"`
	Port         string `envconfig:"FOODCATALOG_APP_PORT"`
	LogLevel     string `envconfig:"FOODCATALOG_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FOODCATALOG_LOG_WARN_STACK" default:"false"`
	Version      string `envconfig:"FOODCATALOG_APP_VERSION" default:"1.0.0"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type StoreConfig struct {
	Driver      string `envconfig:"FOODCATALOG_STORE_DRIVER" default:"postgres"`
	AutoMigrate bool   `envconfig:"FOODCATALOG_AUTO_MIGRATE" default:"true"`
}

type DBConfig struct {
	DSN string `envconfig:"FOODCATALOG_DB_DSN"`

	MaxOpenConns    int           `envconfig:"FOODCATALOG_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FOODCATALOG_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FOODCATALOG_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOODCATALOG_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type MongoConfig struct {
	URI            string        `envconfig:"FOODCATALOG_MONGO_URI"`
	Database       string        `envconfig:"FOODCATALOG_MONGO_DB" default:"nutrition_db"`
	Collection     string        `envconfig:"FOODCATALOG_MONGO_COLLECTION" default:"foods"`
	ConnectTimeout time.Duration `envconfig:"FOODCATALOG_MONGO_CONNECT_TIMEOUT" default:"10s"`
}

// RedisConfig is optional; an empty URL disables the import run lock.
type RedisConfig struct {
	URL          string        `envconfig:"FOODCATALOG_REDIS_URL"`
	PoolSize     int           `envconfig:"FOODCATALOG_REDIS_POOL_SIZE" default:"5"`
	DialTimeout  time.Duration `envconfig:"FOODCATALOG_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FOODCATALOG_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FOODCATALOG_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type HTTPConfig struct {
	CORSOrigins     []string      `envconfig:"FOODCATALOG_CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	ReadTimeout     time.Duration `envconfig:"FOODCATALOG_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"FOODCATALOG_HTTP_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"FOODCATALOG_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

type ImportConfig struct {
	OFFBaseURL      string        `envconfig:"FOODCATALOG_OFF_BASE_URL" default:"https://es.openfoodfacts.org"`
	OFFCountry      string        `envconfig:"FOODCATALOG_OFF_COUNTRY" default:"españa"`
	UserAgent       string        `envconfig:"FOODCATALOG_OFF_USER_AGENT" default:"NutriTrack-FoodCatalog/1.0"`
	PageSize        int           `envconfig:"FOODCATALOG_IMPORT_PAGE_SIZE" default:"50"`
	Target          int           `envconfig:"FOODCATALOG_IMPORT_TARGET" default:"500"`
	PageTimeout     time.Duration `envconfig:"FOODCATALOG_IMPORT_PAGE_TIMEOUT" default:"30s"`
	RequestInterval time.Duration `envconfig:"FOODCATALOG_IMPORT_REQUEST_INTERVAL" default:"300ms"`
	Concurrency     int           `envconfig:"FOODCATALOG_IMPORT_CONCURRENCY" default:"1"`
	LockTTL         time.Duration `envconfig:"FOODCATALOG_IMPORT_LOCK_TTL" default:"30m"`
}
