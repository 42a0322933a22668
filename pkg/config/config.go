package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	LocalStore   LocalStoreConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Cart         CartConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HIVEMART_APP_ENV" default:"dev"`
	Port         string `envconfig:"HIVEMART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"HIVEMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HIVEMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN             string        `envconfig:"HIVEMART_DB_DSN" required:"true"`
	MaxOpenConns    int           `envconfig:"HIVEMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HIVEMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HIVEMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HIVEMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// LocalStoreConfig points at the durable client-local slot database. Cart and
// wishlist snapshots for anonymous sessions live here.
type LocalStoreConfig struct {
	Path string `envconfig:"HIVEMART_LOCALSTORE_PATH" default:"hivemart-local.db"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HIVEMART_REDIS_URL"`
	Address      string        `envconfig:"HIVEMART_REDIS_ADDR"`
	Password     string        `envconfig:"HIVEMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"HIVEMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HIVEMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HIVEMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HIVEMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HIVEMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HIVEMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"HIVEMART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"HIVEMART_JWT_ISSUER" default:"hivemart"`
	ExpirationMinutes int    `envconfig:"HIVEMART_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// Expiration returns the access token TTL.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"HIVEMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"HIVEMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"HIVEMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"HIVEMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"HIVEMART_ARGON_KEY_LEN" default:"32"`
}

// CartConfig tunes the cart engine.
type CartConfig struct {
	RemoteKeyPrefix string        `envconfig:"HIVEMART_CART_REMOTE_KEY_PREFIX" default:"hm:cart"`
	SyncTimeout     time.Duration `envconfig:"HIVEMART_CART_SYNC_TIMEOUT" default:"10s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"HIVEMART_AUTO_MIGRATE" default:"true"`
}
