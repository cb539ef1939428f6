package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is shared by every configuration variable.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "GRANIZO_APP_ENV"
	EnvPort     = "GRANIZO_APP_PORT"
	EnvRedisURL = "GRANIZO_REDIS_URL"
	EnvDBDSN    = "GRANIZO_DB_DSN"
	EnvDBHost   = "GRANIZO_DB_HOST"
	EnvDBUser   = "GRANIZO_DB_USER"
	EnvDBName   = "GRANIZO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	POS          POSConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"GRANIZO_APP_ENV" required:"true"`
	Port         string `envconfig:"GRANIZO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GRANIZO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GRANIZO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GRANIZO_DB_DSN"`
	Driver string `envconfig:"GRANIZO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GRANIZO_DB_HOST"`
	LegacyPort     int    `envconfig:"GRANIZO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GRANIZO_DB_USER"`
	LegacyPassword string `envconfig:"GRANIZO_DB_PASSWORD"`
	LegacyName     string `envconfig:"GRANIZO_DB_NAME"`
	LegacySSLMode  string `envconfig:"GRANIZO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GRANIZO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GRANIZO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GRANIZO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GRANIZO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GRANIZO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GRANIZO_REDIS_ADDR"`
	Password     string        `envconfig:"GRANIZO_REDIS_PASSWORD"`
	DB           int           `envconfig:"GRANIZO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GRANIZO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GRANIZO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GRANIZO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GRANIZO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GRANIZO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// POSConfig tunes terminal session behavior.
type POSConfig struct {
	DefaultStoreID         string        `envconfig:"GRANIZO_POS_DEFAULT_STORE_ID" default:"00000000-0000-0000-0000-000000000001"`
	SessionSnapshotTTL     time.Duration `envconfig:"GRANIZO_POS_SESSION_SNAPSHOT_TTL" default:"12h"`
	CheckoutIdempotencyTTL time.Duration `envconfig:"GRANIZO_POS_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
	TerminalRateWindow     time.Duration `envconfig:"GRANIZO_POS_TERMINAL_RATE_WINDOW" default:"1m"`
	TerminalRateLimit      int           `envconfig:"GRANIZO_POS_TERMINAL_RATE_LIMIT" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GRANIZO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GRANIZO_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
