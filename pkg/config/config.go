package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Overpass     OverpassConfig
	Sync         SyncConfig
	Search       SearchConfig
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
	Env          string `envconfig:"DRIVEMAP_APP_ENV" required:"true"`
	Port         string `envconfig:"DRIVEMAP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DRIVEMAP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DRIVEMAP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"DRIVEMAP_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"DRIVEMAP_DB_DSN"`
	Driver string `envconfig:"DRIVEMAP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DRIVEMAP_DB_HOST"`
	LegacyPort     int    `envconfig:"DRIVEMAP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DRIVEMAP_DB_USER"`
	LegacyPassword string `envconfig:"DRIVEMAP_DB_PASSWORD"`
	LegacyName     string `envconfig:"DRIVEMAP_DB_NAME"`
	LegacySSLMode  string `envconfig:"DRIVEMAP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DRIVEMAP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DRIVEMAP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DRIVEMAP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DRIVEMAP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DRIVEMAP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DRIVEMAP_REDIS_ADDR"`
	Password     string        `envconfig:"DRIVEMAP_REDIS_PASSWORD"`
	DB           int           `envconfig:"DRIVEMAP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DRIVEMAP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DRIVEMAP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DRIVEMAP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DRIVEMAP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DRIVEMAP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type OverpassConfig struct {
	BaseURL      string        `envconfig:"DRIVEMAP_OVERPASS_BASE_URL" default:"https://overpass-api.de/api/interpreter"`
	QueryTimeout time.Duration `envconfig:"DRIVEMAP_OVERPASS_QUERY_TIMEOUT" default:"50s"`
	HTTPTimeout  time.Duration `envconfig:"DRIVEMAP_OVERPASS_HTTP_TIMEOUT" default:"60s"`
}

type SyncConfig struct {
	DefaultRegion string        `envconfig:"DRIVEMAP_SYNC_DEFAULT_REGION" default:"BG"`
	LockTTL       time.Duration `envconfig:"DRIVEMAP_SYNC_LOCK_TTL" default:"15m"`
	Interval      time.Duration `envconfig:"DRIVEMAP_SYNC_INTERVAL" default:"24h"`
}

type SearchConfig struct {
	DefaultLimit int `envconfig:"DRIVEMAP_SEARCH_DEFAULT_LIMIT" default:"50"`
	MaxLimit     int `envconfig:"DRIVEMAP_SEARCH_MAX_LIMIT" default:"500"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DRIVEMAP_AUTO_MIGRATE" default:"false"`
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
