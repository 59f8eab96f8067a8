package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "drivemap"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "DRIVEMAP_APP_ENV"
	EnvPort     = "DRIVEMAP_APP_PORT"
	EnvDBDSN    = "DRIVEMAP_DB_DSN"
	EnvDBHost   = "DRIVEMAP_DB_HOST"
	EnvDBUser   = "DRIVEMAP_DB_USER"
	EnvDBName   = "DRIVEMAP_DB_NAME"
	EnvRedisURL = "DRIVEMAP_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
