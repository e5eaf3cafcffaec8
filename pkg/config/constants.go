package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "OPSDECK"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "OPSDECK_APP_ENV"
	EnvDBDSN  = "OPSDECK_DB_DSN"
	EnvDBHost = "OPSDECK_DB_HOST"
	EnvDBUser = "OPSDECK_DB_USER"
	EnvDBName = "OPSDECK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
