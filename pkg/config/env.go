package config

// EnvPrefix namespaces every MealDash environment variable.
const EnvPrefix = "MEALDASH"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "MEALDASH_DB_DSN"
	EnvDBHost = "MEALDASH_DB_HOST"
	EnvDBUser = "MEALDASH_DB_USER"
	EnvDBName = "MEALDASH_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
