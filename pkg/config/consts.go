package config

// EnvPrefix is passed to envconfig; all variables share the BOOKHIVE_ prefix.
const EnvPrefix = "bookhive"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "BOOKHIVE_DB_DSN"
	EnvDBHost = "BOOKHIVE_DB_HOST"
	EnvDBUser = "BOOKHIVE_DB_USER"
	EnvDBName = "BOOKHIVE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

// Cart backends selectable at startup. The two are never mixed.
const (
	CartBackendDB      = "db"
	CartBackendSession = "session"
)
