package config

const (
	// EnvPrefix is the envconfig prefix shared by every FundiHub binary.
	EnvPrefix = "FUNDIHUB"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "FUNDIHUB_DB_DSN"
	EnvDBHost = "FUNDIHUB_DB_HOST"
	EnvDBUser = "FUNDIHUB_DB_USER"
	EnvDBName = "FUNDIHUB_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
