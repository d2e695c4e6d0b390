package config

const (
	EnvPrefix = "FOODCATALOG"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv       = "FOODCATALOG_APP_ENV"
	EnvPort         = "FOODCATALOG_APP_PORT"
	EnvPortFallback = "PORT"
	EnvLogLevel     = "FOODCATALOG_LOG_LEVEL"

	EnvStoreDriver = "FOODCATALOG_STORE_DRIVER"
	EnvDBDSN       = "FOODCATALOG_DB_DSN"
	EnvAutoMigrate = "FOODCATALOG_AUTO_MIGRATE"

	EnvMongoURI        = "FOODCATALOG_MONGO_URI"
	EnvMongoDB         = "FOODCATALOG_MONGO_DB"
	EnvMongoCollection = "FOODCATALOG_MONGO_COLLECTION"

	EnvRedisURL    = "FOODCATALOG_REDIS_URL"
	EnvCORSOrigins = "FOODCATALOG_CORS_ORIGINS"

	EnvOFFBaseURL = "FOODCATALOG_OFF_BASE_URL"
	EnvOFFCountry = "FOODCATALOG_OFF_COUNTRY"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMongo    = "mongo"
)
