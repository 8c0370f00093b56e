package constants

const (
	ViperServerAddr        = "server.addr"
	ViperServerCORSOrigins = "server.cors_origins"
	ViperLogLevel          = "log.level"

	ViperStorageDriver = "storage.driver"
	ViperPostgresDSN   = "postgres.dsn"
	ViperRedisAddr     = "redis.addr"
	ViperRedisPassword = "redis.password"
	ViperRedisDB       = "redis.db"

	ViperSecretKey       = "auth.secret"
	ViperAccessTokenTTL  = "auth.access_ttl"
	ViperRefreshTokenTTL = "auth.refresh_ttl"

	ViperAdminUsername = "admin.username"
	ViperAdminPassword = "admin.password"
	ViperAdminEmail    = "admin.email"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

const (
	CtxKeyActor   = "actor"
	CtxKeyTokenID = "token_id"
	CtxKeyToken   = "token"

	HeaderAuthorization = "Authorization"
	BearerPrefix        = "Bearer "
)
