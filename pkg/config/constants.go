package config

const (
	EnvPrefix = "ppb"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv         = "PPB_APP_ENV"
	EnvPort           = "PPB_APP_PORT"
	EnvBackendBaseURL = "PPB_BACKEND_BASE_URL"
	EnvRedisURL       = "PPB_REDIS_URL"
	EnvJWTSecret      = "PPB_JWT_SECRET"
	EnvJWTIssuer      = "PPB_JWT_ISSUER"
)
