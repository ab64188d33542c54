package config

const (
	EnvPrefix = "VITRINA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "VITRINA_APP_ENV"
	EnvPort     = "VITRINA_APP_PORT"
	EnvLogLevel = "VITRINA_LOG_LEVEL"

	EnvDBDSN  = "VITRINA_DB_DSN"
	EnvDBHost = "VITRINA_DB_HOST"
	EnvDBUser = "VITRINA_DB_USER"
	EnvDBName = "VITRINA_DB_NAME"

	EnvRedisURL = "VITRINA_REDIS_URL"

	EnvAuthJWTSecret = "VITRINA_AUTH_JWT_SECRET"
	EnvAuthIssuer    = "VITRINA_AUTH_ISSUER"

	EnvCartTTL = "VITRINA_CART_TTL"

	EnvPricingDiscountMethods = "VITRINA_PRICING_DISCOUNT_METHODS"
	EnvPricingUnsetDiscounted = "VITRINA_PRICING_UNSET_METHOD_DISCOUNTED"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
