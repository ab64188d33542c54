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
	DB           DBConfig
	Redis        RedisConfig
	Auth         AuthConfig
	Cart         CartConfig
	Checkout     CheckoutConfig
	Pricing      PricingConfig
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
	Env          string `envconfig:"VITRINA_APP_ENV" required:"true"`
	Port         string `envconfig:"VITRINA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VITRINA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VITRINA_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"VITRINA_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VITRINA_DB_DSN"`
	Driver string `envconfig:"VITRINA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VITRINA_DB_HOST"`
	LegacyPort     int    `envconfig:"VITRINA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VITRINA_DB_USER"`
	LegacyPassword string `envconfig:"VITRINA_DB_PASSWORD"`
	LegacyName     string `envconfig:"VITRINA_DB_NAME"`
	LegacySSLMode  string `envconfig:"VITRINA_DB_SSLMODE" default:"require"`

	MaxOpenConns    int           `envconfig:"VITRINA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VITRINA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VITRINA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VITRINA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VITRINA_REDIS_URL"`
	Address      string        `envconfig:"VITRINA_REDIS_ADDR"`
	Password     string        `envconfig:"VITRINA_REDIS_PASSWORD"`
	DB           int           `envconfig:"VITRINA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VITRINA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VITRINA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VITRINA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VITRINA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VITRINA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// AuthConfig describes how tokens minted by the hosted identity provider are verified.
type AuthConfig struct {
	JWTSecret string `envconfig:"VITRINA_AUTH_JWT_SECRET" required:"true"`
	Issuer    string `envconfig:"VITRINA_AUTH_ISSUER"`
	Audience  string `envconfig:"VITRINA_AUTH_AUDIENCE" default:"authenticated"`
	AdminRole string `envconfig:"VITRINA_AUTH_ADMIN_ROLE" default:"admin"`
}

type CartConfig struct {
	TTL           time.Duration `envconfig:"VITRINA_CART_TTL" default:"720h"`
	SessionHeader string        `envconfig:"VITRINA_CART_SESSION_HEADER" default:"X-Cart-Session"`
}

// CheckoutConfig bounds order submission per client.
type CheckoutConfig struct {
	LockTTL         time.Duration `envconfig:"VITRINA_CHECKOUT_LOCK_TTL" default:"30s"`
	RateLimitWindow time.Duration `envconfig:"VITRINA_CHECKOUT_RATE_LIMIT_WINDOW" default:"1m"`
	RateLimitPerIP  int           `envconfig:"VITRINA_CHECKOUT_RATE_LIMIT_PER_IP" default:"10"`
	IdempotencyTTL  time.Duration `envconfig:"VITRINA_CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
}

// PricingConfig seeds the payment policy used when a store has no classification of its own.
type PricingConfig struct {
	DiscountMethods       []string `envconfig:"VITRINA_PRICING_DISCOUNT_METHODS" default:"zelle,binance,zinli,cash"`
	UnsetMethodDiscounted bool     `envconfig:"VITRINA_PRICING_UNSET_METHOD_DISCOUNTED" default:"true"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"VITRINA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"VITRINA_AUTO_MIGRATE" default:"false"`
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
