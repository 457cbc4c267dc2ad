package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "MENUORDERS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "MENUORDERS_APP_ENV"
	EnvPort     = "MENUORDERS_APP_PORT"
	EnvLogLevel = "MENUORDERS_LOG_LEVEL"

	EnvDBDSN  = "MENUORDERS_DB_DSN"
	EnvDBHost = "MENUORDERS_DB_HOST"
	EnvDBUser = "MENUORDERS_DB_USER"
	EnvDBName = "MENUORDERS_DB_NAME"

	EnvRedisURL = "MENUORDERS_REDIS_URL"

	EnvCheckoutSessionTTL    = "MENUORDERS_CHECKOUT_SESSION_TTL"
	EnvCheckoutSubmitLockTTL = "MENUORDERS_CHECKOUT_SUBMIT_LOCK_TTL"
	EnvCheckoutSubmitTimeout = "MENUORDERS_CHECKOUT_SUBMIT_TIMEOUT"
	EnvCheckoutDefaultLocale = "MENUORDERS_CHECKOUT_DEFAULT_LOCALE"
	EnvCatalogCacheTTL       = "MENUORDERS_CATALOG_CACHE_TTL"
	EnvWhatsAppBaseURL       = "MENUORDERS_WHATSAPP_BASE_URL"
	EnvCORSAllowedOrigins    = "MENUORDERS_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Checkout     CheckoutConfig
	Catalog      CatalogConfig
	WhatsApp     WhatsAppConfig
	CORS         CORSConfig
	RateLimit    RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	if cfg.FeatureFlags.UseSQLite {
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = cfg.DB.SQLitePath
		}
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MENUORDERS_APP_ENV" required:"true"`
	Port         string `envconfig:"MENUORDERS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MENUORDERS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MENUORDERS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"MENUORDERS_DB_DSN"`
	SQLitePath string `envconfig:"MENUORDERS_DB_SQLITE_PATH" default:"menuorders.db"`

	LegacyHost     string `envconfig:"MENUORDERS_DB_HOST"`
	LegacyPort     int    `envconfig:"MENUORDERS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MENUORDERS_DB_USER"`
	LegacyPassword string `envconfig:"MENUORDERS_DB_PASSWORD"`
	LegacyName     string `envconfig:"MENUORDERS_DB_NAME"`
	LegacySSLMode  string `envconfig:"MENUORDERS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MENUORDERS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MENUORDERS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MENUORDERS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MENUORDERS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MENUORDERS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MENUORDERS_REDIS_ADDR"`
	Password     string        `envconfig:"MENUORDERS_REDIS_PASSWORD"`
	DB           int           `envconfig:"MENUORDERS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MENUORDERS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MENUORDERS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MENUORDERS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MENUORDERS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MENUORDERS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MENUORDERS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MENUORDERS_AUTO_MIGRATE" default:"false"`
}

// CheckoutConfig tunes checkout session lifetimes and submission guards.
type CheckoutConfig struct {
	SessionTTL     time.Duration `envconfig:"MENUORDERS_CHECKOUT_SESSION_TTL" default:"2h"`
	SubmitLockTTL  time.Duration `envconfig:"MENUORDERS_CHECKOUT_SUBMIT_LOCK_TTL" default:"30s"`
	SubmitTimeout  time.Duration `envconfig:"MENUORDERS_CHECKOUT_SUBMIT_TIMEOUT" default:"15s"`
	DefaultLocale  string        `envconfig:"MENUORDERS_CHECKOUT_DEFAULT_LOCALE" default:"en"`
	CurrencyLabel  string        `envconfig:"MENUORDERS_CHECKOUT_CURRENCY_LABEL" default:"SAR"`
	MinPhoneLength int           `envconfig:"MENUORDERS_CHECKOUT_MIN_PHONE_LENGTH" default:"8"`
}

type CatalogConfig struct {
	CacheTTL time.Duration `envconfig:"MENUORDERS_CATALOG_CACHE_TTL" default:"5m"`
}

type WhatsAppConfig struct {
	BaseURL string `envconfig:"MENUORDERS_WHATSAPP_BASE_URL" default:"https://wa.me"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"MENUORDERS_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// RateLimitConfig throttles checkout traffic per client IP and per session.
// A zero window disables the policy.
type RateLimitConfig struct {
	OpenWindow         time.Duration `envconfig:"MENUORDERS_RATE_LIMIT_OPEN_WINDOW" default:"1m"`
	OpenIPLimit        int           `envconfig:"MENUORDERS_RATE_LIMIT_OPEN_IP_LIMIT" default:"30"`
	SubmitWindow       time.Duration `envconfig:"MENUORDERS_RATE_LIMIT_SUBMIT_WINDOW" default:"1m"`
	SubmitIPLimit      int           `envconfig:"MENUORDERS_RATE_LIMIT_SUBMIT_IP_LIMIT" default:"20"`
	SubmitSessionLimit int           `envconfig:"MENUORDERS_RATE_LIMIT_SUBMIT_SESSION_LIMIT" default:"5"`
}

// A store call must finish before the submit lock expires, otherwise a second
// submit could run next to it.
func (c CheckoutConfig) validate() error {
	if c.SubmitTimeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvCheckoutSubmitTimeout)
	}
	if c.SubmitTimeout >= c.SubmitLockTTL {
		return fmt.Errorf("%s (%s) must be shorter than %s (%s)",
			EnvCheckoutSubmitTimeout, c.SubmitTimeout, EnvCheckoutSubmitLockTTL, c.SubmitLockTTL)
	}
	return nil
}

// Locale returns the normalized default locale for message formatting.
func (c CheckoutConfig) Locale() string {
	locale := strings.TrimSpace(strings.ToLower(c.DefaultLocale))
	if locale == "" {
		return "en"
	}
	return locale
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
