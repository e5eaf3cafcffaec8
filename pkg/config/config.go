package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App             AppConfig
	Service         ServiceConfig
	DB              DBConfig
	Redis           RedisConfig
	JWT             JWTConfig
	Offers          OffersConfig
	Onboarding      OnboardingConfig
	PublicRateLimit PublicRateLimitConfig
	Cron            CronConfig
	FeatureFlags    FeatureFlagsConfig
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
	Env          string `envconfig:"OPSDECK_APP_ENV" required:"true"`
	Port         string `envconfig:"OPSDECK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"OPSDECK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OPSDECK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"OPSDECK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"OPSDECK_DB_DSN"`
	Driver string `envconfig:"OPSDECK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"OPSDECK_DB_HOST"`
	LegacyPort     int    `envconfig:"OPSDECK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"OPSDECK_DB_USER"`
	LegacyPassword string `envconfig:"OPSDECK_DB_PASSWORD"`
	LegacyName     string `envconfig:"OPSDECK_DB_NAME"`
	LegacySSLMode  string `envconfig:"OPSDECK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OPSDECK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OPSDECK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OPSDECK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OPSDECK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"OPSDECK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"OPSDECK_REDIS_ADDR"`
	Password     string        `envconfig:"OPSDECK_REDIS_PASSWORD"`
	DB           int           `envconfig:"OPSDECK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OPSDECK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OPSDECK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OPSDECK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OPSDECK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OPSDECK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"OPSDECK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"OPSDECK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"OPSDECK_JWT_EXPIRATION_MINUTES" default:"60"`
}

// OffersConfig drives the offer lifecycle: where acceptance links point, how
// long a sent offer stays valid, and how often token minting may retry on a
// uniqueness collision before giving up.
type OffersConfig struct {
	PublicBaseURL   string        `envconfig:"OPSDECK_OFFERS_PUBLIC_BASE_URL" required:"true"`
	SentValidity    time.Duration `envconfig:"OPSDECK_OFFERS_SENT_VALIDITY" default:"720h"`
	TokenRetryLimit int           `envconfig:"OPSDECK_OFFERS_TOKEN_RETRY_LIMIT" default:"5"`
}

type OnboardingConfig struct {
	WebhookURL     string        `envconfig:"OPSDECK_ONBOARDING_WEBHOOK_URL"`
	WebhookTimeout time.Duration `envconfig:"OPSDECK_ONBOARDING_WEBHOOK_TIMEOUT" default:"5s"`
}

type PublicRateLimitConfig struct {
	AcceptWindow  time.Duration `envconfig:"OPSDECK_PUBLIC_RATE_LIMIT_ACCEPT_WINDOW" default:"1m"`
	AcceptIPLimit int           `envconfig:"OPSDECK_PUBLIC_RATE_LIMIT_ACCEPT_IP_LIMIT" default:"30"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"OPSDECK_CRON_INTERVAL" default:"1m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"OPSDECK_AUTO_MIGRATE" default:"false"`
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
