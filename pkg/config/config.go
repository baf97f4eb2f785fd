package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "NEXA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "NEXA_APP_ENV"
	EnvPort       = "NEXA_APP_PORT"
	EnvDBDSN      = "NEXA_DB_DSN"
	EnvDBHost     = "NEXA_DB_HOST"
	EnvDBUser     = "NEXA_DB_USER"
	EnvDBName     = "NEXA_DB_NAME"
	EnvRedisURL   = "NEXA_REDIS_URL"
	EnvJWTSecret  = "NEXA_JWT_SECRET"
	EnvJWTIssuer  = "NEXA_JWT_ISSUER"
	EnvJWTExpMins = "NEXA_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Auth          AuthConfig
	Limits        LimitsConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Limits.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"NEXA_APP_ENV" required:"true"`
	Port            string        `envconfig:"NEXA_APP_PORT" default:"3333"`
	LogLevel        string        `envconfig:"NEXA_LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"NEXA_LOG_FORMAT" default:"json"`
	LogWarnStack    bool          `envconfig:"NEXA_LOG_WARN_STACK" default:"false"`
	ReadTimeout     time.Duration `envconfig:"NEXA_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"NEXA_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"NEXA_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"NEXA_DB_DSN"`

	LegacyHost     string `envconfig:"NEXA_DB_HOST"`
	LegacyPort     int    `envconfig:"NEXA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"NEXA_DB_USER"`
	LegacyPassword string `envconfig:"NEXA_DB_PASSWORD"`
	LegacyName     string `envconfig:"NEXA_DB_NAME"`
	LegacySSLMode  string `envconfig:"NEXA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"NEXA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"NEXA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"NEXA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"NEXA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"NEXA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"NEXA_REDIS_ADDR"`
	Password     string        `envconfig:"NEXA_REDIS_PASSWORD"`
	DB           int           `envconfig:"NEXA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NEXA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NEXA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NEXA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NEXA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NEXA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"NEXA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"NEXA_JWT_ISSUER" default:"nexa-ecommerce"`
	ExpirationMinutes int    `envconfig:"NEXA_JWT_EXPIRATION_MINUTES" default:"60"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"NEXA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"NEXA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"NEXA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"NEXA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"NEXA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"NEXA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"NEXA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"NEXA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"NEXA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"NEXA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"NEXA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type AuthConfig struct {
	AllowAdminRegistration bool `envconfig:"NEXA_AUTH_ALLOW_ADMIN_REGISTRATION" default:"true"`
}

// LimitsConfig caps how many rows the catalog, carts and orders may hold.
// OrdersPerUser of 0 leaves checkout uncapped.
type LimitsConfig struct {
	Products      int `envconfig:"NEXA_LIMITS_MAX_PRODUCTS" default:"30"`
	Categories    int `envconfig:"NEXA_LIMITS_MAX_CATEGORIES" default:"10"`
	Banners       int `envconfig:"NEXA_LIMITS_MAX_BANNERS" default:"10"`
	CartItems     int `envconfig:"NEXA_LIMITS_MAX_CART_ITEMS" default:"10"`
	OrdersPerUser int `envconfig:"NEXA_LIMITS_MAX_ORDERS_PER_USER" default:"0"`
}

// DefaultLimits mirrors the envconfig defaults for callers that do not load the environment.
func DefaultLimits() LimitsConfig {
	return LimitsConfig{
		Products:   30,
		Categories: 10,
		Banners:    10,
		CartItems:  10,
	}
}

func (l LimitsConfig) validate() error {
	values := map[string]int{
		"products":        l.Products,
		"categories":      l.Categories,
		"banners":         l.Banners,
		"cart items":      l.CartItems,
	}
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("limit for %s must be positive, got %d", name, value)
		}
	}
	if l.OrdersPerUser < 0 {
		return fmt.Errorf("limit for orders per user must not be negative, got %d", l.OrdersPerUser)
	}
	return nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"NEXA_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"NEXA_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
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
