package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StoreConfig selects the credential store backend once at startup.
// Mode "auto" probes postgres a single time and falls back to the
// in-process store; the choice never changes at request time.
type StoreConfig struct {
	Mode         string // auto | postgres | memory
	SeedDemo     bool
	ProbeTimeout time.Duration
}

type SecurityConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration

	// Refresh tokens and sessions share lifetimes: the longer pair
	// applies when the caller asked to be remembered.
	RefreshTokenTTL  time.Duration
	RememberTokenTTL time.Duration

	AdminAPIKey string
	RequireSSL  bool
}

type RateLimitConfig struct {
	Window     time.Duration
	Limit      int
	QuoteLimit int
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Store            StoreConfig
	Security         SecurityConfig
	RateLimit        RateLimitConfig
	AllowCORSOrigins []string
}

func (c *AppConfig) Production() bool {
	return c.Environment == "production"
}

var (
	errSecretRequired = errors.New("security.jwtsecret must be set in production")
	errSecretWeak     = errors.New("security.jwtsecret must be at least 32 bytes")
	errSeedInProd     = errors.New("store.seeddemo must not be enabled in production")
)

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("PRISM")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate enforces the startup preconditions the request path assumes.
// The signing secret is operator-supplied: a missing or weak secret in
// production is a refusal to boot, never a silent default.
func (c *AppConfig) Validate() error {
	if c.Production() {
		if c.Security.JWTSecret == "" || c.Security.JWTSecret == devSecret {
			return errSecretRequired
		}
		if len(c.Security.JWTSecret) < 32 {
			return errSecretWeak
		}
		if c.Store.SeedDemo {
			return errSeedInProd
		}
	}

	switch c.Store.Mode {
	case "auto", "postgres", "memory":
	default:
		return fmt.Errorf("store.mode %q: must be auto, postgres or memory", c.Store.Mode)
	}

	if c.RateLimit.Limit <= 0 || c.RateLimit.QuoteLimit <= 0 {
		return fmt.Errorf("ratelimit limits must be positive")
	}

	return nil
}

// devSecret keeps local development friction-free. Validate rejects it
// outside development.
const devSecret = "prism-dev-only-signing-secret"

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("store.mode", "auto")
	v.SetDefault("store.seeddemo", true)
	v.SetDefault("store.probetimeout", "3s")

	v.SetDefault("security.jwtsecret", devSecret)
	v.SetDefault("security.accesstokenttl", "15m")
	v.SetDefault("security.refreshtokenttl", "168h")  // 7 days
	v.SetDefault("security.remembertokenttl", "720h") // 30 days
	v.SetDefault("security.requiressl", false)

	v.SetDefault("ratelimit.window", "60s")
	v.SetDefault("ratelimit.limit", 50)
	v.SetDefault("ratelimit.quotelimit", 10)
}
