// Package config loads the application configuration from the environment.
//
// Variables are read with the BOILERPLATE_ prefix and dotted keys, e.g.
// BOILERPLATE_SERVER.PORT or BOILERPLATE_DOCS.SWAGGER_ENABLED. A `.env` file is
// picked up automatically. The result is validated once at startup and passed
// around explicitly; nothing reads the environment at request time.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "BOILERPLATE_"

type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Docs          DocsConfig           `koanf:"docs"`
	RateLimit     RateLimitConfig      `koanf:"rate_limit"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env     string `koanf:"env" validate:"required"`
	AppName string `koanf:"app_name"`
}

// ServerConfig timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// PublicURL is the externally reachable base URL, used in links sent by email.
	PublicURL string `koanf:"public_url" validate:"omitempty,url"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
// ConnMaxLifetime and ConnMaxIdleTime are in seconds.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// DSN renders the postgres:// connection string used by the pool and the migrator.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		d.User,
		url.QueryEscape(d.Password),
		net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		d.Name,
		d.SSLMode,
	)
}

// RedisConfig Address is "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig guards the mutating /api routes with Clerk when Enabled.
type AuthConfig struct {
	Enabled   bool   `koanf:"enabled"`
	SecretKey string `koanf:"secret_key" validate:"required_if=Enabled true"`
}

// IntegrationConfig holds third-party credentials. Notifications about newly
// registered services are only sent when both ResendAPIKey and NotifyEmail are set.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	NotifyEmail  string `koanf:"notify_email" validate:"omitempty,email"`
	FromEmail    string `koanf:"from_email" validate:"omitempty,email"`
}

// NotificationsEnabled reports whether service registration emails can be delivered.
func (i IntegrationConfig) NotificationsEnabled() bool {
	return i.ResendAPIKey != "" && i.NotifyEmail != ""
}

// Fetch failure policies for remote OpenAPI documents on create/update.
const (
	FetchFailureSurface = "surface"
	FetchFailureSwallow = "swallow"
)

// DocsConfig controls API documentation browsing and remote document retrieval.
type DocsConfig struct {
	// SwaggerEnabled is "true", "false" or "development". Empty behaves like "development".
	SwaggerEnabled string `koanf:"swagger_enabled" validate:"omitempty,oneof=true false development"`

	// FetchTimeout bounds every outbound document fetch.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// FetchFailurePolicy decides what create/update do when the swagger URL cannot be fetched.
	FetchFailurePolicy string `koanf:"fetch_failure_policy" validate:"omitempty,oneof=surface swallow"`
}

// SwaggerUIEnabled resolves SwaggerEnabled against the running environment.
func (d DocsConfig) SwaggerUIEnabled(env string) bool {
	switch d.SwaggerEnabled {
	case "true":
		return true
	case "false":
		return false
	default:
		return env == "development" || env == "local"
	}
}

// SurfaceFetchFailures reports whether create/update must fail when a document fetch fails.
func (d DocsConfig) SurfaceFetchFailures() bool {
	return d.FetchFailurePolicy != FetchFailureSwallow
}

// RateLimitConfig is a fixed window limiter keyed by client IP.
type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Requests int           `koanf:"requests" validate:"omitempty,min=1"`
	Window   time.Duration `koanf:"window"`
}

const (
	DefaultFetchTimeout    = 10 * time.Second
	DefaultRateLimitWindow = time.Minute
	DefaultRateLimitCount  = 60
	DefaultAppName         = "Boilerplate API"
	DefaultFromEmail       = "onboarding@resend.dev"
)

// LoadConfig reads, validates and completes the configuration.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	mainConfig.applyDefaults()

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

func (c *Config) applyDefaults() {
	if c.Primary.AppName == "" {
		c.Primary.AppName = DefaultAppName
	}
	if c.Server.PublicURL == "" {
		c.Server.PublicURL = "http://localhost:" + c.Server.Port
	}
	c.Server.PublicURL = strings.TrimSuffix(c.Server.PublicURL, "/")
	if c.Integration.FromEmail == "" {
		c.Integration.FromEmail = DefaultFromEmail
	}
	if c.Docs.FetchTimeout <= 0 {
		c.Docs.FetchTimeout = DefaultFetchTimeout
	}
	if c.Docs.FetchFailurePolicy == "" {
		c.Docs.FetchFailurePolicy = FetchFailureSurface
	}
	if c.RateLimit.Requests <= 0 {
		c.RateLimit.Requests = DefaultRateLimitCount
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = DefaultRateLimitWindow
	}

	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
	c.Observability.ServiceName = "boilerplate"
	c.Observability.Environment = c.Primary.Env
}
