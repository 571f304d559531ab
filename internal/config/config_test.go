package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	vars := map[string]string{
		"BOILERPLATE_PRIMARY.ENV":                  "development",
		"BOILERPLATE_SERVER.PORT":                  "8080",
		"BOILERPLATE_SERVER.READ_TIMEOUT":          "30",
		"BOILERPLATE_SERVER.WRITE_TIMEOUT":         "30",
		"BOILERPLATE_SERVER.IDLE_TIMEOUT":          "60",
		"BOILERPLATE_SERVER.CORS_ALLOWED_ORIGINS":  "http://localhost:3000",
		"BOILERPLATE_DATABASE.HOST":                "localhost",
		"BOILERPLATE_DATABASE.PORT":                "5432",
		"BOILERPLATE_DATABASE.USER":                "postgres",
		"BOILERPLATE_DATABASE.PASSWORD":            "p@ss:word",
		"BOILERPLATE_DATABASE.NAME":                "boilerplate",
		"BOILERPLATE_DATABASE.SSL_MODE":            "disable",
		"BOILERPLATE_DATABASE.MAX_OPEN_CONNS":      "25",
		"BOILERPLATE_DATABASE.MAX_IDLE_CONNS":      "25",
		"BOILERPLATE_DATABASE.CONN_MAX_LIFETIME":   "300",
		"BOILERPLATE_DATABASE.CONN_MAX_IDLE_TIME":  "300",
		"BOILERPLATE_REDIS.ADDRESS":                "localhost:6379",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, DefaultAppName, cfg.Primary.AppName)
	assert.Equal(t, DefaultFetchTimeout, cfg.Docs.FetchTimeout)
	assert.Equal(t, FetchFailureSurface, cfg.Docs.FetchFailurePolicy)
	assert.True(t, cfg.Docs.SurfaceFetchFailures())
	assert.Equal(t, DefaultRateLimitCount, cfg.RateLimit.Requests)
	require.NotNil(t, cfg.Observability)
	assert.Equal(t, "development", cfg.Observability.Environment)
	assert.False(t, cfg.Observability.NewRelicEnabled())
}

func TestLoadConfigReadsDocsSection(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOILERPLATE_DOCS.SWAGGER_ENABLED", "false")
	t.Setenv("BOILERPLATE_DOCS.FETCH_TIMEOUT", "3s")
	t.Setenv("BOILERPLATE_DOCS.FETCH_FAILURE_POLICY", "swallow")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Docs.FetchTimeout)
	assert.False(t, cfg.Docs.SwaggerUIEnabled(cfg.Primary.Env))
	assert.False(t, cfg.Docs.SurfaceFetchFailures())
}

func TestLoadConfigRejectsMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOILERPLATE_SERVER.PORT", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigRejectsUnknownFetchPolicy(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOILERPLATE_DOCS.FETCH_FAILURE_POLICY", "retry")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestSwaggerUIEnabled(t *testing.T) {
	cases := []struct {
		setting string
		env     string
		want    bool
	}{
		{"true", "production", true},
		{"false", "development", false},
		{"development", "development", true},
		{"development", "production", false},
		{"", "production", false},
		{"", "development", true},
	}

	for _, tc := range cases {
		d := DocsConfig{SwaggerEnabled: tc.setting}
		assert.Equal(t, tc.want, d.SwaggerUIEnabled(tc.env), "setting=%q env=%q", tc.setting, tc.env)
	}
}

func TestDatabaseDSNEscapesPassword(t *testing.T) {
	d := DatabaseConfig{User: "postgres", Password: "p@ss:word", Host: "db", Port: 5432, Name: "app", SSLMode: "disable"}
	assert.Equal(t, "postgres://postgres:p%40ss%3Aword@db:5432/app?sslmode=disable", d.DSN())
}

func TestObservabilityValidate(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Level = "verbose"
	require.Error(t, cfg.Validate())

	cfg.Logging.Level = ""
	cfg.Environment = "production"
	assert.Equal(t, "info", cfg.GetLogLevel())
}
