package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helper function tests
// ---------------------------------------------------------------------------

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string // nil = don't set; pointer to distinguish "" from unset
		fallback string
		want     string
	}{
		{name: "returns fallback when unset", key: "FIELDSTACK_TEST_GETENV_UNSET", setVal: nil, fallback: "default", want: "default"},
		{name: "returns env value when set", key: "FIELDSTACK_TEST_GETENV_SET", setVal: strPtr("custom"), fallback: "default", want: "custom"},
		{name: "returns fallback when empty string", key: "FIELDSTACK_TEST_GETENV_EMPTY", setVal: strPtr(""), fallback: "default", want: "default"},
		{name: "preserves whitespace", key: "FIELDSTACK_TEST_GETENV_WS", setVal: strPtr("  spaced  "), fallback: "x", want: "  spaced  "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got := getEnv(tc.key, tc.fallback)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback int
		want     int
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "FIELDSTACK_TEST_INT_UNSET", setVal: nil, fallback: 42, want: 42},
		{name: "parses valid int", key: "FIELDSTACK_TEST_INT_VALID", setVal: strPtr("8080"), fallback: 0, want: 8080},
		{name: "parses negative int", key: "FIELDSTACK_TEST_INT_NEG", setVal: strPtr("-1"), fallback: 0, want: -1},
		{name: "parses zero", key: "FIELDSTACK_TEST_INT_ZERO", setVal: strPtr("0"), fallback: 99, want: 0},
		{name: "returns fallback for empty string", key: "FIELDSTACK_TEST_INT_EMPTY", setVal: strPtr(""), fallback: 25, want: 25},
		{name: "errors on non-numeric", key: "FIELDSTACK_TEST_INT_NAN", setVal: strPtr("abc"), fallback: 0, wantErr: true},
		{name: "errors on float", key: "FIELDSTACK_TEST_INT_FLOAT", setVal: strPtr("3.14"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvInt(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback bool
		want     bool
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "FIELDSTACK_TEST_BOOL_UNSET", setVal: nil, fallback: false, want: false},
		{name: "fallback true when unset", key: "FIELDSTACK_TEST_BOOL_UNSETTRUE", setVal: nil, fallback: true, want: true},
		{name: "parses true", key: "FIELDSTACK_TEST_BOOL_TRUE", setVal: strPtr("true"), fallback: false, want: true},
		{name: "parses false", key: "FIELDSTACK_TEST_BOOL_FALSE", setVal: strPtr("false"), fallback: true, want: false},
		{name: "parses 1", key: "FIELDSTACK_TEST_BOOL_ONE", setVal: strPtr("1"), fallback: false, want: true},
		{name: "errors on invalid", key: "FIELDSTACK_TEST_BOOL_INV", setVal: strPtr("yes"), fallback: false, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvBool(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback time.Duration
		want     time.Duration
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "FIELDSTACK_TEST_DUR_UNSET", setVal: nil, fallback: 5 * time.Second, want: 5 * time.Second},
		{name: "parses seconds", key: "FIELDSTACK_TEST_DUR_SEC", setVal: strPtr("30s"), fallback: 0, want: 30 * time.Second},
		{name: "parses composite", key: "FIELDSTACK_TEST_DUR_COMP", setVal: strPtr("1h30m"), fallback: 0, want: 90 * time.Minute},
		{name: "errors on invalid", key: "FIELDSTACK_TEST_DUR_INV", setVal: strPtr("notaduration"), fallback: 0, wantErr: true},
		{name: "errors on bare number", key: "FIELDSTACK_TEST_DUR_BARE", setVal: strPtr("30"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvDuration(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvList(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback []string
		want     []string
	}{
		{name: "returns fallback when unset", key: "FIELDSTACK_TEST_LIST_UNSET", setVal: nil, fallback: []string{"a"}, want: []string{"a"}},
		{name: "splits on comma", key: "FIELDSTACK_TEST_LIST_SPLIT", setVal: strPtr("a,b,c"), fallback: nil, want: []string{"a", "b", "c"}},
		{name: "trims whitespace", key: "FIELDSTACK_TEST_LIST_TRIM", setVal: strPtr(" a , b "), fallback: nil, want: []string{"a", "b"}},
		{name: "drops empty entries", key: "FIELDSTACK_TEST_LIST_EMPTY", setVal: strPtr("a,,b,"), fallback: nil, want: []string{"a", "b"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			assert.Equal(t, tc.want, getEnvList(tc.key, tc.fallback))
		})
	}
}

// ---------------------------------------------------------------------------
// Load() error cases
// ---------------------------------------------------------------------------

func TestLoad_MissingJWTSecret(t *testing.T) {
	// All defaults apply; JWT secret is empty => must fail.
	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "FIELDSTACK_JWT_SECRET")
}

func TestLoad_InvalidEnvVars(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		errMsg string
	}{
		// DB_PORT parse errors
		{name: "DB_PORT not a number", envKey: "FIELDSTACK_DB_PORT", envVal: "abc", errMsg: "FIELDSTACK_DB_PORT"},

		// DB_PORT validation errors (parses fine, fails bounds)
		{name: "DB_PORT zero", envKey: "FIELDSTACK_DB_PORT", envVal: "0", errMsg: "FIELDSTACK_DB_PORT"},
		{name: "DB_PORT too high", envKey: "FIELDSTACK_DB_PORT", envVal: "65536", errMsg: "FIELDSTACK_DB_PORT"},

		// DB_MAX_CONNS
		{name: "DB_MAX_CONNS zero", envKey: "FIELDSTACK_DB_MAX_CONNS", envVal: "0", errMsg: "FIELDSTACK_DB_MAX_CONNS"},
		{name: "DB_MAX_CONNS not a number", envKey: "FIELDSTACK_DB_MAX_CONNS", envVal: "many", errMsg: "FIELDSTACK_DB_MAX_CONNS"},

		// Server timeouts
		{name: "SERVER_READ_TIMEOUT invalid", envKey: "FIELDSTACK_SERVER_READ_TIMEOUT", envVal: "notduration", errMsg: "FIELDSTACK_SERVER_READ_TIMEOUT"},
		{name: "SERVER_READ_TIMEOUT zero", envKey: "FIELDSTACK_SERVER_READ_TIMEOUT", envVal: "0s", errMsg: "FIELDSTACK_SERVER_READ_TIMEOUT"},
		{name: "SERVER_WRITE_TIMEOUT zero", envKey: "FIELDSTACK_SERVER_WRITE_TIMEOUT", envVal: "0s", errMsg: "FIELDSTACK_SERVER_WRITE_TIMEOUT"},

		// Workflow and recommender timeouts
		{name: "ONBOARDING_STEP_TIMEOUT zero", envKey: "FIELDSTACK_ONBOARDING_STEP_TIMEOUT", envVal: "0s", errMsg: "FIELDSTACK_ONBOARDING_STEP_TIMEOUT"},
		{name: "RECOMMENDER_TIMEOUT negative", envKey: "FIELDSTACK_RECOMMENDER_TIMEOUT", envVal: "-5s", errMsg: "FIELDSTACK_RECOMMENDER_TIMEOUT"},

		// App base URL
		{name: "APP_BASE_URL not a URL", envKey: "FIELDSTACK_APP_BASE_URL", envVal: "app.fieldstack.io", errMsg: "FIELDSTACK_APP_BASE_URL"},

		// Redis DB
		{name: "REDIS_DB not a number", envKey: "FIELDSTACK_REDIS_DB", envVal: "abc", errMsg: "FIELDSTACK_REDIS_DB"},

		// Self-hosted
		{name: "SELF_HOSTED not a bool", envKey: "FIELDSTACK_SELF_HOSTED", envVal: "yes", errMsg: "FIELDSTACK_SELF_HOSTED"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Always set JWT secret so failures are from the var under test.
			t.Setenv("FIELDSTACK_JWT_SECRET", "test-secret-for-error-cases-32ch!")
			t.Setenv(tc.envKey, tc.envVal)

			cfg, err := Load()
			require.Error(t, err, "expected error for %s=%q", tc.envKey, tc.envVal)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

// ---------------------------------------------------------------------------
// Load() happy paths
// ---------------------------------------------------------------------------

func TestLoad_Defaults(t *testing.T) {
	// Only the required JWT secret is set; everything else uses defaults.
	t.Setenv("FIELDSTACK_JWT_SECRET", "my-dev-secret-at-least-32-chars!!")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Database defaults.
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "fieldstack", cfg.Database.User)
	assert.Empty(t, cfg.Database.Password)
	assert.Equal(t, "fieldstack_dev", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxConns)

	// Redis defaults.
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Empty(t, cfg.Redis.Password)
	assert.Equal(t, 0, cfg.Redis.DB)

	// Server defaults.
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)

	// App defaults.
	assert.Equal(t, "https://app.fieldstack.io", cfg.App.BaseURL)

	// Recommender disabled by default.
	assert.Empty(t, cfg.Recommender.URL)
	assert.Equal(t, 10*time.Second, cfg.Recommender.Timeout)

	// Onboarding defaults.
	assert.Equal(t, 2*time.Minute, cfg.Onboarding.StepTimeout)

	// Slack defaults.
	assert.Empty(t, cfg.Slack.BotToken)
	assert.Equal(t, "#client-onboarding", cfg.Slack.OpsChannel)

	// Self-hosted default.
	assert.False(t, cfg.SelfHosted)
}

func TestLoad_AllCustomValues(t *testing.T) {
	envs := map[string]string{
		// Database
		"FIELDSTACK_DB_HOST":      "db.prod.internal",
		"FIELDSTACK_DB_PORT":      "5433",
		"FIELDSTACK_DB_USER":      "prod_user",
		"FIELDSTACK_DB_PASSWORD":  "s3cret!",
		"FIELDSTACK_DB_NAME":      "fieldstack_prod",
		"FIELDSTACK_DB_SSLMODE":   "require",
		"FIELDSTACK_DB_MAX_CONNS": "50",
		// Redis
		"FIELDSTACK_REDIS_ADDR":     "redis.prod:6380",
		"FIELDSTACK_REDIS_PASSWORD": "redis-pass",
		"FIELDSTACK_REDIS_DB":       "3",
		// JWT
		"FIELDSTACK_JWT_SECRET": "prod-jwt-secret-256-bits-long!!!",
		// Server
		"FIELDSTACK_SERVER_ADDR":          ":9090",
		"FIELDSTACK_SERVER_READ_TIMEOUT":  "5s",
		"FIELDSTACK_SERVER_WRITE_TIMEOUT": "15s",
		"FIELDSTACK_CORS_ORIGINS":         "https://console.fieldstack.io, https://staging.fieldstack.io",
		// App
		"FIELDSTACK_APP_BASE_URL": "https://app.fieldstack.io",
		// Recommender
		"FIELDSTACK_RECOMMENDER_URL":     "https://recommender.internal",
		"FIELDSTACK_RECOMMENDER_TIMEOUT": "30s",
		// Onboarding
		"FIELDSTACK_ONBOARDING_STEP_TIMEOUT": "5m",
		// Slack
		"FIELDSTACK_SLACK_BOT_TOKEN":   "xoxb-test",
		"FIELDSTACK_SLACK_OPS_CHANNEL": "#provisioning-alerts",
		// Self-hosted
		"FIELDSTACK_SELF_HOSTED": "true",
	}

	for k, v := range envs {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Database
	assert.Equal(t, "db.prod.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "prod_user", cfg.Database.User)
	assert.Equal(t, "s3cret!", cfg.Database.Password)
	assert.Equal(t, "fieldstack_prod", cfg.Database.DBName)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, 50, cfg.Database.MaxConns)

	// Redis
	assert.Equal(t, "redis.prod:6380", cfg.Redis.Addr)
	assert.Equal(t, "redis-pass", cfg.Redis.Password)
	assert.Equal(t, 3, cfg.Redis.DB)

	// Server
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"https://console.fieldstack.io", "https://staging.fieldstack.io"}, cfg.Server.CORSOrigins)

	// Recommender
	assert.Equal(t, "https://recommender.internal", cfg.Recommender.URL)
	assert.Equal(t, 30*time.Second, cfg.Recommender.Timeout)

	// Onboarding
	assert.Equal(t, 5*time.Minute, cfg.Onboarding.StepTimeout)

	// Slack
	assert.Equal(t, "xoxb-test", cfg.Slack.BotToken)
	assert.Equal(t, "#provisioning-alerts", cfg.Slack.OpsChannel)

	// Self-hosted
	assert.True(t, cfg.SelfHosted)
}

// ---------------------------------------------------------------------------
// DSN() output format
// ---------------------------------------------------------------------------

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "default dev values",
			cfg: DatabaseConfig{
				Host: "localhost", Port: 5432, User: "fieldstack",
				Password: "", DBName: "fieldstack_dev", SSLMode: "disable",
			},
			want: "host=localhost port=5432 user=fieldstack password= dbname=fieldstack_dev sslmode=disable",
		},
		{
			name: "production values",
			cfg: DatabaseConfig{
				Host: "db.prod", Port: 5433, User: "admin",
				Password: "p@ss!", DBName: "fieldstack_prod", SSLMode: "require",
			},
			want: "host=db.prod port=5433 user=admin password=p@ss! dbname=fieldstack_prod sslmode=require",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.cfg.DSN())
		})
	}
}

// ---------------------------------------------------------------------------
// validate() direct tests
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	t.Parallel()

	// validBase returns a Config that passes validation.
	validBase := func() *Config {
		return &Config{
			Database: DatabaseConfig{Port: 5432, MaxConns: 25},
			JWT:      JWTConfig{Secret: "test-secret-that-is-at-least-32ch"},
			Server: ServerConfig{
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
			},
			App:         AppConfig{BaseURL: "https://app.fieldstack.io"},
			Recommender: RecommenderConfig{Timeout: 10 * time.Second},
			Onboarding:  OnboardingConfig{StepTimeout: 2 * time.Minute},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validBase().validate())
	})

	t.Run("empty JWT secret fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.JWT.Secret = ""
		assert.ErrorContains(t, c.validate(), "FIELDSTACK_JWT_SECRET")
	})

	t.Run("JWT secret too short fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.JWT.Secret = "only-31-characters-long-secret!"
		assert.ErrorContains(t, c.validate(), "FIELDSTACK_JWT_SECRET")
	})

	t.Run("JWT secret exactly 32 chars passes", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.JWT.Secret = "exactly-32-characters-long-sec!!"
		assert.NoError(t, c.validate())
	})

	t.Run("port 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Database.Port = 0
		assert.ErrorContains(t, c.validate(), "FIELDSTACK_DB_PORT")
	})

	t.Run("port 65535 passes", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Database.Port = 65535
		assert.NoError(t, c.validate())
	})

	t.Run("MaxConns 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Database.MaxConns = 0
		assert.ErrorContains(t, c.validate(), "FIELDSTACK_DB_MAX_CONNS")
	})

	t.Run("http base URL passes", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.App.BaseURL = "http://localhost:5173"
		assert.NoError(t, c.validate())
	})

	t.Run("bare host base URL fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.App.BaseURL = "app.fieldstack.io"
		assert.ErrorContains(t, c.validate(), "FIELDSTACK_APP_BASE_URL")
	})

	t.Run("StepTimeout 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Onboarding.StepTimeout = 0
		assert.ErrorContains(t, c.validate(), "FIELDSTACK_ONBOARDING_STEP_TIMEOUT")
	})

	t.Run("Recommender timeout 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Recommender.Timeout = 0
		assert.ErrorContains(t, c.validate(), "FIELDSTACK_RECOMMENDER_TIMEOUT")
	})
}

// ---------------------------------------------------------------------------
// Test helper
// ---------------------------------------------------------------------------

func strPtr(s string) *string {
	return &s
}
