package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Server      ServerConfig
	App         AppConfig
	Recommender RecommenderConfig
	Onboarding  OnboardingConfig
	Slack       SlackConfig
	SelfHosted  bool
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// JWTConfig holds operator token verification settings. Tokens are issued by
// the platform's central identity service; this API only verifies them.
type JWTConfig struct {
	Secret string //nolint:gosec // G117: JWT signing secret config
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// AppConfig holds the tenant-facing application settings.
type AppConfig struct {
	// BaseURL is the dashboard entry point; tenant access URLs are
	// BaseURL/<slug>.
	BaseURL string
}

// RecommenderConfig holds the external recommendation engine settings. An
// empty URL disables the engine and every run uses the rule-based fallback.
type RecommenderConfig struct {
	URL     string
	Timeout time.Duration
}

// OnboardingConfig holds workflow execution settings.
type OnboardingConfig struct {
	StepTimeout time.Duration
}

// SlackConfig holds the ops announcement settings. An empty bot token
// disables announcements.
type SlackConfig struct {
	BotToken   string
	OpsChannel string
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production,
// sensitive values (JWT secret, DB password) must be set explicitly.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("FIELDSTACK_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("FIELDSTACK_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("FIELDSTACK_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("FIELDSTACK_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("FIELDSTACK_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	recommenderTimeout, err := getEnvDuration("FIELDSTACK_RECOMMENDER_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	stepTimeout, err := getEnvDuration("FIELDSTACK_ONBOARDING_STEP_TIMEOUT", 2*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	selfHosted, err := getEnvBool("FIELDSTACK_SELF_HOSTED", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("FIELDSTACK_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("FIELDSTACK_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("FIELDSTACK_DB_USER", "fieldstack"),
			Password: getEnv("FIELDSTACK_DB_PASSWORD", ""),
			DBName:   getEnv("FIELDSTACK_DB_NAME", "fieldstack_dev"),
			SSLMode:  getEnv("FIELDSTACK_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("FIELDSTACK_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("FIELDSTACK_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret: getEnv("FIELDSTACK_JWT_SECRET", ""),
		},
		Server: ServerConfig{
			Addr:         getEnv("FIELDSTACK_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
		},
		App: AppConfig{
			BaseURL: getEnv("FIELDSTACK_APP_BASE_URL", "https://app.fieldstack.io"),
		},
		Recommender: RecommenderConfig{
			URL:     getEnv("FIELDSTACK_RECOMMENDER_URL", ""),
			Timeout: recommenderTimeout,
		},
		Onboarding: OnboardingConfig{
			StepTimeout: stepTimeout,
		},
		Slack: SlackConfig{
			BotToken:   getEnv("FIELDSTACK_SLACK_BOT_TOKEN", ""),
			OpsChannel: getEnv("FIELDSTACK_SLACK_OPS_CHANNEL", "#client-onboarding"),
		},
		SelfHosted: selfHosted,
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	// JWT secret is required (no insecure default).
	if c.JWT.Secret == "" {
		return errors.New("FIELDSTACK_JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("FIELDSTACK_JWT_SECRET must be at least 32 characters")
	}

	// DB SSL mode warning for non-self-hosted deployments.
	if c.Database.SSLMode == "disable" && !c.SelfHosted {
		log.Warn().Msg("FIELDSTACK_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	// Bounds checks.
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("FIELDSTACK_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("FIELDSTACK_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("FIELDSTACK_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("FIELDSTACK_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Recommender.Timeout <= 0 {
		return fmt.Errorf("FIELDSTACK_RECOMMENDER_TIMEOUT must be positive, got %s", c.Recommender.Timeout)
	}
	if c.Onboarding.StepTimeout <= 0 {
		return fmt.Errorf("FIELDSTACK_ONBOARDING_STEP_TIMEOUT must be positive, got %s", c.Onboarding.StepTimeout)
	}
	if !strings.HasPrefix(c.App.BaseURL, "http://") && !strings.HasPrefix(c.App.BaseURL, "https://") {
		return fmt.Errorf("FIELDSTACK_APP_BASE_URL must be an http(s) URL, got %q", c.App.BaseURL)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
