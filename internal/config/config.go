package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables, không thay đổi sau Load()
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	APIAccess  APIAccessConfig
	Moderation ModerationConfig
	Jobs       JobConfig
	Poll       PollConfig
	Notify     NotifyConfig
	Email      EmailConfig
	Storage    StorageConfig
	Cache      CacheConfig
	Bootstrap  BootstrapConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
	CORSOrigins []string

	// Proxy nào được tin X-Forwarded-For / X-Real-IP. Rỗng: dùng RemoteAddr
	TrustedProxies []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	Issuer             string
	AccessTokenExpiry  int // minutes
	RefreshTokenExpiry int // hours
}

// APIAccessConfig - credentials accepted from approved frontends (X-API-Key + X-Fetch-Code)
type APIAccessConfig struct {
	APIKeys    []string
	FetchCodes []string
}

type ModerationConfig struct {
	Threshold  float64 // isToxic = score >= threshold
	Inline     bool    // score on the save path when moderation text changed
	DrainBatch int
}

// JobConfig - asynq cron schedules
type JobConfig struct {
	Enabled      bool // false: no task is enqueued (memory/dev mode)
	SweepCron    string
	SweepBatch   int
	DrainCron    string
	Concurrency  int
	WorkerHealth string // worker health endpoint address
}

type PollConfig struct {
	VoteLimit  int
	VoteWindow time.Duration
}

type NotifyConfig struct {
	Enabled    bool
	BufferSize int
	Recipients []string
}

// EmailConfig - SMTP used by the worker for publish notices
type EmailConfig struct {
	SMTPHost string
	SMTPPort string
	Username string
	Password string
	From     string
}

type StorageConfig struct {
	Driver string // postgres | memory
}

type CacheConfig struct {
	Enabled    bool
	Prefix     string
	ArticleTTL time.Duration
}

// BootstrapConfig - admin account ensured at startup (empty email: skipped)
type BootstrapConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:           getEnv("APP_NAME", "Newsroom API"),
			Environment:    getEnv("APP_ENV", "development"),
			Port:           getEnv("APP_PORT", "8080"),
			Version:        getEnv("APP_VERSION", "1.0.0"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			CORSOrigins:    getEnvList("CORS_ORIGINS", []string{"*"}),
			TrustedProxies: getEnvList("TRUSTED_PROXIES", nil),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "newsroom"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", defaultJWTSecret),
			Issuer:             getEnv("JWT_ISSUER", "newsroom-backend"),
			AccessTokenExpiry:  getEnvInt("JWT_ACCESS_EXPIRY", 60*24), // 1 day
			RefreshTokenExpiry: getEnvInt("JWT_REFRESH_EXPIRY", 72),   // 3 days
		},
		APIAccess: APIAccessConfig{
			APIKeys:    getEnvList("API_KEYS", nil),
			FetchCodes: getEnvList("API_FETCH_CODES", nil),
		},
		Moderation: ModerationConfig{
			Threshold:  getEnvFloat("MODERATION_THRESHOLD", 0.7),
			Inline:     getEnvBool("MODERATION_INLINE", false),
			DrainBatch: getEnvInt("MODERATION_DRAIN_BATCH", 50),
		},
		Jobs: JobConfig{
			Enabled:      getEnvBool("JOBS_ENABLED", true),
			SweepCron:    getEnv("JOBS_SWEEP_CRON", "@every 1m"),
			SweepBatch:   getEnvInt("JOBS_SWEEP_BATCH", 100),
			DrainCron:    getEnv("JOBS_DRAIN_CRON", "@every 2m"),
			Concurrency:  getEnvInt("WORKER_CONCURRENCY", 10),
			WorkerHealth: getEnv("WORKER_HEALTH_ADDR", ":9999"),
		},
		Poll: PollConfig{
			VoteLimit:  getEnvInt("POLL_VOTE_LIMIT", 30),
			VoteWindow: getEnvDuration("POLL_VOTE_WINDOW", time.Minute),
		},
		Notify: NotifyConfig{
			Enabled:    getEnvBool("NOTIFY_ENABLED", true),
			BufferSize: getEnvInt("NOTIFY_BUFFER", 256),
			Recipients: getEnvList("NOTIFY_RECIPIENTS", nil),
		},
		Email: EmailConfig{
			SMTPHost: getEnv("SMTP_HOST", "localhost"),
			SMTPPort: getEnv("SMTP_PORT", "1025"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("EMAIL_FROM", "newsroom@localhost"),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", "postgres"),
		},
		Cache: CacheConfig{
			Enabled:    getEnvBool("CACHE_ENABLED", true),
			Prefix:     getEnv("CACHE_PREFIX", "newsroom:"),
			ArticleTTL: getEnvDuration("CACHE_ARTICLE_TTL", 5*time.Minute),
		},
		Bootstrap: BootstrapConfig{
			AdminEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", ""),
			AdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
			AdminName:     getEnv("BOOTSTRAP_ADMIN_NAME", "Administrator"),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("STORAGE_DRIVER must be postgres or memory, got %q", c.Storage.Driver)
	}

	if c.Moderation.Threshold <= 0 || c.Moderation.Threshold > 1 {
		return fmt.Errorf("MODERATION_THRESHOLD must be in (0, 1], got %v", c.Moderation.Threshold)
	}

	if len(c.APIAccess.APIKeys) == 0 != (len(c.APIAccess.FetchCodes) == 0) {
		return fmt.Errorf("API_KEYS and API_FETCH_CODES must be set together")
	}

	if c.Poll.VoteLimit < 1 {
		return fmt.Errorf("POLL_VOTE_LIMIT must be positive")
	}

	if c.Bootstrap.AdminEmail != "" && c.Bootstrap.AdminPassword == "" {
		return fmt.Errorf("BOOTSTRAP_ADMIN_PASSWORD must be set with BOOTSTRAP_ADMIN_EMAIL")
	}

	// Production environment phải có JWT secret
	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Storage.Driver == "postgres" && c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if len(c.APIAccess.APIKeys) == 0 {
			return fmt.Errorf("API_KEYS and API_FETCH_CODES must be set in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma separated value, dropping empty items
func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
