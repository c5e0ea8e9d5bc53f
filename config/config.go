// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/campusdesk/swo-feedback/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"

	minJWTLength = 32
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
	JwtSecretKey   string      `mapstructure:"JWT_SECRET_KEY" yaml:"jwt_secret_key"`
	FrontendURL    string      `mapstructure:"FRONTEND_URL" yaml:"frontend_url"`
}

// DatabaseConfig holds PostgreSQL database connection details.
type DatabaseConfig struct {
	Host         string `mapstructure:"HOST" yaml:"host"`
	Port         int    `mapstructure:"PORT" yaml:"port"`
	User         string `mapstructure:"USER" yaml:"user"`
	Password     string `mapstructure:"PASSWORD" yaml:"password"`
	Name         string `mapstructure:"NAME" yaml:"name"`
	SSLMode      string `mapstructure:"SSL_MODE" yaml:"ssl_mode"`
	MaxOpenConns int    `mapstructure:"MAX_OPEN_CONNS" yaml:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"MAX_IDLE_CONNS" yaml:"max_idle_conns"`
	ConnMaxLife  string `mapstructure:"CONN_MAX_LIFE" yaml:"conn_max_life"`
}

// URL returns a postgres:// connection URL suitable for golang-migrate and pgxpool.
func (c *DatabaseConfig) URL() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Name,
		sslmode,
	)
}

// RedisConfig holds Redis connection details.
type RedisConfig struct {
	Address      string `mapstructure:"ADDRESS" yaml:"address"`
	Password     string `mapstructure:"PASSWORD" yaml:"password"`
	DB           int    `mapstructure:"DB" yaml:"db"`
	UseTLS       bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
	PoolSize     int    `mapstructure:"POOL_SIZE" yaml:"pool_size"`
	MinIdleConns int    `mapstructure:"MIN_IDLE_CONNS" yaml:"min_idle_conns"`
}

// EventServiceConfig holds configuration for the Redis event publisher.
type EventServiceConfig struct {
	// Timeout for publishing a single event to Redis (in seconds)
	PublishTimeoutSeconds int `mapstructure:"PUBLISH_TIMEOUT_SECONDS" yaml:"publish_timeout_seconds"`
	// ChannelPrefix is prepended to the form type to build the channel name
	ChannelPrefix string `mapstructure:"CHANNEL_PREFIX" yaml:"channel_prefix"`
}

// RateLimitConfig limits how often a single respondent may hit the submit endpoints.
type RateLimitConfig struct {
	SubmitRequestsPerMinute int `mapstructure:"SUBMIT_REQUESTS_PER_MINUTE" yaml:"submit_requests_per_minute"`
	WindowSeconds           int `mapstructure:"WINDOW_SECONDS" yaml:"window_seconds"`
}

// WorkerPoolConfig holds configuration for the background job pool.
type WorkerPoolConfig struct {
	MaxWorkers             int `mapstructure:"MAX_WORKERS" yaml:"max_workers"`
	QueueSize              int `mapstructure:"QUEUE_SIZE" yaml:"queue_size"`
	ShutdownTimeoutSeconds int `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS" yaml:"shutdown_timeout_seconds"`
}

// EmailConfig holds configuration for report emails sent through Resend.
type EmailConfig struct {
	Enabled      bool   `mapstructure:"ENABLED" yaml:"enabled"`
	FromAddress  string `mapstructure:"FROM_ADDRESS" yaml:"from_address"`
	FromName     string `mapstructure:"FROM_NAME" yaml:"from_name"`
	ResendAPIKey string `mapstructure:"RESEND_API_KEY" yaml:"resend_api_key"`
}

// StorageConfig configures the S3-compatible bucket used for report archives.
type StorageConfig struct {
	Enabled         bool   `mapstructure:"ENABLED" yaml:"enabled"`
	Endpoint        string `mapstructure:"ENDPOINT" yaml:"endpoint"`
	Region          string `mapstructure:"REGION" yaml:"region"`
	Bucket          string `mapstructure:"BUCKET" yaml:"bucket"`
	AccessKeyID     string `mapstructure:"ACCESS_KEY_ID" yaml:"access_key_id"`
	SecretAccessKey string `mapstructure:"SECRET_ACCESS_KEY" yaml:"secret_access_key"`
	PresignTTL      string `mapstructure:"PRESIGN_TTL" yaml:"presign_ttl"`
}

// PresignDuration parses PresignTTL, falling back to 15 minutes.
func (s *StorageConfig) PresignDuration() time.Duration {
	d, err := time.ParseDuration(s.PresignTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// ReaperConfig schedules the removal of abandoned drafts.
type ReaperConfig struct {
	Enabled            bool   `mapstructure:"ENABLED" yaml:"enabled"`
	Schedule           string `mapstructure:"SCHEDULE" yaml:"schedule"`
	DraftRetentionDays int    `mapstructure:"DRAFT_RETENTION_DAYS" yaml:"draft_retention_days"`
}

// Config aggregates all application configuration sections.
type Config struct {
	Server       ServerConfig       `mapstructure:"SERVER" yaml:"server"`
	Database     DatabaseConfig     `mapstructure:"DATABASE" yaml:"database"`
	Redis        RedisConfig        `mapstructure:"REDIS" yaml:"redis"`
	EventService EventServiceConfig `mapstructure:"EVENT_SERVICE" yaml:"event_service"`
	RateLimit    RateLimitConfig    `mapstructure:"RATE_LIMIT" yaml:"rate_limit"`
	WorkerPool   WorkerPoolConfig   `mapstructure:"WORKER_POOL" yaml:"worker_pool"`
	Email        EmailConfig        `mapstructure:"EMAIL" yaml:"email"`
	Storage      StorageConfig      `mapstructure:"STORAGE" yaml:"storage"`
	Reaper       ReaperConfig       `mapstructure:"REAPER" yaml:"reaper"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "5000")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("SERVER.FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "")
	v.SetDefault("DATABASE.NAME", "swo_feedback")
	v.SetDefault("DATABASE.SSL_MODE", "disable")
	v.SetDefault("DATABASE.MAX_OPEN_CONNS", 10)
	v.SetDefault("DATABASE.MAX_IDLE_CONNS", 2)
	v.SetDefault("DATABASE.CONN_MAX_LIFE", "1h")
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("REDIS.POOL_SIZE", 5)
	v.SetDefault("REDIS.MIN_IDLE_CONNS", 1)
	v.SetDefault("EVENT_SERVICE.PUBLISH_TIMEOUT_SECONDS", 5)
	v.SetDefault("EVENT_SERVICE.CHANNEL_PREFIX", "swo:feedback")
	v.SetDefault("RATE_LIMIT.SUBMIT_REQUESTS_PER_MINUTE", 10)
	v.SetDefault("RATE_LIMIT.WINDOW_SECONDS", 60)
	v.SetDefault("WORKER_POOL.MAX_WORKERS", 4)
	v.SetDefault("WORKER_POOL.QUEUE_SIZE", 256)
	v.SetDefault("WORKER_POOL.SHUTDOWN_TIMEOUT_SECONDS", 30)
	v.SetDefault("EMAIL.ENABLED", false)
	v.SetDefault("EMAIL.FROM_NAME", "Academic SWO")
	v.SetDefault("STORAGE.ENABLED", false)
	v.SetDefault("STORAGE.REGION", "auto")
	v.SetDefault("STORAGE.PRESIGN_TTL", "15m")
	v.SetDefault("REAPER.ENABLED", true)
	v.SetDefault("REAPER.SCHEDULE", "15 2 * * *")
	v.SetDefault("REAPER.DRAFT_RETENTION_DAYS", 30)
}

// LoadConfig loads configuration from environment variables using Viper,
// sets default values, binds environment variables to config struct fields,
// unmarshals the configuration, and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		// Server config
		{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.JWT_SECRET_KEY", "JWT_SECRET_KEY"},
		{"SERVER.VERSION", "VERSION"},
		{"SERVER.FRONTEND_URL", "FRONTEND_URL"},
		// Database config
		{"DATABASE.HOST", "DB_HOST"},
		{"DATABASE.PORT", "DB_PORT"},
		{"DATABASE.USER", "DB_USER"},
		{"DATABASE.PASSWORD", "DB_PASSWORD"},
		{"DATABASE.NAME", "DB_NAME"},
		{"DATABASE.SSL_MODE", "DB_SSL_MODE"},
		{"DATABASE.MAX_OPEN_CONNS", "DB_MAX_OPEN_CONNS"},
		{"DATABASE.MAX_IDLE_CONNS", "DB_MAX_IDLE_CONNS"},
		{"DATABASE.CONN_MAX_LIFE", "DB_CONN_MAX_LIFE"},
		// Redis config
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"REDIS.USE_TLS", "REDIS_USE_TLS"},
		// Event service config
		{"EVENT_SERVICE.PUBLISH_TIMEOUT_SECONDS", "EVENT_SERVICE_PUBLISH_TIMEOUT_SECONDS"},
		{"EVENT_SERVICE.CHANNEL_PREFIX", "EVENT_SERVICE_CHANNEL_PREFIX"},
		// Rate limit config
		{"RATE_LIMIT.SUBMIT_REQUESTS_PER_MINUTE", "RATE_LIMIT_SUBMIT_REQUESTS_PER_MINUTE"},
		{"RATE_LIMIT.WINDOW_SECONDS", "RATE_LIMIT_WINDOW_SECONDS"},
		// WorkerPool config
		{"WORKER_POOL.MAX_WORKERS", "WORKER_POOL_MAX_WORKERS"},
		{"WORKER_POOL.QUEUE_SIZE", "WORKER_POOL_QUEUE_SIZE"},
		{"WORKER_POOL.SHUTDOWN_TIMEOUT_SECONDS", "WORKER_POOL_SHUTDOWN_TIMEOUT_SECONDS"},
		// Email config
		{"EMAIL.ENABLED", "EMAIL_ENABLED"},
		{"EMAIL.FROM_ADDRESS", "EMAIL_FROM_ADDRESS"},
		{"EMAIL.FROM_NAME", "EMAIL_FROM_NAME"},
		{"EMAIL.RESEND_API_KEY", "RESEND_API_KEY"},
		// Storage config
		{"STORAGE.ENABLED", "STORAGE_ENABLED"},
		{"STORAGE.ENDPOINT", "STORAGE_ENDPOINT"},
		{"STORAGE.REGION", "STORAGE_REGION"},
		{"STORAGE.BUCKET", "STORAGE_BUCKET"},
		{"STORAGE.ACCESS_KEY_ID", "STORAGE_ACCESS_KEY_ID"},
		{"STORAGE.SECRET_ACCESS_KEY", "STORAGE_SECRET_ACCESS_KEY"},
		{"STORAGE.PRESIGN_TTL", "STORAGE_PRESIGN_TTL"},
		// Draft reaper config
		{"REAPER.ENABLED", "REAPER_ENABLED"},
		{"REAPER.SCHEDULE", "REAPER_SCHEDULE"},
		{"REAPER.DRAFT_RETENTION_DAYS", "REAPER_DRAFT_RETENTION_DAYS"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	log.Infow("Configuration loaded",
		"environment", v.GetString("SERVER.ENVIRONMENT"),
		"server_port", v.GetString("SERVER.PORT"),
		"db_host", v.GetString("DATABASE.HOST"),
		"allowed_origins", v.GetString("SERVER.ALLOWED_ORIGINS"),
		"email_enabled", v.GetBool("EMAIL.ENABLED"),
		"storage_enabled", v.GetBool("STORAGE.ENABLED"),
	)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Info("Configuration validated successfully")
	return &cfg, nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	log := logger.GetLogger()

	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if len(cfg.Server.JwtSecretKey) < minJWTLength {
		return fmt.Errorf("JWT secret key must be at least %d characters long", minJWTLength)
	}
	if !containsWildcard(cfg.Server.AllowedOrigins) {
		for _, origin := range cfg.Server.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}

	if cfg.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if cfg.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if cfg.Database.Password == "" {
		log.Warn("Database password is not set. Ensure this is intended (e.g., using trusted auth).")
	}
	if cfg.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}

	if cfg.Redis.Address == "" {
		return fmt.Errorf("redis address is required")
	}

	if cfg.EventService.PublishTimeoutSeconds <= 0 {
		return fmt.Errorf("event service publish timeout must be positive")
	}

	if cfg.RateLimit.SubmitRequestsPerMinute <= 0 {
		return fmt.Errorf("rate limit submit requests per minute must be positive")
	}
	if cfg.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("rate limit window seconds must be positive")
	}

	if cfg.WorkerPool.MaxWorkers <= 0 {
		return fmt.Errorf("worker pool max workers must be positive")
	}
	if cfg.WorkerPool.QueueSize <= 0 {
		return fmt.Errorf("worker pool queue size must be positive")
	}
	if cfg.WorkerPool.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("worker pool shutdown timeout must be positive")
	}

	if cfg.Email.Enabled {
		if cfg.Email.FromAddress == "" {
			return fmt.Errorf("email from address is required when email is enabled")
		}
		if cfg.Email.ResendAPIKey == "" {
			return fmt.Errorf("resend API key is required when email is enabled")
		}
	}

	if cfg.Storage.Enabled {
		if cfg.Storage.Bucket == "" {
			return fmt.Errorf("storage bucket is required when storage is enabled")
		}
		if cfg.Storage.AccessKeyID == "" || cfg.Storage.SecretAccessKey == "" {
			return fmt.Errorf("storage credentials are required when storage is enabled")
		}
	}

	if cfg.Reaper.Enabled && cfg.Reaper.DraftRetentionDays <= 0 {
		return fmt.Errorf("draft retention days must be positive")
	}

	return nil
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
