package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	OpenAI   OpenAIConfig
	Auth     AuthConfig
	Security SecurityConfig
	Goals    GoalsConfig
	Logging  LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// OpenAIConfig holds the completion API configuration
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// AuthConfig holds bearer-token validation configuration. Tokens are issued
// by the external identity service; this backend only verifies them.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

// SecurityConfig holds at-rest encryption configuration
type SecurityConfig struct {
	// EncryptionKey is the AES-256 key for sensitive columns, 32 bytes
	EncryptionKey string
}

// GoalsConfig holds the fallback targets for goal-relative vitals.
// Per-user goals from the profile override these at evaluation time.
type GoalsConfig struct {
	Steps       float64
	WaterLiters float64
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Database defaults
	v.SetDefault("database.maxopenconns", 25)
	v.SetDefault("database.maxidleconns", 5)
	v.SetDefault("database.connmaxlifetime", 5*time.Minute)

	// Completion API defaults
	v.SetDefault("openai.model", "gpt-4o-mini")

	// Evaluator goal defaults
	v.SetDefault("goals.steps", 10000.0)
	v.SetDefault("goals.waterliters", 2.5)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")

	// Database
	v.BindEnv("database.url", "DATABASE_URL")

	// Completion API
	v.BindEnv("openai.apikey", "OPENAI_API_KEY")
	v.BindEnv("openai.baseurl", "OPENAI_BASE_URL")
	v.BindEnv("openai.model", "OPENAI_MODEL")

	// Auth
	v.BindEnv("auth.jwtsecret", "JWT_SECRET")
	v.BindEnv("auth.issuer", "JWT_ISSUER")

	// Security
	v.BindEnv("security.encryptionkey", "DATA_ENCRYPTION_KEY")

	// Evaluator goals
	v.BindEnv("goals.steps", "GOAL_STEPS")
	v.BindEnv("goals.waterliters", "GOAL_WATER_LITERS")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}

	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.apikey is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwtsecret is required")
	}

	if len(c.Security.EncryptionKey) != 32 {
		return fmt.Errorf("security.encryptionkey must be exactly 32 bytes")
	}

	if c.Goals.Steps <= 0 {
		return fmt.Errorf("goals.steps must be positive")
	}

	if c.Goals.WaterLiters <= 0 {
		return fmt.Errorf("goals.waterliters must be positive")
	}

	return nil
}
