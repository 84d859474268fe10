package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server   ServerConfig   `mapstructure:",squash"`
	Database DatabaseConfig `mapstructure:",squash"`
	Redis    RedisConfig    `mapstructure:",squash"`
	Snapshot SnapshotConfig `mapstructure:",squash"`
	Business BusinessConfig `mapstructure:",squash"`
	Logging  LoggingConfig  `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	// Path is the SQLite database file; the schema is created on open.
	Path string `mapstructure:"DATABASE_PATH"`
}

type RedisConfig struct {
	Host           string        `mapstructure:"REDIS_HOST"`
	Port           string        `mapstructure:"REDIS_PORT"`
	Password       string        `mapstructure:"REDIS_PASSWORD"`
	DB             int           `mapstructure:"REDIS_DB"`
	ReportCacheTTL time.Duration `mapstructure:"REPORT_CACHE_TTL"`
}

type SnapshotConfig struct {
	PatientsFile string `mapstructure:"SNAPSHOT_PATIENTS_FILE"`
	CatalogFile  string `mapstructure:"SNAPSHOT_CATALOG_FILE"`
	Schedule     string `mapstructure:"SNAPSHOT_SCHEDULE"`
}

type BusinessConfig struct {
	OverdueMonths int `mapstructure:"BUSINESS_OVERDUE_MONTHS"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
	File   string `mapstructure:"LOG_FILE"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Pull a .env into the process environment before viper reads it
	_ = godotenv.Load()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("DATABASE_PATH", "dentalpractice.db")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REPORT_CACHE_TTL", "5m")
	viper.SetDefault("SNAPSHOT_PATIENTS_FILE", "patients.xml")
	viper.SetDefault("SNAPSHOT_CATALOG_FILE", "procedures.xml")
	viper.SetDefault("SNAPSHOT_SCHEDULE", "0 0 2 * * *")
	viper.SetDefault("BUSINESS_OVERDUE_MONTHS", 6)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("LOG_FILE", "")

	// Read from environment variables
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}

	if c.Business.OverdueMonths <= 0 {
		return fmt.Errorf("BUSINESS_OVERDUE_MONTHS must be greater than 0")
	}

	if c.Redis.ReportCacheTTL <= 0 {
		return fmt.Errorf("REPORT_CACHE_TTL must be a positive duration")
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(c.Snapshot.Schedule); err != nil {
		return fmt.Errorf("SNAPSHOT_SCHEDULE must be a valid cron expression: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// RedisAddr returns the host:port address for the Redis client
func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}
