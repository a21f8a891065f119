// Package config provides configuration management for the Yudor pricing engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Pricing     PricingConfig     `mapstructure:"pricing" validate:"required"`
	DataSources DataSourcesConfig `mapstructure:"data_sources" validate:"required"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler" validate:"required"`
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Metrics     MetricsConfig     `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// PricingConfig represents pricing pipeline configuration
type PricingConfig struct {
	Leagues            []string `mapstructure:"leagues" validate:"required,min=1"`
	ModelCacheTTLHours int      `mapstructure:"model_cache_ttl_hours" validate:"required,gt=0"`
	MinTrainingMatches int      `mapstructure:"min_training_matches" validate:"required,gt=0"`
	RollingWindow      int      `mapstructure:"rolling_window" validate:"required,gt=0"`
}

// DataSourcesConfig represents upstream data source configuration
type DataSourcesConfig struct {
	FootballData FootballDataConfig `mapstructure:"football_data" validate:"required"`
}

// FootballDataConfig represents the football-data API client configuration
type FootballDataConfig struct {
	BaseURL           string `mapstructure:"base_url" validate:"required,url"`
	APIKey            string `mapstructure:"api_key"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts     int    `mapstructure:"retry_attempts" validate:"gte=0"`
	RequestsPerSecond int    `mapstructure:"requests_per_second" validate:"required,gt=0"`
}

// SchedulerConfig represents the fixture pricing schedule
type SchedulerConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	PricingCron    string `mapstructure:"pricing_cron" validate:"required"`
	RefitCron      string `mapstructure:"refit_cron" validate:"required"`
	LookaheadHours int    `mapstructure:"lookahead_hours" validate:"required,gt=0"`
}

// ServerConfig represents the long-running server surfaces
type ServerConfig struct {
	HealthPort int  `mapstructure:"health_port" validate:"required,min=1,max=65535"`
	StreamPort int  `mapstructure:"stream_port" validate:"required,min=1,max=65535"`
	StreamPath string `mapstructure:"stream_path" validate:"required"`
	StreamEnabled bool `mapstructure:"stream_enabled"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// ModelCacheTTL returns the fitted-model cache TTL as a duration.
func (c *Config) ModelCacheTTL() time.Duration {
	return time.Duration(c.Pricing.ModelCacheTTLHours) * time.Hour
}

// FootballDataTimeout returns the upstream request timeout as a duration.
func (c *Config) FootballDataTimeout() time.Duration {
	return time.Duration(c.DataSources.FootballData.TimeoutSeconds) * time.Second
}
