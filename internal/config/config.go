// Package config provides configuration management for the Best Bet NFL engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Provider ProviderConfig `mapstructure:"provider" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
	Schedule ScheduleConfig `mapstructure:"schedule" validate:"required"`
	Features FeaturesConfig `mapstructure:"features" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ProviderConfig represents the external statistics provider configuration
type ProviderConfig struct {
	SiteAPIURL     string  `mapstructure:"site_api_url" validate:"required,url"`
	WebAPIURL      string  `mapstructure:"web_api_url" validate:"required,url"`
	APIKey         string  `mapstructure:"api_key"`
	Season         int     `mapstructure:"season" validate:"required,gt=2000"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// CacheConfig represents memoization cache configuration.
// Each lookup kind gets its own fixed-capacity cache.
type CacheConfig struct {
	TTLMinutes       int `mapstructure:"ttl_minutes" validate:"required,gt=0"`
	TeamsMaxSize     int `mapstructure:"teams_max_size" validate:"required,gt=0"`
	RostersMaxSize   int `mapstructure:"rosters_max_size" validate:"required,gt=0"`
	GameLogsMaxSize  int `mapstructure:"game_logs_max_size" validate:"required,gt=0"`
	TeamStatsMaxSize int `mapstructure:"team_stats_max_size" validate:"required,gt=0"`
	ResolverMaxSize  int `mapstructure:"resolver_max_size" validate:"required,gt=0"`
	ProfilesMaxSize  int `mapstructure:"profiles_max_size" validate:"required,gt=0"`
}

// ServerConfig represents the evaluation API server configuration
type ServerConfig struct {
	Port         int  `mapstructure:"port" validate:"required,min=1,max=65535"`
	CORSAllowAll bool `mapstructure:"cors_allow_all"`
}

// DatabaseConfig represents database connection configuration for the
// optional evaluation history store. Only validated when history is enabled.
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode"`
	MaxConnections     int    `mapstructure:"max_connections"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// ScheduleConfig represents cache warm scheduling
type ScheduleConfig struct {
	CacheRefresh string `mapstructure:"cache_refresh" validate:"required"`
}

// FeaturesConfig represents feature flags
type FeaturesConfig struct {
	HistoryEnabled   bool `mapstructure:"history_enabled"`
	CacheWarmEnabled bool `mapstructure:"cache_warm_enabled"`
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

// ProviderTimeout returns the provider request timeout as a duration
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSeconds) * time.Second
}

// CacheTTL returns the memoization cache TTL as a duration
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}
