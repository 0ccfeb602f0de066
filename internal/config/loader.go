// Package config provides configuration management for the Best Bet NFL engine.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	// Read the configuration file
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set environment variable prefix
	v.SetEnvPrefix("BEST_BET_NFL")

	// Enable automatic binding of environment variables
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// The config file may be absent entirely; defaults and environment variables
// are enough to run against the public provider endpoints.
func LoadWithDefaults(configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v.SetConfigType("yaml")
	v.SetEnvPrefix("BEST_BET_NFL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// Read and expand the configuration file if it exists
	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If file doesn't exist, continue with defaults and environment variables

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "best-bet-nfl")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("provider.site_api_url", "https://site.api.espn.com/apis/site/v2/sports/football/nfl")
	v.SetDefault("provider.web_api_url", "https://site.web.api.espn.com/apis/common/v3/sports/football/nfl")
	v.SetDefault("provider.season", 2024)
	v.SetDefault("provider.timeout_seconds", 12)
	v.SetDefault("provider.max_retries", 3)
	v.SetDefault("provider.rate_limit", 10.0)

	v.SetDefault("cache.ttl_minutes", 360)
	v.SetDefault("cache.teams_max_size", 128)
	v.SetDefault("cache.rosters_max_size", 256)
	v.SetDefault("cache.game_logs_max_size", 512)
	v.SetDefault("cache.team_stats_max_size", 256)
	v.SetDefault("cache.resolver_max_size", 256)
	v.SetDefault("cache.profiles_max_size", 256)

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_allow_all", true)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("schedule.cache_refresh", "0 6 * * *")

	v.SetDefault("features.history_enabled", false)
	v.SetDefault("features.cache_warm_enabled", false)
}

// ReloadFromEnv reloads configuration from an alternate path named in the
// BEST_BET_NFL_CONFIG_PATH environment variable
func ReloadFromEnv(cfg *Config) error {
	if envPath := os.Getenv("BEST_BET_NFL_CONFIG_PATH"); envPath != "" {
		newCfg, err := Load(envPath)
		if err != nil {
			return err
		}
		*cfg = *newCfg
	}

	return nil
}
