// Package config provides configuration management for the Pitchside application.
package config

import (
	"fmt"
	"sort"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Bookmaker BookmakerConfig `mapstructure:"bookmaker" validate:"required"`
	Results   ResultsConfig   `mapstructure:"results" validate:"required"`
	Strategy  StrategyConfig  `mapstructure:"strategy" validate:"required"`
	Staking   StakingConfig   `mapstructure:"staking" validate:"required"`
	Ratings   RatingsConfig   `mapstructure:"ratings" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
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

// BookmakerConfig represents bookmaker API configuration
type BookmakerConfig struct {
	Name            string  `mapstructure:"name" validate:"required"`
	APIURL          string  `mapstructure:"api_url" validate:"required,url"`
	Username        string  `mapstructure:"username" validate:"required"`
	Password        string  `mapstructure:"password" validate:"required"`
	APIKey          string  `mapstructure:"api_key"`
	MinStake        float64 `mapstructure:"min_stake" validate:"gte=0"`
	MaxStake        float64 `mapstructure:"max_stake" validate:"gte=0"`
	PaceMinSeconds  int     `mapstructure:"pace_min_seconds" validate:"gte=0"`
	PaceMaxSeconds  int     `mapstructure:"pace_max_seconds" validate:"gte=0"`
	RequestsPerSec  float64 `mapstructure:"requests_per_sec" validate:"gt=0"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts   int     `mapstructure:"retry_attempts" validate:"gte=0"`
}

// ResultsConfig represents the fixture results API configuration
type ResultsConfig struct {
	APIURL         string  `mapstructure:"api_url" validate:"required,url"`
	APIKey         string  `mapstructure:"api_key" validate:"required"`
	APIHost        string  `mapstructure:"api_host" validate:"required"`
	RequestsPerSec float64 `mapstructure:"requests_per_sec" validate:"gt=0"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts  int     `mapstructure:"retry_attempts" validate:"gte=0"`
}

// LeagueRef maps a league code to its identifiers at the data providers
type LeagueRef struct {
	ID           int    `mapstructure:"id" validate:"required,gt=0"`
	BookmakerRef string `mapstructure:"bookmaker_ref" validate:"required"`
	HistoryFile  string `mapstructure:"history_file"`
}

// StrategyConfig represents strategy persistence and league mapping configuration
type StrategyConfig struct {
	Name       string               `mapstructure:"name" validate:"required"`
	ConfigDir  string               `mapstructure:"config_dir" validate:"required"`
	HistoryDir string               `mapstructure:"history_dir" validate:"required"`
	Leagues    map[string]LeagueRef `mapstructure:"leagues" validate:"required,min=1,dive"`
}

// StakingConfig represents staking policy configuration
type StakingConfig struct {
	Method        string   `mapstructure:"method" validate:"required,staking"`
	KellyFraction float64  `mapstructure:"kelly_fraction" validate:"gt=0,lte=1"`
	Percent       float64  `mapstructure:"percent" validate:"gt=0,lte=1"`
	LevelAmount   float64  `mapstructure:"level_amount" validate:"gt=0"`
	BackableSides []string `mapstructure:"backable_sides" validate:"omitempty,dive,oneof=home draw away"`
}

// RatingsConfig represents match rating configuration
type RatingsConfig struct {
	Window int `mapstructure:"window" validate:"required,gt=0"`
}

// SchedulerConfig represents cron schedules for placement and settlement runs
type SchedulerConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	PlacementCron  string `mapstructure:"placement_cron" validate:"required"`
	SettlementCron string `mapstructure:"settlement_cron" validate:"required"`
}

// TracingConfig represents AWS X-Ray tracing configuration
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	DaemonAddr   string  `mapstructure:"daemon_addr"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
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

// LeagueCodes returns the configured league codes in deterministic order
func (c *Config) LeagueCodes() []string {
	codes := make([]string, 0, len(c.Strategy.Leagues))
	for code := range c.Strategy.Leagues {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
