// Package config loads application configuration from defaults, an optional
// YAML config file, and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tunestream/tunestream/internal/search/scoring"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	History  HistoryConfig  `mapstructure:"history"`
	Search   SearchConfig   `mapstructure:"search"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// UpstreamConfig holds the music server connection settings.
type UpstreamConfig struct {
	URL            string `mapstructure:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	FetchLimit     int    `mapstructure:"fetch_limit"`
}

// TimeoutDuration returns the command timeout as a duration.
func (u *UpstreamConfig) TimeoutDuration() time.Duration {
	if u.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(u.TimeoutSeconds) * time.Second
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// HistoryConfig holds search-history retention settings.
type HistoryConfig struct {
	RetentionDays int `mapstructure:"retention_days"`
}

// SearchConfig holds relevance scoring overrides.
type SearchConfig struct {
	Scoring scoring.Config `mapstructure:"scoring"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8095,
		},
		Upstream: UpstreamConfig{
			URL:            "ws://localhost:8096/ws",
			TimeoutSeconds: 10,
			FetchLimit:     100,
		},
		Database: DatabaseConfig{
			Path: "./data/tunestream.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		History: HistoryConfig{
			RetentionDays: 90,
		},
		Search: SearchConfig{
			Scoring: scoring.DefaultConfig(),
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.tunestream")
	}

	v.SetEnvPrefix("TUNESTREAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults + env vars
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Search.Scoring.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search scoring configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values in viper.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)

	v.SetDefault("upstream.url", d.Upstream.URL)
	v.SetDefault("upstream.timeout_seconds", d.Upstream.TimeoutSeconds)
	v.SetDefault("upstream.fetch_limit", d.Upstream.FetchLimit)

	v.SetDefault("database.path", d.Database.Path)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", d.Logging.Path)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
	v.SetDefault("logging.compress", d.Logging.Compress)

	v.SetDefault("history.retention_days", d.History.RetentionDays)

	s := d.Search.Scoring
	v.SetDefault("search.scoring.exact_match", s.ExactMatch)
	v.SetDefault("search.scoring.exact_match_no_stop", s.ExactMatchNoStop)
	v.SetDefault("search.scoring.starts_with_match", s.StartsWithMatch)
	v.SetDefault("search.scoring.word_boundary_match", s.WordBoundaryMatch)
	v.SetDefault("search.scoring.reverse_contains_match", s.ReverseContainsMatch)
	v.SetDefault("search.scoring.contains_match", s.ContainsMatch)
	v.SetDefault("search.scoring.fuzzy_match_high", s.FuzzyMatchHigh)
	v.SetDefault("search.scoring.fuzzy_match_medium", s.FuzzyMatchMedium)
	v.SetDefault("search.scoring.ngram_match", s.NgramMatch)
	v.SetDefault("search.scoring.baseline", s.Baseline)
	v.SetDefault("search.scoring.fuzzy_high_threshold", s.FuzzyHighThreshold)
	v.SetDefault("search.scoring.fuzzy_medium_threshold", s.FuzzyMediumThreshold)
	v.SetDefault("search.scoring.ngram_threshold", s.NgramThreshold)
	v.SetDefault("search.scoring.fuzzy_scale_band", s.FuzzyScaleBand)
	v.SetDefault("search.scoring.ngram_scale_band", s.NgramScaleBand)
	v.SetDefault("search.scoring.reverse_token_min_length", s.ReverseTokenMinLength)
	v.SetDefault("search.scoring.artist_exact_bonus", s.ArtistExactBonus)
	v.SetDefault("search.scoring.artist_partial_bonus", s.ArtistPartialBonus)
	v.SetDefault("search.scoring.album_field_bonus", s.AlbumFieldBonus)
	v.SetDefault("search.scoring.author_exact_bonus", s.AuthorExactBonus)
	v.SetDefault("search.scoring.author_partial_bonus", s.AuthorPartialBonus)
	v.SetDefault("search.scoring.narrator_bonus", s.NarratorBonus)
	v.SetDefault("search.scoring.creator_exact_bonus", s.CreatorExactBonus)
	v.SetDefault("search.scoring.creator_partial_bonus", s.CreatorPartialBonus)
	v.SetDefault("search.scoring.description_bonus", s.DescriptionBonus)
	v.SetDefault("search.scoring.library_bonus", s.LibraryBonus)
	v.SetDefault("search.scoring.favorite_bonus", s.FavoriteBonus)
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
