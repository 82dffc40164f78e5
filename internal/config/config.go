// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// Config holds all application configuration
type Config struct {
	Dataset   DatasetConfig   `koanf:"dataset"`
	Database  DatabaseConfig  `koanf:"database"`
	Filter    FilterConfig    `koanf:"filter"`
	Recommend RecommendConfig `koanf:"recommend"`
	Store     StoreConfig     `koanf:"store"`
	Cache     CacheConfig     `koanf:"cache"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DatasetConfig points at the ratings CSV imported into DuckDB.
type DatasetConfig struct {
	Path            string `koanf:"path" validate:"required_if=ImportOnStartup true"`
	ImportOnStartup bool   `koanf:"import_on_startup"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path      string `koanf:"path" validate:"required"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads" validate:"gte=0,lte=256"` // Number of DuckDB threads (0 = use NumCPU)
}

// FilterConfig holds the interaction count thresholds.
// Movies and users with this many interactions or fewer are dropped.
type FilterConfig struct {
	MinMovieCount int `koanf:"min_movie_count" validate:"gte=0"`
	MinUserCount  int `koanf:"min_user_count" validate:"gte=0"`
}

// RecommendConfig holds collaborative filtering and evaluation settings
type RecommendConfig struct {
	Neighbors         int           `koanf:"neighbors" validate:"gte=1,lte=10000"`
	Similarity        string        `koanf:"similarity" validate:"required,similarity"`
	MeanSource        string        `koanf:"mean_source" validate:"required,mean_source"`
	DefaultK          int           `koanf:"top_k" validate:"gte=1"`
	MaxK              int           `koanf:"max_k" validate:"gte=1"`
	TargetUsers       []string      `koanf:"target_users"`
	EvaluateOnStartup bool          `koanf:"evaluate_on_startup"`
	EvaluateInterval  time.Duration `koanf:"evaluate_interval" validate:"gte=0"` // 0 disables periodic evaluation
	SkipFailedTargets bool          `koanf:"skip_failed_targets"`
	NumWorkers        int           `koanf:"num_workers" validate:"gte=0"` // 0 = GOMAXPROCS
	FitTimeout        time.Duration `koanf:"fit_timeout" validate:"gt=0"`
}

// StoreConfig holds BadgerDB settings for persisted evaluation runs
type StoreConfig struct {
	Path     string `koanf:"path" validate:"required_without=InMemory"`
	InMemory bool   `koanf:"in_memory"`
}

// CacheConfig holds the response cache settings.
// Capacity 0 disables caching.
type CacheConfig struct {
	Capacity int           `koanf:"capacity" validate:"gte=0,lte=1000000"`
	TTL      time.Duration `koanf:"ttl" validate:"gte=0"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	RateLimitReqs     int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gte=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"required,oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"required,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Load loads configuration from defaults, an optional YAML file and the
// environment, in that order of precedence.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// EngineConfig builds the collaborative filtering engine configuration.
func (c *Config) EngineConfig() *recommend.Config {
	return &recommend.Config{
		MinMovieCount:     c.Filter.MinMovieCount,
		MinUserCount:      c.Filter.MinUserCount,
		Neighbors:         c.Recommend.Neighbors,
		Similarity:        c.Recommend.Similarity,
		MeanSource:        recommend.MeanSource(c.Recommend.MeanSource),
		DefaultK:          c.Recommend.DefaultK,
		MaxK:              c.Recommend.MaxK,
		SkipFailedTargets: c.Recommend.SkipFailedTargets,
		FitTimeout:        c.Recommend.FitTimeout,
	}
}

// TargetUserIDs parses the configured evaluation targets.
func (c *Config) TargetUserIDs() ([]int, error) {
	ids := make([]int, 0, len(c.Recommend.TargetUsers))
	for _, raw := range c.Recommend.TargetUsers {
		id, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid target user %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
